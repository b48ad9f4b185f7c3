package credentials

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"taskmanager/internal/infrastructure/logging"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(map[string]string{KeyToken: "T0"})

	if got, ok := s.Get(KeyToken); !ok || got != "T0" {
		t.Fatalf("Get(token) = %q, %v, want T0, true", got, ok)
	}
	s.Set(KeyToken, "T1")
	if got, _ := s.Get(KeyToken); got != "T1" {
		t.Fatalf("Get(token) = %q, want T1", got)
	}
	s.Remove(KeyToken)
	if _, ok := s.Get(KeyToken); ok {
		t.Fatal("token still present after Remove")
	}
	s.Remove("missing")
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")

	t.Run("missing file starts empty", func(t *testing.T) {
		s, err := OpenFileStore(path, logging.Discard())
		if err != nil {
			t.Fatalf("OpenFileStore: %v", err)
		}
		if _, ok := s.Get(KeyToken); ok {
			t.Fatal("expected empty store")
		}
	})

	t.Run("values survive reopen", func(t *testing.T) {
		s, err := OpenFileStore(path, logging.Discard())
		if err != nil {
			t.Fatalf("OpenFileStore: %v", err)
		}
		s.Set(KeyToken, "T1")
		s.Set(KeyUser, `{"username":"alice","email":"a@b.com"}`)

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Fatalf("mode = %o, want 600", perm)
		}

		reopened, err := OpenFileStore(path, logging.Discard())
		if err != nil {
			t.Fatalf("reopen: %v", err)
		}
		if got, _ := reopened.Get(KeyToken); got != "T1" {
			t.Fatalf("token = %q, want T1", got)
		}
		if got, _ := reopened.Get(KeyUser); got != `{"username":"alice","email":"a@b.com"}` {
			t.Fatalf("user = %q", got)
		}

		reopened.Remove(KeyToken)
		again, _ := OpenFileStore(path, logging.Discard())
		if _, ok := again.Get(KeyToken); ok {
			t.Fatal("token persisted after Remove")
		}
	})

	t.Run("corrupt file is ignored", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		if err := os.WriteFile(bad, []byte("{not json"), 0o600); err != nil {
			t.Fatal(err)
		}
		s, err := OpenFileStore(bad, logging.Discard())
		if err != nil {
			t.Fatalf("OpenFileStore: %v", err)
		}
		if _, ok := s.Get(KeyToken); ok {
			t.Fatal("expected empty store")
		}
	})
}

func TestTokenSource(t *testing.T) {
	store := NewMemoryStore(nil)
	src := TokenSource(store)

	if _, err := src.Token(); !errors.Is(err, ErrNoToken) {
		t.Fatalf("Token() err = %v, want ErrNoToken", err)
	}

	store.Set(KeyToken, "T1")
	tok, err := src.Token()
	if err != nil {
		t.Fatalf("Token(): %v", err)
	}
	if tok.AccessToken != "T1" || tok.Type() != "Bearer" {
		t.Fatalf("token = %+v", tok)
	}

	store.Set(KeyToken, "T2")
	if tok, _ := src.Token(); tok.AccessToken != "T2" {
		t.Fatalf("AccessToken = %q, want T2", tok.AccessToken)
	}

	store.Remove(KeyToken)
	if _, err := src.Token(); !errors.Is(err, ErrNoToken) {
		t.Fatalf("Token() after remove err = %v, want ErrNoToken", err)
	}
}
