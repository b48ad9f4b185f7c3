package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domain "taskmanager/internal/domain/auth"
	"taskmanager/internal/domain/user"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*user.User
	next  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*user.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	u.ID = "user-" + string(rune('0'+r.next))
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) find(match func(*user.User) bool) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeUserRepo(), "secret", time.Hour)

	reg, err := svc.Register(ctx, domain.RegisterRequest{Username: "alice", Email: "a@b.com", Password: "password"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if reg.Token == "" || reg.Username != "alice" || reg.Email != "a@b.com" || reg.Message != domain.MessageRegistered {
		t.Fatalf("Register() = %+v", reg)
	}

	login, err := svc.Login(ctx, domain.LoginRequest{Email: "a@b.com", Password: "password"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if login.Message != domain.MessageLogin || login.Username != "alice" {
		t.Fatalf("Login() = %+v", login)
	}

	u, err := svc.ValidateToken(ctx, login.Token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if u.Username != "alice" {
		t.Fatalf("ValidateToken() user = %q, want alice", u.Username)
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeUserRepo(), "secret", time.Hour)

	tests := []struct {
		name string
		req  domain.RegisterRequest
		want error
	}{
		{"bad email", domain.RegisterRequest{Username: "alice", Email: "nope", Password: "password"}, user.ErrInvalidEmail},
		{"short username", domain.RegisterRequest{Username: "al", Email: "a@b.com", Password: "password"}, user.ErrInvalidUsername},
		{"short password", domain.RegisterRequest{Username: "alice", Email: "a@b.com", Password: "123"}, user.ErrInvalidPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("Register() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeUserRepo(), "secret", time.Hour)
	req := domain.RegisterRequest{Username: "alice", Email: "a@b.com", Password: "password"}

	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := svc.Register(ctx, req); !errors.Is(err, user.ErrUserAlreadyExists) {
		t.Fatalf("second Register() error = %v, want ErrUserAlreadyExists", err)
	}

	req.Email = "other@b.com"
	if _, err := svc.Register(ctx, req); !errors.Is(err, user.ErrUserAlreadyExists) {
		t.Fatalf("Register() same username error = %v, want ErrUserAlreadyExists", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeUserRepo(), "secret", time.Hour)
	if _, err := svc.Register(ctx, domain.RegisterRequest{Username: "alice", Email: "a@b.com", Password: "password"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := svc.Login(ctx, domain.LoginRequest{Email: "a@b.com", Password: "wrong-pass"}); !errors.Is(err, user.ErrInvalidCredentials) {
		t.Fatalf("Login() wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, domain.LoginRequest{Email: "x@b.com", Password: "password"}); !errors.Is(err, user.ErrInvalidCredentials) {
		t.Fatalf("Login() unknown email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(repo, "secret", time.Hour, WithClock(func() time.Time { return issued }))

	resp, err := svc.Register(ctx, domain.RegisterRequest{Username: "alice", Email: "a@b.com", Password: "password"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("expired", func(t *testing.T) {
		later := NewService(repo, "secret", time.Hour, WithClock(func() time.Time { return issued.Add(2 * time.Hour) }))
		if _, err := later.ValidateToken(ctx, resp.Token); !errors.Is(err, user.ErrUnauthorized) {
			t.Fatalf("ValidateToken() error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewService(repo, "other", time.Hour, WithClock(func() time.Time { return issued }))
		if _, err := other.ValidateToken(ctx, resp.Token); !errors.Is(err, user.ErrUnauthorized) {
			t.Fatalf("ValidateToken() error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("tampered", func(t *testing.T) {
		if _, err := svc.ValidateToken(ctx, strings.TrimSuffix(resp.Token, resp.Token[len(resp.Token)-2:])); !errors.Is(err, user.ErrUnauthorized) {
			t.Fatalf("ValidateToken() error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := domain.Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour)),
		}}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("sign none: %v", err)
		}
		if _, err := svc.ValidateToken(ctx, unsigned); !errors.Is(err, user.ErrUnauthorized) {
			t.Fatalf("ValidateToken() error = %v, want ErrUnauthorized", err)
		}
	})
}
