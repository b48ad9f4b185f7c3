// Package credentials persists the bearer token and the cached user profile
// between runs of the client.
package credentials

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
)

// Storage keys.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Store is a synchronous key/value store. Absence is the only failure a
// caller can observe.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// MemoryStore keeps values for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty store, optionally seeded with values.
func NewMemoryStore(seed map[string]string) *MemoryStore {
	s := &MemoryStore{values: make(map[string]string, len(seed))}
	for k, v := range seed {
		s.values[k] = v
	}
	return s
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
}

func (s *MemoryStore) Remove(key string) {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
}

// Snapshot copies the current contents.
func (s *MemoryStore) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// FileStore mirrors a MemoryStore into a JSON file readable only by the
// owner. The in-memory copy stays authoritative when a write fails.
type FileStore struct {
	mem    *MemoryStore
	path   string
	logger *log.Logger
	mu     sync.Mutex
}

// OpenFileStore loads path if it exists. A missing file yields an empty
// store; a corrupt one is logged and ignored.
func OpenFileStore(path string, logger *log.Logger) (*FileStore, error) {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	s := &FileStore{path: path, logger: logger}

	values := map[string]string{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(data, &values); err != nil {
			logger.Warn("ignoring unreadable credentials file", "path", path, "err", err)
			values = map[string]string{}
		}
	}
	s.mem = NewMemoryStore(values)
	return s, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get(key string) (string, bool) {
	return s.mem.Get(key)
}

func (s *FileStore) Set(key, value string) {
	s.mem.Set(key, value)
	s.flush()
}

func (s *FileStore) Remove(key string) {
	s.mem.Remove(key)
	s.flush()
}

func (s *FileStore) flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(s.mem.Snapshot()); err != nil {
		s.logger.Error("failed to persist credentials", "path", s.path, "err", err)
	}
}

// write replaces the file atomically via a temp file in the same directory.
func (s *FileStore) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
