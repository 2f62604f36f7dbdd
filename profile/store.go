package profile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Store persists the last-known user record between process runs.
// Load returns (nil, nil) when no record has been saved.
type Store interface {
	Save(user *User) error
	Load() (*User, error)
	Clear() error
}

var _ Store = (*MemoryStore)(nil)
var _ Store = (*FileStore)(nil)

// MemoryStore keeps the record in memory only.
type MemoryStore struct {
	mu   sync.Mutex
	user *User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil {
		s.user = nil
		return nil
	}
	u := *user
	s.user = &u
	return nil
}

func (s *MemoryStore) Load() (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, nil
	}
	u := *s.user
	return &u, nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	return nil
}

// FileStore writes the record as JSON to a single file, the CLI
// equivalent of the browser's locally persisted user mirror.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Save(user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user == nil {
		return s.remove()
	}

	data, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "[FileStore.Save] marshal user")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "[FileStore.Save] create directory")
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(err, "[FileStore.Save] write file")
	}
	return nil
}

func (s *FileStore) Load() (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[FileStore.Load] read file")
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, errors.Wrap(err, "[FileStore.Load] unmarshal user")
	}
	return &user, nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove()
}

func (s *FileStore) remove() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileStore.Clear] remove file")
	}
	return nil
}
