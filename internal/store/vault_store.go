package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileVaultStore is the durable get/put home of the vault blob. One logical
// writer and one logical reader; last write wins.
type FileVaultStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileVaultStore(dir string) *FileVaultStore { return &FileVaultStore{dir: dir} }

func (s *FileVaultStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *FileVaultStore) Put(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(key)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func (s *FileVaultStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// path maps a well-known key to a file. Keys never contain separators; guard
// anyway so a bad caller cannot escape the home directory.
func (s *FileVaultStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid store key %q", key)
	}
	return filepath.Join(s.dir, key+".dat"), nil
}
