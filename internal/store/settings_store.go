package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"vaultlink/internal/domain"
)

const settingsFile = "settings.toml"

// FileSettingsStore persists workspace protection settings as TOML.
type FileSettingsStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileSettingsStore(dir string) *FileSettingsStore { return &FileSettingsStore{dir: dir} }

// Load reads settings, returning normalized defaults when no file exists.
func (s *FileSettingsStore) Load() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out domain.Settings
	_, err := toml.DecodeFile(filepath.Join(s.dir, settingsFile), &out)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Settings{}.Normalize(), nil
	}
	if err != nil {
		return domain.Settings{}, err
	}
	return out.Normalize(), nil
}

func (s *FileSettingsStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(filepath.Join(s.dir, settingsFile), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(settings.Normalize())
}
