package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"vaultlink/internal/domain"
	"vaultlink/internal/util/memzero"
)

// contextFile is the single well-known slot for the latest pending
// handshake context.
const contextFile = "keyrequest.ctx"

// FileContextStore holds at most one KeyRequestContext. Take deletes the
// slot before returning its contents, so the stored ephemeral key can be
// consumed exactly once — a response can never be replayed against a stale
// key that survived on disk.
type FileContextStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileContextStore(dir string) *FileContextStore { return &FileContextStore{dir: dir} }

func (s *FileContextStore) Put(ctx domain.KeyRequestContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := cbor.Marshal(ctx)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, contextFile), blob, 0o600)
}

func (s *FileContextStore) Take() (domain.KeyRequestContext, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, contextFile)
	blob, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.KeyRequestContext{}, false, nil
	}
	if err != nil {
		return domain.KeyRequestContext{}, false, err
	}
	// Delete first; a context that cannot be removed must not be handed out.
	if err := os.Remove(path); err != nil {
		return domain.KeyRequestContext{}, false, err
	}
	var ctx domain.KeyRequestContext
	if err := cbor.Unmarshal(blob, &ctx); err != nil {
		memzero.Zero(blob)
		return domain.KeyRequestContext{}, false, err
	}
	memzero.Zero(blob)
	return ctx, true, nil
}

func (s *FileContextStore) Drop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(filepath.Join(s.dir, contextFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
