package vault

import (
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog/log"

	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
	"vaultlink/internal/envelope"
	"vaultlink/internal/lockstate"
	"vaultlink/internal/protocol/handshake"
	"vaultlink/internal/protocol/pinlock"
)

// PinLockKey is where a quick-locked vault lives between processes. The
// state machine never enters PinLocked from storage; this blob exists only
// because a CLI invocation ends where a browser session would keep running,
// and ResumePin makes that explicit.
const PinLockKey = "vault.pin"

// ErrNoPendingRequest is returned when a response arrives without a stored
// handshake context to match it.
var ErrNoPendingRequest = errors.New("no pending key request; start a new unlock")

// Service ties the lock state machine to the stores.
type Service struct {
	vaults   domain.VaultStore
	contexts domain.ContextStore
	settings domain.SettingsStore
}

func New(vaults domain.VaultStore, contexts domain.ContextStore, settings domain.SettingsStore) *Service {
	return &Service{vaults: vaults, contexts: contexts, settings: settings}
}

// Load classifies the stored blob into the initial lock state.
func (s *Service) Load() (lockstate.State, error) {
	blob, found, err := s.vaults.Get(domain.VaultKey)
	if err != nil {
		return lockstate.State{}, err
	}
	st, err := lockstate.Classify(blob, found)
	if err != nil {
		return lockstate.State{}, err
	}
	log.Debug().Stringer("state", st.Kind).Bool("found", found).Msg("vault loaded")
	return st, nil
}

// Save persists a Ready vault according to the protection mode. When
// mode=encrypt and sealing fails, it deliberately falls back to writing an
// unencrypted snapshot rather than losing data; the returned flag tells the
// caller to warn the user about the trade-off.
func (s *Service) Save(st lockstate.State, settings domain.Settings) (plaintextFallback bool, err error) {
	if st.Kind != lockstate.Ready {
		return false, fmt.Errorf("save from %v state", st.Kind)
	}
	raw, err := st.Vault.Marshal()
	if err != nil {
		return false, err
	}

	if settings.Normalize().Mode == domain.ProtectionEncrypt {
		blob, sealErr := s.sealVault(raw, settings)
		if sealErr == nil {
			return false, s.vaults.Put(domain.VaultKey, []byte(blob))
		}
		log.Error().Err(sealErr).Msg("sealing failed; writing unencrypted snapshot instead of losing data")
		if err := s.vaults.Put(domain.VaultKey, raw); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, s.vaults.Put(domain.VaultKey, raw)
}

// Lock applies the configured protection mode and persists the outcome. For
// mode=pin the relay message carrying the sealed PIN is returned for display.
func (s *Service) Lock(st lockstate.State, settings domain.Settings) (lockstate.State, string, error) {
	pub, err := s.companionKey(settings)
	if err != nil {
		return st, "", err
	}
	next, err := lockstate.Lock(st, settings, pub)
	if err != nil {
		return st, "", err
	}

	switch next.Kind {
	case lockstate.Encrypted:
		if err := s.vaults.Put(domain.VaultKey, []byte(next.Blob)); err != nil {
			return st, "", err
		}
		log.Info().Msg("vault sealed for companion key")
		return next, "", nil
	case lockstate.PinLocked:
		blob, err := cbor.Marshal(next.Pin)
		if err != nil {
			return st, "", err
		}
		if err := s.vaults.Put(PinLockKey, blob); err != nil {
			return st, "", err
		}
		if err := s.vaults.Delete(domain.VaultKey); err != nil {
			return st, "", err
		}
		log.Info().Msg("vault quick-locked behind PIN")
		return next, next.Pin.RelayMessage, nil
	}
	// mode=none is a no-op.
	return next, "", nil
}

// BeginUnlock starts the remote-unlock handshake against an Encrypted state
// and persists the context so the flow survives one restart.
func (s *Service) BeginUnlock(st lockstate.State, reference string, settings domain.Settings) (*handshake.Context, error) {
	if st.Kind != lockstate.Encrypted {
		return nil, fmt.Errorf("unlock from %v state", st.Kind)
	}
	ctx, err := handshake.NewRequest(st.Blob, reference, settings)
	if err != nil {
		return nil, err
	}
	stored, err := ctx.Marshal()
	if err != nil {
		return nil, err
	}
	if err := s.contexts.Put(stored); err != nil {
		return nil, err
	}
	log.Info().Str("reference", reference).Msg("key request built")
	return ctx, nil
}

// CompleteUnlock consumes the stored context and the pasted response. The
// context slot is taken (deleted) before the response is processed, so a
// second response cannot replay against the same ephemeral key.
func (s *Service) CompleteUnlock(responseText string) (lockstate.State, error) {
	stored, ok, err := s.contexts.Take()
	if err != nil {
		return lockstate.State{}, err
	}
	if !ok {
		return lockstate.State{}, ErrNoPendingRequest
	}
	ctx, err := handshake.Restore(stored)
	if err != nil {
		return lockstate.State{}, err
	}
	vault, raw, err := ctx.Accept(responseText)
	if err != nil {
		log.Error().Err(err).Msg("key response rejected")
		return lockstate.State{}, err
	}
	if err := s.vaults.Put(domain.VaultKey, raw); err != nil {
		return lockstate.State{}, err
	}
	log.Info().Int("entries", len(vault.Entries)).Msg("vault unlocked via companion")
	return lockstate.State{Kind: lockstate.Ready, Vault: vault}, nil
}

// SkipUnlock abandons the handshake: the encrypted blob is backed up first,
// then an empty vault takes its place. Any pending context is dropped.
func (s *Service) SkipUnlock(st lockstate.State) (lockstate.State, error) {
	next, backup, err := lockstate.Skip(st)
	if err != nil {
		return st, err
	}
	if err := s.vaults.Put(domain.VaultBackupKey, []byte(backup)); err != nil {
		return st, err
	}
	raw, err := next.Vault.Marshal()
	if err != nil {
		return st, err
	}
	if err := s.vaults.Put(domain.VaultKey, raw); err != nil {
		return st, err
	}
	if err := s.contexts.Drop(); err != nil {
		return st, err
	}
	log.Warn().Msg("unlock skipped; encrypted blob backed up, starting empty")
	return next, nil
}

// ResumePin returns the persisted quick-locked state, if any.
func (s *Service) ResumePin() (lockstate.State, bool, error) {
	blob, found, err := s.vaults.Get(PinLockKey)
	if err != nil || !found {
		return lockstate.State{}, false, err
	}
	var locked pinlock.Locked
	if err := cbor.Unmarshal(blob, &locked); err != nil {
		return lockstate.State{}, false, err
	}
	return lockstate.State{Kind: lockstate.PinLocked, Pin: locked}, true, nil
}

// PinUnlock attempts the quick unlock. A wrong PIN returns ErrPinMismatch
// and leaves everything in place for a retry; success persists the plaintext
// vault and clears the quick-lock blob.
func (s *Service) PinUnlock(st lockstate.State, input string) (lockstate.State, error) {
	next, err := lockstate.TryPin(st, input)
	if err != nil {
		if errors.Is(err, domain.ErrPinMismatch) {
			log.Warn().Msg("PIN rejected")
		}
		return st, err
	}
	raw, err := next.Vault.Marshal()
	if err != nil {
		return st, err
	}
	if err := s.vaults.Put(domain.VaultKey, raw); err != nil {
		return st, err
	}
	if err := s.vaults.Delete(PinLockKey); err != nil {
		return st, err
	}
	log.Info().Msg("vault unlocked via PIN")
	return next, nil
}

func (s *Service) sealVault(raw []byte, settings domain.Settings) (string, error) {
	pub, err := s.companionKey(settings)
	if err != nil {
		return "", err
	}
	env, err := crypto.Seal(raw, envelope.AppEncryptedFile, pub, settings)
	if err != nil {
		return "", err
	}
	body, err := envelope.Encode(env)
	if err != nil {
		return "", err
	}
	return envelope.EncodeText(body), nil
}

func (s *Service) companionKey(settings domain.Settings) (*rsa.PublicKey, error) {
	if settings.CompanionPublicKey == "" {
		return nil, errors.New("no companion public key configured; run init first")
	}
	return crypto.ParsePublicKeyPEM(settings.CompanionPublicKey)
}
