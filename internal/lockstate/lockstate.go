package lockstate

import (
	"crypto/rsa"
	"fmt"

	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
	"vaultlink/internal/envelope"
	"vaultlink/internal/protocol/pinlock"
)

// Kind tags the active state variant.
type Kind int

const (
	Loading Kind = iota
	Encrypted
	PinLocked
	Ready
)

func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Encrypted:
		return "encrypted"
	case PinLocked:
		return "pin-locked"
	case Ready:
		return "ready"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// State is the tagged variant; only the fields of the active Kind are set.
type State struct {
	Kind  Kind
	Vault domain.Vault   // Ready
	Blob  string         // Encrypted: the textual envelope from storage
	Pin   pinlock.Locked // PinLocked
}

// Classify turns the load-on-start storage read into the initial state:
// nothing stored → Ready with an empty vault; a blob carrying the envelope
// prefix → Encrypted; anything else must parse as a plain vault document.
// PinLocked is never produced here.
func Classify(stored []byte, found bool) (State, error) {
	if !found || len(stored) == 0 {
		return State{Kind: Ready, Vault: domain.EmptyVault()}, nil
	}
	if envelope.IsText(string(stored)) {
		return State{Kind: Encrypted, Blob: string(stored)}, nil
	}
	v, err := domain.ParseVault(stored)
	if err != nil {
		return State{}, fmt.Errorf("stored blob is neither an envelope nor a vault document: %w", err)
	}
	return State{Kind: Ready, Vault: v}, nil
}

// Lock applies the configured protection mode to a Ready state. mode=encrypt
// seals the whole vault for the companion key and drops the plaintext;
// mode=pin invokes the quick lock; mode=none is a no-op.
func Lock(s State, settings domain.Settings, companion *rsa.PublicKey) (State, error) {
	if s.Kind != Ready {
		return s, fmt.Errorf("lock from %v state", s.Kind)
	}
	switch settings.Normalize().Mode {
	case domain.ProtectionNone:
		return s, nil
	case domain.ProtectionEncrypt:
		raw, err := s.Vault.Marshal()
		if err != nil {
			return s, err
		}
		env, err := crypto.Seal(raw, envelope.AppEncryptedFile, companion, settings)
		if err != nil {
			return s, err
		}
		body, err := envelope.Encode(env)
		if err != nil {
			return s, err
		}
		return State{Kind: Encrypted, Blob: envelope.EncodeText(body)}, nil
	case domain.ProtectionPin:
		raw, err := s.Vault.Marshal()
		if err != nil {
			return s, err
		}
		locked, err := pinlock.Lock(raw, companion, settings)
		if err != nil {
			return s, err
		}
		return State{Kind: PinLocked, Pin: locked}, nil
	}
	return s, fmt.Errorf("unknown protection mode %q", settings.Mode)
}

// Unlocked records a successful handshake: Encrypted → Ready with the
// recovered vault.
func Unlocked(s State, vault domain.Vault) (State, error) {
	if s.Kind != Encrypted {
		return s, fmt.Errorf("unlock from %v state", s.Kind)
	}
	return State{Kind: Ready, Vault: vault}, nil
}

// Skip abandons the handshake and starts over with an empty vault. It
// returns the still-encrypted blob so the caller can back it up before
// anything overwrites it.
func Skip(s State) (next State, backup string, err error) {
	if s.Kind != Encrypted {
		return s, "", fmt.Errorf("skip from %v state", s.Kind)
	}
	return State{Kind: Ready, Vault: domain.EmptyVault()}, s.Blob, nil
}

// TryPin attempts a PIN unlock. A wrong PIN keeps the state PinLocked and
// reports ErrPinMismatch; the user may retry.
func TryPin(s State, input string) (State, error) {
	if s.Kind != PinLocked {
		return s, fmt.Errorf("pin unlock from %v state", s.Kind)
	}
	raw, ok := pinlock.Unlock(input, s.Pin)
	if !ok {
		return s, domain.ErrPinMismatch
	}
	v, err := domain.ParseVault(raw)
	if err != nil {
		return s, err
	}
	return State{Kind: Ready, Vault: v}, nil
}
