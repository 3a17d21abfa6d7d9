package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedTransformation is returned when an envelope read from an
	// untrusted source declares an RSA or AES transformation index we do not
	// know. It is always fatal to that operation; parsers never fall back to
	// a default index.
	ErrUnsupportedTransformation = errors.New("unsupported transformation index")

	// ErrHandshakeMismatch is returned when a pasted response carries the
	// wrong application id for the protocol step that consumed it.
	ErrHandshakeMismatch = errors.New("response application id does not match handshake step")

	// ErrPinMismatch reports a failed PIN unlock attempt. It is recoverable;
	// the user may retry.
	ErrPinMismatch = errors.New("incorrect PIN")
)

// DecodeError reports malformed or truncated envelope framing.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("decode %s: malformed envelope", e.Field)
	}
	return fmt.Sprintf("decode %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncryptError wraps a platform-provider failure during envelope construction.
type EncryptError struct {
	Op  string
	Err error
}

func (e *EncryptError) Error() string { return fmt.Sprintf("encrypt %s: %v", e.Op, e.Err) }
func (e *EncryptError) Unwrap() error { return e.Err }

// DecryptError wraps a platform-provider failure while opening an envelope:
// bad key, GCM tag mismatch, invalid padding. Never swallowed; callers decide
// whether a fallback path exists.
type DecryptError struct {
	Op  string
	Err error
}

func (e *DecryptError) Error() string { return fmt.Sprintf("decrypt %s: %v", e.Op, e.Err) }
func (e *DecryptError) Unwrap() error { return e.Err }
