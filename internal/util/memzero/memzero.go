// Package memzero provides best-effort wiping of sensitive byte slices.
package memzero

import "crypto/subtle"

// Zero overwrites b with zeros without giving the compiler room to elide the
// writes. One-time AES keys and ephemeral private key material go through
// here as soon as their envelope operation completes.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
}
