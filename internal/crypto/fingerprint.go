package crypto

import (
	"crypto/rsa"
	"crypto/sha256"
	"math/big"
)

// Fingerprint returns the 32-byte identifier of an RSA public key.
//
// The digest input is the modulus then the public exponent, each serialized
// in signed two's-complement form: the unsigned big-endian bytes with a zero
// byte prepended whenever the leading byte has its high bit set. That rule
// exists only to match a reference system's big-integer serialization
// bit-for-bit; it has no cryptographic purpose. The result identifies which
// key an envelope was wrapped for and is never used as key material.
func Fingerprint(pub *rsa.PublicKey) [32]byte {
	h := sha256.New()
	h.Write(signedBytes(pub.N))
	h.Write(signedBytes(big.NewInt(int64(pub.E))))
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// signedBytes serializes a non-negative integer the way a signed
// two's-complement big integer would: minimal big-endian bytes, with a
// leading zero added if the top bit is set, and a single zero byte for zero.
func signedBytes(n *big.Int) []byte {
	b := n.Bytes()
	if len(b) == 0 {
		return []byte{0}
	}
	if b[0]&0x80 != 0 {
		return append([]byte{0}, b...)
	}
	return b
}
