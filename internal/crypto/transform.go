package crypto

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"vaultlink/internal/domain"
)

// Default transformation indices used when constructing new envelopes from
// incomplete settings.
const (
	DefaultRSAIndex = 1 // OAEP-SHA256
	DefaultAESIndex = 1 // GCM
)

// AES cipher modes.
const (
	ModeCBC = "CBC" // PKCS#7 padding, 16-byte IV
	ModeGCM = "GCM" // 12-byte nonce, tag carried inline by the provider
)

// RSATransformation describes one RSA-OAEP hash variant.
type RSATransformation struct {
	Index   int
	Name    string
	NewHash func() hash.Hash
}

// AESTransformation describes one symmetric mode and its IV length.
type AESTransformation struct {
	Index  int
	Name   string
	Mode   string
	IVSize int
}

// The tables are initialized once and never mutated.
var rsaTransformations = map[int]RSATransformation{
	0: {Index: 0, Name: "RSA-OAEP-SHA1", NewHash: sha1.New},
	1: {Index: 1, Name: "RSA-OAEP-SHA256", NewHash: sha256.New},
	2: {Index: 2, Name: "RSA-OAEP-SHA512", NewHash: sha512.New},
}

var aesTransformations = map[int]AESTransformation{
	0: {Index: 0, Name: "AES-CBC-PKCS7", Mode: ModeCBC, IVSize: 16},
	1: {Index: 1, Name: "AES-GCM", Mode: ModeGCM, IVSize: 12},
}

// RSAByIndex resolves an RSA transformation read off the wire. Unknown
// indices fail; ingestion never defaults.
func RSAByIndex(idx int) (RSATransformation, error) {
	t, ok := rsaTransformations[idx]
	if !ok {
		return RSATransformation{}, fmt.Errorf("rsa index %d: %w", idx, domain.ErrUnsupportedTransformation)
	}
	return t, nil
}

// AESByIndex resolves an AES transformation read off the wire.
func AESByIndex(idx int) (AESTransformation, error) {
	t, ok := aesTransformations[idx]
	if !ok {
		return AESTransformation{}, fmt.Errorf("aes index %d: %w", idx, domain.ErrUnsupportedTransformation)
	}
	return t, nil
}

// ResolveRSAOrDefault resolves an index taken from local settings, falling
// back to the default variant. Only envelope construction may use it.
func ResolveRSAOrDefault(idx int) RSATransformation {
	if t, ok := rsaTransformations[idx]; ok {
		return t
	}
	return rsaTransformations[DefaultRSAIndex]
}

// ResolveAESOrDefault is the construction-side AES resolver.
func ResolveAESOrDefault(idx int) AESTransformation {
	if t, ok := aesTransformations[idx]; ok {
		return t
	}
	return aesTransformations[DefaultAESIndex]
}
