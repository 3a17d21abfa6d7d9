package pinlock

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"math/big"

	"golang.org/x/crypto/pbkdf2"

	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
	"vaultlink/internal/envelope"
	"vaultlink/internal/util/memzero"
)

const (
	pinDigits = 6
	saltSize  = 16
	ivSize    = 12 // GCM nonce
	keySize   = 32
)

// Locked is the quick-locked vault: PBKDF2 parameters, the GCM ciphertext,
// and the relay envelope carrying the sealed PIN for the companion.
type Locked struct {
	Salt       []byte `cbor:"1,keyasint"`
	IV         []byte `cbor:"2,keyasint"`
	Ciphertext []byte `cbor:"3,keyasint"`
	Iterations int    `cbor:"4,keyasint"`

	// RelayMessage is the textual envelope (applicationId EncryptedOTP)
	// sealing the PIN text for the companion's public key.
	RelayMessage string `cbor:"5,keyasint"`
}

// Lock quick-locks vaultPlaintext behind a fresh random PIN. The PIN never
// leaves this function in the clear; only the companion, holding the private
// half of recipient, can reveal it.
func Lock(vaultPlaintext []byte, recipient *rsa.PublicKey, settings domain.Settings) (Locked, error) {
	settings = settings.Normalize()

	pin, err := randomPIN()
	if err != nil {
		return Locked{}, &domain.EncryptError{Op: "pin", Err: err}
	}
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return Locked{}, &domain.EncryptError{Op: "salt", Err: err}
	}
	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return Locked{}, &domain.EncryptError{Op: "iv", Err: err}
	}

	key := deriveKey(pin, salt, settings.PBKDF2Iterations)
	defer memzero.Zero(key)

	aead, err := newGCM(key)
	if err != nil {
		return Locked{}, &domain.EncryptError{Op: "gcm", Err: err}
	}
	ct := aead.Seal(nil, iv, vaultPlaintext, nil)

	// Seal the PIN itself for the companion.
	env, err := crypto.Seal([]byte(pin), envelope.AppEncryptedOTP, recipient, settings)
	if err != nil {
		return Locked{}, err
	}
	body, err := envelope.Encode(env)
	if err != nil {
		return Locked{}, err
	}

	return Locked{
		Salt:         salt,
		IV:           iv,
		Ciphertext:   ct,
		Iterations:   settings.PBKDF2Iterations,
		RelayMessage: envelope.EncodeText(body),
	}, nil
}

// Unlock re-derives the key from input and attempts the decryption. A wrong
// PIN surfaces as ok=false; the caller may retry.
func Unlock(input string, l Locked) (plaintext []byte, ok bool) {
	key := deriveKey(input, l.Salt, l.Iterations)
	defer memzero.Zero(key)

	aead, err := newGCM(key)
	if err != nil {
		return nil, false
	}
	pt, err := aead.Open(nil, l.IV, l.Ciphertext, nil)
	if err != nil {
		return nil, false
	}
	return pt, true
}

func deriveKey(pin string, salt []byte, iterations int) []byte {
	if iterations < domain.DefaultPBKDF2Iterations {
		iterations = domain.DefaultPBKDF2Iterations
	}
	return pbkdf2.Key([]byte(pin), salt, iterations, keySize, sha256.New)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// randomPIN returns a uniform 6-digit decimal PIN, leading zeros included.
func randomPIN() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < pinDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", pinDigits, n), nil
}
