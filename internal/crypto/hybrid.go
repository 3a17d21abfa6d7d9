package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"fmt"

	"vaultlink/internal/domain"
	"vaultlink/internal/envelope"
	"vaultlink/internal/util/memzero"
)

// Seal builds a fresh envelope for recipient pub: a new random AES key and
// IV every time, the key RSA-wrapped with the configured OAEP variant, the
// payload encrypted under the configured symmetric mode. appID selects the
// envelope kind and thereby the payload framing.
func Seal(payload []byte, appID int, pub *rsa.PublicKey, settings domain.Settings) (envelope.Envelope, error) {
	rsaT := ResolveRSAOrDefault(settings.RSATransformation)
	aesT := ResolveAESOrDefault(settings.AESTransformation)

	key, err := randomBytes(settings.Normalize().AESKeyBytes)
	if err != nil {
		return envelope.Envelope{}, &domain.EncryptError{Op: "aes key", Err: err}
	}
	defer memzero.Zero(key)
	iv, err := randomBytes(aesT.IVSize)
	if err != nil {
		return envelope.Envelope{}, &domain.EncryptError{Op: "iv", Err: err}
	}

	wrapped, err := WrapKey(key, pub, rsaT)
	if err != nil {
		return envelope.Envelope{}, err
	}
	ct, err := symEncrypt(aesT, key, iv, payload)
	if err != nil {
		return envelope.Envelope{}, err
	}

	fp := Fingerprint(pub)
	return envelope.Envelope{
		ApplicationID: appID,
		RSAIndex:      rsaT.Index,
		Fingerprint:   fp[:],
		AESIndex:      aesT.Index,
		IV:            iv,
		EncryptedKey:  wrapped,
		EncryptedData: ct,
	}, nil
}

// Open unwraps the envelope's AES key with priv and decrypts the payload.
// The transformation indices come from the envelope itself and are resolved
// strictly; an unknown index fails rather than guessing.
func Open(e envelope.Envelope, priv *rsa.PrivateKey) ([]byte, error) {
	key, err := UnwrapKey(e.EncryptedKey, priv, e.RSAIndex)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)
	return DecryptWithKey(e, key)
}

// DecryptWithKey decrypts an envelope's payload with an already-unwrapped
// AES key. The handshake uses this once the companion has relayed the key.
func DecryptWithKey(e envelope.Envelope, key []byte) ([]byte, error) {
	aesT, err := AESByIndex(e.AESIndex)
	if err != nil {
		return nil, err
	}
	return symDecrypt(aesT, key, e.IV, e.EncryptedData)
}

// WrapKey encrypts a symmetric key with RSA-OAEP for pub.
func WrapKey(key []byte, pub *rsa.PublicKey, t RSATransformation) ([]byte, error) {
	out, err := rsa.EncryptOAEP(t.NewHash(), rand.Reader, pub, key, nil)
	if err != nil {
		return nil, &domain.EncryptError{Op: "wrap key", Err: err}
	}
	return out, nil
}

// UnwrapKey decrypts an RSA-wrapped symmetric key. rsaIdx comes from
// untrusted wire data, so it resolves strictly.
func UnwrapKey(wrapped []byte, priv *rsa.PrivateKey, rsaIdx int) ([]byte, error) {
	t, err := RSAByIndex(rsaIdx)
	if err != nil {
		return nil, err
	}
	key, err := rsa.DecryptOAEP(t.NewHash(), nil, priv, wrapped, nil)
	if err != nil {
		return nil, &domain.DecryptError{Op: "unwrap key", Err: err}
	}
	return key, nil
}

func symEncrypt(t AESTransformation, key, iv, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, &domain.EncryptError{Op: "aes cipher", Err: err}
	}
	switch t.Mode {
	case ModeCBC:
		padded := pkcs7Pad(plaintext)
		ct := make([]byte, len(padded))
		cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)
		return ct, nil
	case ModeGCM:
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, &domain.EncryptError{Op: "gcm", Err: err}
		}
		return aead.Seal(nil, iv, plaintext, nil), nil
	}
	return nil, &domain.EncryptError{Op: t.Mode, Err: fmt.Errorf("unhandled mode")}
}

func symDecrypt(t AESTransformation, key, iv, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, &domain.DecryptError{Op: "aes cipher", Err: err}
	}
	switch t.Mode {
	case ModeCBC:
		if len(iv) != block.BlockSize() {
			return nil, &domain.DecryptError{Op: "cbc", Err: fmt.Errorf("iv length %d", len(iv))}
		}
		if len(ciphertext) == 0 || len(ciphertext)%block.BlockSize() != 0 {
			return nil, &domain.DecryptError{Op: "cbc", Err: fmt.Errorf("ciphertext length %d", len(ciphertext))}
		}
		padded := make([]byte, len(ciphertext))
		cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)
		pt, err := pkcs7Unpad(padded)
		if err != nil {
			return nil, &domain.DecryptError{Op: "pkcs7", Err: err}
		}
		return pt, nil
	case ModeGCM:
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, &domain.DecryptError{Op: "gcm", Err: err}
		}
		pt, err := aead.Open(nil, iv, ciphertext, nil)
		if err != nil {
			return nil, &domain.DecryptError{Op: "gcm open", Err: err}
		}
		return pt, nil
	}
	return nil, &domain.DecryptError{Op: t.Mode, Err: fmt.Errorf("unhandled mode")}
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
