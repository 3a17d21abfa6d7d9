package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

// KeyBits is the modulus size for generated keypairs, including the
// single-use ephemeral pair of the unlock handshake.
const KeyBits = 2048

// GenerateKeyPair creates a fresh RSA keypair from the platform provider.
func GenerateKeyPair() (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, KeyBits)
}

// MarshalPublicKey serializes a public key as PKIX DER for transport inside
// a key request.
func MarshalPublicKey(pub *rsa.PublicKey) ([]byte, error) {
	return x509.MarshalPKIXPublicKey(pub)
}

// ParsePublicKey reads a PKIX DER public key and rejects non-RSA keys.
func ParsePublicKey(der []byte) (*rsa.PublicKey, error) {
	k, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	pub, ok := k.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not RSA")
	}
	return pub, nil
}

// MarshalPrivateKey serializes a private key as PKCS#1 DER. Used only for
// the short-lived handshake context blob.
func MarshalPrivateKey(priv *rsa.PrivateKey) []byte {
	return x509.MarshalPKCS1PrivateKey(priv)
}

// ParsePrivateKey reads a PKCS#1 DER private key.
func ParsePrivateKey(der []byte) (*rsa.PrivateKey, error) {
	return x509.ParsePKCS1PrivateKey(der)
}

// PEM block types for keys at rest.
const (
	pemPublic  = "PUBLIC KEY"
	pemPrivate = "RSA PRIVATE KEY"
)

// EncodePublicKeyPEM renders a public key in PEM form for the settings file.
func EncodePublicKeyPEM(pub *rsa.PublicKey) (string, error) {
	der, err := MarshalPublicKey(pub)
	if err != nil {
		return "", err
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: pemPublic, Bytes: der})), nil
}

// ParsePublicKeyPEM reads a PEM public key.
func ParsePublicKeyPEM(s string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(s))
	if block == nil || block.Type != pemPublic {
		return nil, errors.New("no PUBLIC KEY block found")
	}
	return ParsePublicKey(block.Bytes)
}

// EncodePrivateKeyPEM renders a private key in PEM form (companion keyfile).
func EncodePrivateKeyPEM(priv *rsa.PrivateKey) string {
	return string(pem.EncodeToMemory(&pem.Block{Type: pemPrivate, Bytes: MarshalPrivateKey(priv)}))
}

// ParsePrivateKeyPEM reads a PEM private key.
func ParsePrivateKeyPEM(s string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(s))
	if block == nil || block.Type != pemPrivate {
		return nil, errors.New("no RSA PRIVATE KEY block found")
	}
	return ParsePrivateKey(block.Bytes)
}
