// Package crypto builds and opens hybrid-encryption envelopes on top of the
// platform's cryptography provider.
//
// Contents
//
//   - Immutable transformation tables mapping wire indices to RSA-OAEP hash
//     variants and AES modes (RSAByIndex, AESByIndex, ResolveRSAOrDefault,
//     ResolveAESOrDefault)
//   - Reference-compatible public-key fingerprints (Fingerprint)
//   - Envelope seal/open and key wrap/unwrap (Seal, Open, WrapKey, UnwrapKey)
//   - RSA key generation and DER/PEM codecs (GenerateKeyPair, MarshalPublicKey, ...)
//
// # Notes
//
// Two resolver paths exist on purpose. Construction from local settings may
// fall back to the default transformation on an unknown index; ingestion of
// untrusted wire data never does — an unknown index is a hard
// ErrUnsupportedTransformation, since guessing on decrypt would accept an
// attacker-chosen downgrade.
//
// No cipher primitives are implemented here; RSA-OAEP, AES-CBC/GCM, PBKDF2
// and SHA-256 are delegated to the standard library provider.
package crypto
