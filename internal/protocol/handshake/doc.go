// Package handshake implements the key-request / key-response remote-unlock
// protocol.
//
// # Overview
//
// The vault is sealed for the companion device's long-term public key, which
// this side never holds. To unlock, we generate a single-use RSA keypair and
// send the companion a key request carrying the ephemeral public key together
// with the vault envelope's wrapped AES key. The companion unwraps the AES
// key with the real private key, immediately re-wraps it for the ephemeral
// public key, and hands back a key response. Neither the private key nor the
// AES key in the clear ever leaves the companion's trust boundary, and the
// ephemeral private key is worthless after one use.
//
// # Flow
//
//	Idle → RequestBuilding → AwaitingResponse → Decrypting → Unlocked
//	                                                        ↘ Failed
//
// NewRequest parses the target envelope, generates the keypair and produces
// the request text for QR display or hand-off. Accept consumes the pasted
// response: it enforces the response application id, unwraps with the
// ephemeral private key, decrypts the target payload and validates it parses
// as a vault document. The ephemeral key is discarded on both outcomes.
//
// A context can be marshalled to survive one page reload while the response
// is pending; the store holding it deletes it on first read, so a response
// can never be replayed against a stale ephemeral key.
package handshake
