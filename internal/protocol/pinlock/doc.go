// Package pinlock implements the short-PIN quick lock.
//
// Lock generates a random 6-digit PIN, derives an AES-GCM key from it with
// PBKDF2-SHA256, and encrypts the serialized vault under that key. The PIN
// itself is sealed into an envelope addressed to the companion device's
// public key, so the lock is low-friction locally but still requires the
// companion to reveal the PIN.
//
// Unlock re-derives the key from user input and attempts the decryption; a
// GCM authentication failure means a wrong PIN and is reported as ok=false,
// never as a crash, so the user can retry.
package pinlock
