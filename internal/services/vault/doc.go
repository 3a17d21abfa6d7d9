// Package vault orchestrates the workspace lock lifecycle over the stores:
// load-on-start classification, the lock action in each protection mode, the
// remote-unlock handshake with its take-once persisted context, the PIN
// quick lock, and the save path with its deliberate plaintext fallback.
package vault
