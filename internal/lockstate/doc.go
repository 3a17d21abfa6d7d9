// Package lockstate models the workspace lock as an explicit state machine.
//
// Exactly one state is active at a time:
//
//	Loading   — storage has not been classified yet
//	Encrypted — the stored blob is a textual envelope awaiting the handshake
//	PinLocked — the vault is behind a quick-lock PIN
//	Ready     — the plaintext vault is in memory
//
// Transitions are pure functions from a state and an event to a new state;
// storage, logging and the actual cryptography live with the callers. The
// PinLocked state is only ever entered by invoking the quick lock from
// Ready, never directly from storage.
package lockstate
