// Package store provides file-based persistence for vaultlink's small set of
// durable data.
//
// It contains the concrete implementations of the domain storage interfaces:
//   - the vault blob key-value store (FileVaultStore)
//   - the take-once handshake context slot (FileContextStore)
//   - workspace settings as TOML (FileSettingsStore)
//
// All stores are concurrency-safe via internal locking and write files with
// 0600 permissions under the configured home directory.
package store
