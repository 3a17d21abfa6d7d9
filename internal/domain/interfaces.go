package domain

// VaultStore is the durable key-value home of the vault blob. There is one
// logical writer (the lock state machine) and one logical reader
// (load-on-start); last write wins.
type VaultStore interface {
	Get(key string) (data []byte, ok bool, err error)
	Put(key string, data []byte) error
	Delete(key string) error
}

// Well-known VaultStore keys.
const (
	VaultKey       = "vault"
	VaultBackupKey = "vault.backup"
)

// ContextStore holds at most one in-flight KeyRequestContext. Take returns
// the stored context and unconditionally deletes it, so a stale ephemeral key
// can never be replayed against a second response.
type ContextStore interface {
	Put(ctx KeyRequestContext) error
	Take() (ctx KeyRequestContext, ok bool, err error)
	Drop() error
}

// SettingsStore persists workspace protection settings.
type SettingsStore interface {
	Load() (Settings, error)
	Save(Settings) error
}
