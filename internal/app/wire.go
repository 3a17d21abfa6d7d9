package app

import (
	"vaultlink/internal/domain"
	vaultsvc "vaultlink/internal/services/vault"
	"vaultlink/internal/store"
)

// Wire bundles the stores and services for the CLI.
type Wire struct {
	Vaults   domain.VaultStore
	Contexts domain.ContextStore
	Settings domain.SettingsStore
	Vault    *vaultsvc.Service
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	vaults := store.NewFileVaultStore(cfg.Home)
	contexts := store.NewFileContextStore(cfg.Home)
	settings := store.NewFileSettingsStore(cfg.Home)

	return &Wire{
		Vaults:   vaults,
		Contexts: contexts,
		Settings: settings,
		Vault:    vaultsvc.New(vaults, contexts, settings),
	}, nil
}
