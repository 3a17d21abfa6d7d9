package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vaultlink/internal/domain"
	"vaultlink/internal/lockstate"
)

// lock: apply the configured protection mode to the stored vault.
func lockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Apply the configured protection mode to the stored vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := appCtx.Vault.Load()
			if err != nil {
				return err
			}
			if st.Kind != lockstate.Ready {
				return fmt.Errorf("vault is %v; nothing to lock", st.Kind)
			}
			settings, err := appCtx.Settings.Load()
			if err != nil {
				return err
			}
			if settings.Mode == domain.ProtectionNone {
				fmt.Println("protection mode is none; vault left as plain data")
				return nil
			}

			next, relay, err := appCtx.Vault.Lock(st, settings)
			if err != nil {
				return err
			}
			color.Green("✓ vault locked (%v)", next.Kind)
			if relay != "" {
				fmt.Println("relay this to the companion device to reveal the PIN:")
				return displayMessage(relay, settings.ChunkSize)
			}
			return nil
		},
	}
}
