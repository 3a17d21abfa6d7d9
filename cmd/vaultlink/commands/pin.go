package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vaultlink/internal/domain"
	"vaultlink/internal/lockstate"
)

func pinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin",
		Short: "Quick-lock the vault behind a relayed PIN",
	}
	cmd.AddCommand(pinLockCmd(), pinUnlockCmd())
	return cmd
}

// pin lock: quick-lock regardless of the configured mode.
func pinLockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Lock the vault behind a fresh random PIN",
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
			settings.Mode = domain.ProtectionPin

			_, relay, err := appCtx.Vault.Lock(st, settings)
			if err != nil {
				return err
			}
			color.Green("✓ vault quick-locked")
			fmt.Println("relay this to the companion device to reveal the PIN:")
			return displayMessage(relay, settings.ChunkSize)
		},
	}
}

// pin unlock <pin>: enter the PIN the companion revealed.
func pinUnlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock <pin>",
		Short: "Unlock with the PIN the companion revealed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, ok, err := appCtx.Vault.ResumePin()
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("vault is not quick-locked")
			}
			next, err := appCtx.Vault.PinUnlock(st, args[0])
			if errors.Is(err, domain.ErrPinMismatch) {
				color.Red("incorrect PIN; try again")
				return err
			}
			if err != nil {
				return err
			}
			color.Green("✓ vault unlocked: %d entries", len(next.Vault.Entries))
			return nil
		},
	}
}
