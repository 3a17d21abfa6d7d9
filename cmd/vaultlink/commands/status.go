package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// status: report how the stored vault is protected right now.
func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the lock state of the stored vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if st, ok, err := appCtx.Vault.ResumePin(); err != nil {
				return err
			} else if ok {
				fmt.Printf("state: %v (enter the PIN the companion reveals)\n", st.Kind)
				return nil
			}

			st, err := appCtx.Vault.Load()
			if err != nil {
				return err
			}
			settings, err := appCtx.Settings.Load()
			if err != nil {
				return err
			}
			fmt.Printf("state: %v\n", st.Kind)
			fmt.Printf("mode:  %s\n", settings.Mode)
			return nil
		},
	}
}
