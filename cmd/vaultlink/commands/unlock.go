package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"vaultlink/internal/lockstate"
	"vaultlink/internal/qrchunk"
)

func unlockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unlock",
		Short: "Remote-unlock the vault via the companion device",
	}
	cmd.AddCommand(unlockRequestCmd(), unlockAcceptCmd(), unlockSkipCmd())
	return cmd
}

// unlock request: build a key request against the encrypted vault and render
// it for the companion.
func unlockRequestCmd() *cobra.Command {
	var (
		reference string
		pngPath   string
	)
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Build a key request and render it for the companion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := appCtx.Vault.Load()
			if err != nil {
				return err
			}
			if st.Kind != lockstate.Encrypted {
				return fmt.Errorf("vault is %v; nothing to unlock", st.Kind)
			}
			settings, err := appCtx.Settings.Load()
			if err != nil {
				return err
			}
			if reference == "" {
				reference = uuid.NewString()
			}

			ctx, err := appCtx.Vault.BeginUnlock(st, reference, settings)
			if err != nil {
				return err
			}

			if pngPath != "" {
				chunks, err := qrchunk.Split(ctx.RequestText, settings.ChunkSize)
				if err != nil {
					return err
				}
				for _, c := range chunks {
					png, err := qrchunk.RenderPNG(c, 512)
					if err != nil {
						return err
					}
					name := pngPath
					if len(chunks) > 1 {
						name = fmt.Sprintf("%s.%d", pngPath, c.ChunkNo)
					}
					if err := os.WriteFile(name, png, 0o600); err != nil {
						return err
					}
					fmt.Printf("wrote %s\n", name)
				}
				return nil
			}
			fmt.Printf("reference: %s\n", reference)
			return displayMessage(ctx.RequestText, settings.ChunkSize)
		},
	}
	cmd.Flags().StringVar(&reference, "reference", "", "tag echoed in the request (default a random UUID)")
	cmd.Flags().StringVar(&pngPath, "png", "", "write QR symbols as PNG files instead of printing")
	return cmd
}

// unlock accept: paste back the companion's key response.
func unlockAcceptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accept [file|-]",
		Short: "Consume the companion's key response and decrypt the vault",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			response, err := readMessage(args)
			if err != nil {
				return err
			}
			st, err := appCtx.Vault.CompleteUnlock(response)
			if err != nil {
				return err
			}
			color.Green("✓ vault unlocked: %d entries", len(st.Vault.Entries))
			return nil
		},
	}
}

// unlock skip: give up on the handshake, back up the blob, start empty.
func unlockSkipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skip",
		Short: "Back up the encrypted blob and start with an empty vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := appCtx.Vault.Load()
			if err != nil {
				return err
			}
			if _, err := appCtx.Vault.SkipUnlock(st); err != nil {
				return err
			}
			color.Yellow("encrypted blob backed up; starting with an empty vault")
			return nil
		},
	}
}
