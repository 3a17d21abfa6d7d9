package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
	"vaultlink/internal/envelope"
	"vaultlink/internal/lockstate"
)

// export: seal the vault as a binary file envelope. This is the raw framing
// path: no text prefix, no base64, payload runs to the end of the file.
func exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the vault as an encrypted binary file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := appCtx.Vault.Load()
			if err != nil {
				return err
			}
			if st.Kind != lockstate.Ready {
				return fmt.Errorf("vault is %v; unlock before exporting", st.Kind)
			}
			settings, err := appCtx.Settings.Load()
			if err != nil {
				return err
			}
			if settings.CompanionPublicKey == "" {
				return fmt.Errorf("no companion public key configured; run init first")
			}
			pub, err := crypto.ParsePublicKeyPEM(settings.CompanionPublicKey)
			if err != nil {
				return err
			}

			raw, err := st.Vault.Marshal()
			if err != nil {
				return err
			}
			env, err := crypto.Seal(raw, envelope.AppEncryptedFile, pub, settings)
			if err != nil {
				return err
			}
			body, err := envelope.Encode(env)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, body, 0o600); err != nil {
				return err
			}
			color.Green("✓ exported %d entries to %s", len(st.Vault.Entries), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "vault.vlk", "output file")
	return cmd
}

// import: read a binary file envelope back. Only the companion can open it,
// so this side re-enters the handshake: the imported blob replaces the
// stored vault in its encrypted text form.
func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import an encrypted binary vault file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			env, err := envelope.Decode(body)
			if err != nil {
				return err
			}
			if env.ApplicationID != envelope.AppEncryptedFile {
				return fmt.Errorf("file carries application id %d, not an encrypted vault", env.ApplicationID)
			}

			if err := appCtx.Vaults.Put(domain.VaultKey, []byte(envelope.EncodeText(body))); err != nil {
				return err
			}
			color.Green("✓ imported; run unlock request to decrypt via the companion")
			return nil
		},
	}
}
