package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
)

// init: generate a companion keypair and write workspace settings. The
// private half would normally live only on the companion device; writing it
// to a local keyfile lets one machine play both sides.
func initCmd() *cobra.Command {
	var (
		mode    string
		keyFile string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate companion keys and write workspace settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch domain.ProtectionMode(mode) {
			case domain.ProtectionNone, domain.ProtectionEncrypt, domain.ProtectionPin:
			default:
				return fmt.Errorf("unknown protection mode %q", mode)
			}

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			sp.Suffix = " generating companion keypair..."
			sp.Start()
			priv, err := crypto.GenerateKeyPair()
			sp.Stop()
			if err != nil {
				return err
			}

			pubPEM, err := crypto.EncodePublicKeyPEM(&priv.PublicKey)
			if err != nil {
				return err
			}
			if keyFile == "" {
				keyFile = filepath.Join(home, "companion.pem")
			}
			if err := os.WriteFile(keyFile, []byte(crypto.EncodePrivateKeyPEM(priv)), 0o600); err != nil {
				return err
			}

			settings := domain.Settings{
				Mode:               domain.ProtectionMode(mode),
				CompanionPublicKey: pubPEM,
			}.Normalize()
			if err := appCtx.Settings.Save(settings); err != nil {
				return err
			}

			fp := crypto.Fingerprint(&priv.PublicKey)
			color.Green("✓ workspace initialised (mode=%s)", settings.Mode)
			fmt.Printf("companion key fingerprint: %x\n", fp[:8])
			fmt.Printf("companion private key:     %s\n", keyFile)
			color.Yellow("keep the private key on the companion device only in real deployments")
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(domain.ProtectionEncrypt), "protection mode: none, encrypt or pin")
	cmd.Flags().StringVar(&keyFile, "key-file", "", "where to write the companion private key (default <home>/companion.pem)")
	return cmd
}
