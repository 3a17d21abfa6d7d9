package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"vaultlink/internal/crypto"
	"vaultlink/internal/protocol/handshake"
)

// respond: play the companion device. Reads a key request, re-wraps the
// symmetric key for the request's ephemeral public key, prints the response.
// The long-term private key never leaves this command.
func respondCmd() *cobra.Command {
	var keyFile string
	cmd := &cobra.Command{
		Use:   "respond [request-file|-]",
		Short: "Answer a key request with the companion private key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if keyFile == "" {
				keyFile = filepath.Join(home, "companion.pem")
			}
			pemData, err := os.ReadFile(keyFile)
			if err != nil {
				return fmt.Errorf("companion key: %w", err)
			}
			priv, err := crypto.ParsePrivateKeyPEM(string(pemData))
			if err != nil {
				return err
			}

			request, err := readMessage(args)
			if err != nil {
				return err
			}
			response, err := handshake.Respond(request, priv)
			if err != nil {
				return err
			}
			fmt.Println(response)
			return nil
		},
	}
	cmd.Flags().StringVar(&keyFile, "key-file", "", "companion private key PEM (default <home>/companion.pem)")
	return cmd
}
