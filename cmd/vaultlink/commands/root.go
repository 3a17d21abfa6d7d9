package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"vaultlink/internal/app"
	"vaultlink/internal/qrchunk"
)

var (
	home    string
	verbose bool
	noQR    bool
	appCtx  *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:   "vaultlink",
		Short: "Secure envelope and remote-unlock for a local-first password vault",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".vaultlink")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			var err error
			appCtx, err = app.NewWire(app.Config{Home: home})
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "data dir (default ~/.vaultlink)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&noQR, "no-qr", false, "print message text instead of QR symbols")

	root.AddCommand(initCmd(), statusCmd(), lockCmd(), unlockCmd(), respondCmd(), pinCmd(), exportCmd(), importCmd())
	return root.Execute()
}

// termCapabilities is the CLI's answer to the device capability query: a
// terminal prefers text hand-off when QR rendering is switched off.
type termCapabilities struct{}

func (termCapabilities) PrefersHandOff() bool { return noQR }

// readMessage reads an envelope message from a file argument or stdin,
// reassembling QR chunk lines when the input is chunked.
func readMessage(args []string) (string, error) {
	var raw []byte
	var err error
	if len(args) > 0 && args[0] != "-" {
		raw, err = os.ReadFile(args[0])
	} else {
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(raw))
	if !strings.Contains(text, "\t") {
		return text, nil
	}

	var chunks []qrchunk.Chunk
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		c, err := qrchunk.Parse(line)
		if err != nil {
			return "", fmt.Errorf("chunk line: %w", err)
		}
		chunks = append(chunks, c)
	}
	return qrchunk.Join(chunks)
}
