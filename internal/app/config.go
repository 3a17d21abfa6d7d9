package app

// Config holds runtime wiring options for building the app.
type Config struct {
	Home string // data directory, e.g. $HOME/.vaultlink
}
