package main

import (
	"os"

	"vaultlink/cmd/vaultlink/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
