// Package commands defines the vaultlink CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - init            Generate companion keys and write workspace settings
//   - status          Show the lock state of the stored vault
//   - lock            Apply the configured protection mode
//   - unlock request  Build a key request and render it as QR chunks
//   - unlock accept   Paste back the companion's key response
//   - unlock skip     Back up the encrypted blob and start empty
//   - respond         Play the companion: answer a key request
//   - pin lock        Quick-lock behind a random relayed PIN
//   - pin unlock      Enter the PIN the companion revealed
//   - export          Write the vault as a raw binary file envelope
//   - import          Read a raw binary file envelope back
//
// # Implementation
//
// The root command builds the dependency graph (stores, vault service)
// before any subcommand runs, so handlers share one app context. The CLI
// plays the browser side of the protocol; respond simulates the companion
// device so the whole handshake can be exercised on one machine.
package commands
