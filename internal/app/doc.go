// Package app wires stores and services into the dependency graph the CLI
// runs against.
package app
