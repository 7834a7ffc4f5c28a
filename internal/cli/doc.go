// Package cli wires the sportcast command line interface.
//
// The root command runs one full pipeline pass. The cache subcommands expose
// the store's maintenance operations for inspection and manual cleanup.
package cli
