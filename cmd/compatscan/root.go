// Package main provides the entry point for the compatscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for compatscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compatscan",
		Short: "Cross-browser and cross-device compatibility analyzer",
		Long: `compatscan analyzes a web page for cross-browser and cross-device
compatibility. It fetches the page under simulated client identities,
cross-references a feature-support table, builds a browser×device
compatibility matrix, and optionally verifies results with real headless
browser sessions.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
