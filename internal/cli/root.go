// Package cli implements the Stride command-line interface using Cobra.
// Each subcommand maps to a coach operation (checkin, status, history, etc.).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stride",
	Short: "Stride — daily habit coach",
	Long: `Stride is a local-first habit coach.
Grade your day, keep your streak alive, and level up one habit at a time.
All data stays in a SQLite file under ~/.stride.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
