package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Deterministic log analysis and triage",
	Long: `Triage classifies raw log batches into structured verdicts: a detected
log domain, a health status, a severity tier, enumerated issues, a root
cause, and actionable remediation steps. Analysis is pattern-based and
fully deterministic; a hosted AI provider can be layered on top, with the
pattern engine as its guaranteed fallback.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
