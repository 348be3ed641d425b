package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Sentinel - policy-enforced environmental command pipeline",
	Long: `Sentinel is a policy-enforced command pipeline for environmental
monitoring agents.

Commands flow through four stages:
  - Intent classification of the natural language command
  - Policy evaluation against a declarative YAML/JSON policy
  - Enforcement: only explicitly allowed actions execute
  - Audit: one append-only ledger record per command

Unrecognized and destructive commands are denied by default.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults used when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
