package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"airguard-hq/sentinel/pkg/policy"
)

var policyFlags struct {
	file string
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect and validate security policies",
	Long: `Inspect and validate the security policy that gates command execution.

Subcommands:
  info     - Show the active policy's metadata and allowed actions
  validate - Parse and validate a policy file

Examples:
  # Show the configured policy
  sentinel policy info

  # Validate a policy file before deploying it
  sentinel policy validate --file policy.yaml`,
}

var policyInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the active policy",
	RunE:  showPolicyInfo,
}

var policyValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a policy file",
	Long: `Parse and validate a policy file without loading it into a pipeline.

Exits non-zero when the file cannot be parsed or violates the policy
schema (missing rules, unknown default policy, rules without reasons).`,
	RunE: validatePolicy,
}

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.AddCommand(policyInfoCmd)
	policyCmd.AddCommand(policyValidateCmd)

	policyValidateCmd.Flags().StringVarP(&policyFlags.file, "file", "f", "", "policy file to validate (defaults to the configured policy)")
}

func showPolicyInfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := policy.NewStore(cfg.Policy.Path, slog.Default())
	if err != nil {
		return err
	}
	return printJSON(store.Info())
}

func validatePolicy(cmd *cobra.Command, args []string) error {
	path := policyFlags.file
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.Policy.Path
	}

	store, err := policy.NewStore(path, slog.Default())
	if err != nil {
		return err
	}

	info := store.Info()
	fmt.Printf("✓ %s is valid: %d rules, default policy %q\n", path, info.RuleCount, info.DefaultPolicy)
	return nil
}
