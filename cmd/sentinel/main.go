// Sentinel is a policy-enforced command pipeline for environmental
// monitoring agents.
//
// It turns natural language commands into classified intents, evaluates
// them against a declarative security policy, executes only what the
// policy allows, and records every decision in an append-only audit
// ledger.
//
// Usage:
//
//	# Process a single command with the default configuration
//	sentinel run "generate a pollution report for Delhi"
//
//	# Start an interactive session reading commands from stdin
//	sentinel run
//
//	# Inspect the active policy
//	sentinel policy info
//
//	# Validate a policy file without loading it into a pipeline
//	sentinel policy validate --file policy.yaml
//
//	# Query the audit ledger
//	sentinel audit query --status BLOCKED --since 2026-01-01T00:00:00Z
//
//	# Show version information
//	sentinel version
package main

func main() {
	Execute()
}
