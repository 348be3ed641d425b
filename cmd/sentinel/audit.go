package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"airguard-hq/sentinel/pkg/audit"
)

var auditFlags struct {
	status string
	since  string
	until  string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the audit ledger",
	Long: `Inspect the append-only audit ledger.

Subcommands:
  query - Print ledger records matching the given filters
  scan  - Run an integrity scan over the ledger

Examples:
  # All blocked commands
  sentinel audit query --status BLOCKED

  # Everything since the start of the year
  sentinel audit query --since 2026-01-01T00:00:00Z

  # Count well-formed and corrupt ledger lines
  sentinel audit scan`,
}

var auditQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query ledger records",
	RunE:  queryAudit,
}

var auditScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a ledger integrity scan",
	RunE:  scanAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditQueryCmd)
	auditCmd.AddCommand(auditScanCmd)

	auditQueryCmd.Flags().StringVar(&auditFlags.status, "status", "", "filter by status (SUCCESS, BLOCKED, ERROR)")
	auditQueryCmd.Flags().StringVar(&auditFlags.since, "since", "", "only records at or after this RFC 3339 time")
	auditQueryCmd.Flags().StringVar(&auditFlags.until, "until", "", "only records before this RFC 3339 time")
}

// openLedger opens the configured audit log for reading.
func openLedger() (*audit.Log, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return audit.NewLog(cfg.Audit.Dir, slog.Default())
}

func queryAudit(cmd *cobra.Command, args []string) error {
	q := audit.Query{}

	if auditFlags.status != "" {
		status := audit.Status(auditFlags.status)
		if !status.Valid() {
			return fmt.Errorf("unknown status %q (want SUCCESS, BLOCKED, or ERROR)", auditFlags.status)
		}
		q.Status = status
	}
	if auditFlags.since != "" {
		t, err := time.Parse(time.RFC3339, auditFlags.since)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		q.Start = &t
	}
	if auditFlags.until != "" {
		t, err := time.Parse(time.RFC3339, auditFlags.until)
		if err != nil {
			return fmt.Errorf("invalid --until value: %w", err)
		}
		q.End = &t
	}

	log, err := openLedger()
	if err != nil {
		return err
	}
	defer log.Close()

	records := log.Query(q)
	for _, record := range records {
		if err := printJSON(record); err != nil {
			return err
		}
	}
	fmt.Printf("%d record(s)\n", len(records))
	return nil
}

func scanAudit(cmd *cobra.Command, args []string) error {
	log, err := openLedger()
	if err != nil {
		return err
	}
	defer log.Close()

	report := audit.NewScanner(log, slog.Default()).Scan()
	return printJSON(report)
}
