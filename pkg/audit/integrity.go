package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ScanReport summarizes one integrity sweep of the ledger.
type ScanReport struct {
	// Records is the number of well-formed records found.
	Records int

	// Corrupt is the number of lines that failed to parse.
	Corrupt int

	// ScannedAt is when the sweep ran.
	ScannedAt time.Time
}

// Scanner sweeps the full ledger and reports how many records parse and how
// many lines are corrupt. It never repairs or removes anything; the ledger
// is write-once.
type Scanner struct {
	log    *Log
	logger *slog.Logger
}

// NewScanner creates a scanner over the given log.
func NewScanner(log *Log, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default().With("component", "audit.scanner")
	}
	return &Scanner{log: log, logger: logger}
}

// Scan reads the whole ledger and returns the report.
func (s *Scanner) Scan() ScanReport {
	records, corrupt := s.log.scan(Query{})

	report := ScanReport{
		Records:   len(records),
		Corrupt:   corrupt,
		ScannedAt: time.Now(),
	}

	if report.Corrupt > 0 {
		s.logger.Warn("audit ledger integrity scan found corrupt lines",
			"records", report.Records,
			"corrupt", report.Corrupt,
		)
	} else {
		s.logger.Debug("audit ledger integrity scan clean",
			"records", report.Records,
		)
	}

	return report
}

// Scheduler runs integrity scans on a cron schedule, e.g. "0 3 * * *" for
// daily at 3 AM.
type Scheduler struct {
	scanner  *Scanner
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	running bool

	// onReport, when set, receives each scan report (used to feed metrics).
	onReport func(ScanReport)
}

// NewScheduler creates a scheduler for the scanner. An empty schedule
// disables it.
func NewScheduler(scanner *Scanner, schedule string, onReport func(ScanReport)) *Scheduler {
	return &Scheduler{
		scanner:  scanner,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "audit.scheduler"),
		onReport: onReport,
	}
}

// Start begins scheduled scanning. It validates the cron expression first
// and does nothing when no schedule is configured.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("integrity scan schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runScan); err != nil {
		return fmt.Errorf("failed to schedule integrity scan: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("audit integrity scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runScan executes one scheduled sweep.
func (s *Scheduler) runScan() {
	report := s.scanner.Scan()
	if s.onReport != nil {
		s.onReport(report)
	}
}

// Stop stops the scheduler and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("audit integrity scheduler stopped")
	}
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
