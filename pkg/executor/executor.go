package executor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"airguard-hq/sentinel/pkg/enforce"
	"airguard-hq/sentinel/pkg/intent"
)

// Config contains configuration for the executor.
type Config struct {
	// DataDir holds the pollution data files read by analysis.
	DataDir string

	// OutputDir receives generated report files.
	OutputDir string
}

// Executor performs the environmental monitoring actions. It implements
// enforce.Executor.
type Executor struct {
	dataDir   string
	outputDir string
	logger    *slog.Logger
	now       func() time.Time
}

// New creates an executor rooted at the configured directories.
func New(cfg Config, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default().With("component", "executor")
	}
	return &Executor{
		dataDir:   cfg.DataDir,
		outputDir: cfg.OutputDir,
		logger:    logger,
		now:       time.Now,
	}
}

// Execute dispatches on the intent action. Unknown or unimplemented
// actions produce a failed outcome, not an error: the command was
// well-formed and authorized, there is just nothing to run.
func (e *Executor) Execute(ctx context.Context, req *enforce.Request) (*enforce.Outcome, error) {
	if req == nil || req.Intent == nil {
		return nil, fmt.Errorf("executor: nil request")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := e.now()
	var (
		outcome *enforce.Outcome
		err     error
	)

	switch req.Intent.Action {
	case intent.ActionGenerateReport:
		outcome, err = e.generateReport(req)
	case intent.ActionAnalyzeAQI:
		outcome, err = e.analyzeAQI(req)
	case intent.ActionSendAlert:
		outcome, err = e.sendAlert(req)
	default:
		outcome = failedOutcome(fmt.Sprintf("no implementation for action %q", req.Intent.Action), nil)
	}
	if err != nil {
		return nil, err
	}

	outcome.Duration = e.now().Sub(start)
	return outcome, nil
}

func failedOutcome(message string, data map[string]any) *enforce.Outcome {
	return &enforce.Outcome{
		Success: false,
		Message: message,
		Data:    data,
	}
}
