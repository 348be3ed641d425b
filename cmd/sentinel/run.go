package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"airguard-hq/sentinel/pkg/agent"
	"airguard-hq/sentinel/pkg/audit"
	"airguard-hq/sentinel/pkg/config"
	"airguard-hq/sentinel/pkg/enforce"
	"airguard-hq/sentinel/pkg/executor"
	"airguard-hq/sentinel/pkg/intent"
	"airguard-hq/sentinel/pkg/policy"
	"airguard-hq/sentinel/pkg/telemetry/logging"
	"airguard-hq/sentinel/pkg/telemetry/metrics"
)

var runFlags struct {
	logLevel string
	watch    bool
}

var runCmd = &cobra.Command{
	Use:   "run [command text]",
	Short: "Process commands through the enforcement pipeline",
	Long: `Process natural language commands through the enforcement pipeline.

With arguments, the arguments are joined into one command, processed, and
the response is printed as JSON. Without arguments, commands are read line
by line from stdin until EOF.

Examples:
  # Process a single command
  sentinel run "generate a pollution report for Delhi"

  # Interactive session
  sentinel run

  # Hot-reload the policy file on change
  sentinel run --watch`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.watch, "watch", false, "watch the policy file and hot-reload on change")
}

// loadConfig returns the effective configuration: the config file when
// --config was given, defaults otherwise.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(cfgFile)
}

// setupLogging builds the process logger from config plus flag overrides
// and installs it as the slog default.
func setupLogging(cfg *config.Config) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if runFlags.logLevel != "" {
		level = runFlags.logLevel
	}
	if verbose {
		level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:     level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
		Writer:    os.Stderr,
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := setupLogging(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Policy store and optional hot-reload watcher.
	store, err := policy.NewStore(cfg.Policy.Path, logger.With("component", "policy.store"))
	if err != nil {
		return fmt.Errorf("failed to load policy: %w", err)
	}
	if runFlags.watch || cfg.Policy.Watch {
		debounce := time.Duration(cfg.Policy.DebounceMS) * time.Millisecond
		watcher, err := policy.NewWatcher(store, debounce, logger.With("component", "policy.watcher"))
		if err != nil {
			return fmt.Errorf("failed to create policy watcher: %w", err)
		}
		if err := watcher.Start(); err != nil {
			return fmt.Errorf("failed to start policy watcher: %w", err)
		}
		defer watcher.Stop()
	}

	// Audit ledger, optional SQLite index, optional integrity scans.
	log, err := audit.NewLog(cfg.Audit.Dir, logger.With("component", "audit.log"))
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer log.Close()

	if cfg.Audit.Index.Enabled {
		index, err := audit.NewIndex(&audit.IndexConfig{
			Path:        cfg.Audit.Index.Path,
			BusyTimeout: 5 * time.Second,
			WALMode:     true,
		}, logger.With("component", "audit.index"))
		if err != nil {
			return fmt.Errorf("failed to open audit index: %w", err)
		}
		defer index.Close()
		log.AttachIndex(index)
	}

	// Metrics collector and listener.
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(metrics.Config{
			Enabled:   true,
			Namespace: cfg.Metrics.Namespace,
		}, nil)

		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		server := &http.Server{Addr: cfg.Metrics.Listen, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics listener failed", "error", err)
			}
		}()
		defer server.Close()
		logger.Info("metrics listening", "addr", cfg.Metrics.Listen)
	}

	if cfg.Audit.IntegritySchedule != "" {
		scanner := audit.NewScanner(log, logger.With("component", "audit.scanner"))
		scheduler := audit.NewScheduler(scanner, cfg.Audit.IntegritySchedule, func(report audit.ScanReport) {
			collector.RecordIntegrityScan(report.Records, report.Corrupt)
		})
		if err := scheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start integrity scheduler: %w", err)
		}
		defer scheduler.Stop()
	}

	// Executor and gate.
	exec := executor.New(executor.Config{
		DataDir:   cfg.Executor.DataDir,
		OutputDir: cfg.Executor.OutputDir,
	}, logger.With("component", "executor"))

	gate, err := enforce.NewGate(store, log, exec, logger.With("component", "enforce.gate"))
	if err != nil {
		return err
	}

	classifier := intent.NewClassifier(logger.With("component", "intent.classifier"))

	a, err := agent.New(classifier, store, gate, log, collector, logger.With("component", "agent"))
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) > 0 {
		return processOne(ctx, a, strings.Join(args, " "))
	}
	return processInteractive(ctx, a)
}

// processOne runs a single command and prints the JSON response.
func processOne(ctx context.Context, a *agent.Agent, text string) error {
	resp := a.ProcessCommand(ctx, text)
	return printJSON(resp)
}

// processInteractive reads commands from stdin until EOF or interrupt.
func processInteractive(ctx context.Context, a *agent.Agent) error {
	fmt.Println("sentinel interactive session; one command per line, Ctrl-D to exit")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "status" {
			if err := printJSON(a.Status()); err != nil {
				return err
			}
			continue
		}
		if err := printJSON(a.ProcessCommand(ctx, line)); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
