package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for values that would prevent the
// pipeline from starting.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Policy.Path == "" {
		return errors.New("policy.path is required")
	}
	if c.Policy.DebounceMS < 0 {
		return fmt.Errorf("policy.debounce_ms must not be negative, got %d", c.Policy.DebounceMS)
	}

	if c.Audit.Dir == "" {
		return errors.New("audit.dir is required")
	}
	if c.Audit.Index.Enabled && c.Audit.Index.Path == "" {
		return errors.New("audit.index.path is required when the index is enabled")
	}

	if c.Executor.DataDir == "" {
		return errors.New("executor.data_dir is required")
	}
	if c.Executor.OutputDir == "" {
		return errors.New("executor.output_dir is required")
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("logging.format %q is not recognized", c.Logging.Format)
	}

	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return errors.New("metrics.listen is required when metrics are enabled")
	}

	return nil
}
