package config

// Config is the root runtime configuration.
type Config struct {
	// Policy configures the policy store and its hot-reload watcher.
	Policy PolicyConfig `yaml:"policy"`

	// Audit configures the audit ledger and its companions.
	Audit AuditConfig `yaml:"audit"`

	// Executor configures the action executor's directories.
	Executor ExecutorConfig `yaml:"executor"`

	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus exposure.
	Metrics MetricsConfig `yaml:"metrics"`
}

// PolicyConfig configures the policy source.
type PolicyConfig struct {
	// Path is the policy document (YAML or JSON).
	Path string `yaml:"path"`

	// Watch enables fsnotify hot-reload of the policy file.
	Watch bool `yaml:"watch"`

	// DebounceMS is the watcher debounce interval in milliseconds.
	DebounceMS int `yaml:"debounce_ms"`
}

// AuditConfig configures the audit ledger.
type AuditConfig struct {
	// Dir is the directory holding the append-only ledger file.
	Dir string `yaml:"dir"`

	// Index configures the optional SQLite query index.
	Index AuditIndexConfig `yaml:"index"`

	// IntegritySchedule is a cron expression for periodic ledger scans;
	// empty disables them.
	IntegritySchedule string `yaml:"integrity_schedule"`
}

// AuditIndexConfig configures the SQLite mirror of the ledger.
type AuditIndexConfig struct {
	// Enabled turns the index on.
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file.
	Path string `yaml:"path"`
}

// ExecutorConfig configures where the executor reads data and writes
// artifacts.
type ExecutorConfig struct {
	// DataDir holds pollution data files.
	DataDir string `yaml:"data_dir"`

	// OutputDir receives generated reports.
	OutputDir string `yaml:"output_dir"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is "json" or "text".
	Format string `yaml:"format"`

	// AddSource includes file and line number in logs.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures Prometheus exposure.
type MetricsConfig struct {
	// Enabled turns the /metrics listener on.
	Enabled bool `yaml:"enabled"`

	// Listen is the address for the metrics HTTP listener.
	Listen string `yaml:"listen"`

	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace"`
}
