package config

// DefaultConfig returns the configuration used when fields are omitted.
// The defaults favor the safe path: default-deny lives in the policy
// loader, and here the audit ledger is always on.
func DefaultConfig() *Config {
	return &Config{
		Policy: PolicyConfig{
			Path:       "policy.yaml",
			Watch:      false,
			DebounceMS: 100,
		},
		Audit: AuditConfig{
			Dir: "logs",
			Index: AuditIndexConfig{
				Enabled: false,
				Path:    "data/audit-index.db",
			},
			IntegritySchedule: "",
		},
		Executor: ExecutorConfig{
			DataDir:   "data",
			OutputDir: "output",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			Listen:    ":9090",
			Namespace: "sentinel",
		},
	}
}
