// Package config loads and validates the sentinel runtime configuration
// from a YAML file.
//
// Loading is strict about structure and forgiving about omissions: unknown
// fields are parse errors, while missing fields fall back to defaults from
// DefaultConfig. Validate rejects configurations that cannot possibly run
// (no policy path, bad schedule syntax is caught later by the scheduler).
package config
