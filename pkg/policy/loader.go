package policy

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Fallbacks applied when the policy source is silent. Deny is hard-coded as
// the safe default; a missing default_policy never means allow.
const (
	fallbackDefaultPolicy = "deny"
	fallbackDefaultReason = "Action not explicitly allowed by security policy"
)

// loadDocument reads and validates a policy document from a file. YAML is a
// superset of JSON, so both source formats parse through the same path.
func loadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Source: path, Message: "cannot read policy source", Cause: err}
	}

	doc, err := parseDocument(data)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Source = path
			return nil, cfgErr
		}
		return nil, &ConfigError{Source: path, Message: "invalid policy source", Cause: err}
	}

	return doc, nil
}

// parseDocument parses and validates raw policy bytes.
func parseDocument(data []byte) (*Document, error) {
	var raw struct {
		Version       string  `yaml:"version"`
		Description   string  `yaml:"description"`
		DefaultPolicy *string `yaml:"default_policy"`
		DefaultReason *string `yaml:"default_reason"`
		Rules         []Rule  `yaml:"rules"`
	}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Message: "cannot parse policy source", Cause: err}
	}

	if raw.Rules == nil {
		return nil, &ConfigError{Message: "missing required rules list", Cause: ErrNoRules}
	}

	for i, rule := range raw.Rules {
		if rule.Action == "" {
			return nil, &ConfigError{Message: fmt.Sprintf("rule %d: missing required action field", i)}
		}
		if rule.Reason == "" {
			return nil, &ConfigError{Message: fmt.Sprintf("rule %d (%s): missing required reason field", i, rule.Action)}
		}
	}

	doc := &Document{
		Version:       raw.Version,
		Description:   raw.Description,
		DefaultPolicy: fallbackDefaultPolicy,
		DefaultReason: fallbackDefaultReason,
		Rules:         raw.Rules,
	}

	if raw.DefaultPolicy != nil {
		switch *raw.DefaultPolicy {
		case "allow", "deny":
			doc.DefaultPolicy = *raw.DefaultPolicy
		default:
			return nil, &ConfigError{Message: fmt.Sprintf("invalid default_policy %q (want allow or deny)", *raw.DefaultPolicy)}
		}
	}
	if raw.DefaultReason != nil && *raw.DefaultReason != "" {
		doc.DefaultReason = *raw.DefaultReason
	}

	return doc, nil
}
