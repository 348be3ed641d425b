package policy

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validPolicyYAML = `
version: "1.0"
description: "test policy"
default_policy: deny
default_reason: "not allowed here"
rules:
  - action: generate_report
    allowed: true
    reason: "read-only"
    constraints:
      allowed_formats: [json, csv]
  - action: shutdown_factory
    allowed: false
    reason: "requires human authorization"
`

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write policy file: %v", err)
	}
	return path
}

func TestLoadDocument(t *testing.T) {
	doc, err := loadDocument(writePolicy(t, validPolicyYAML))
	if err != nil {
		t.Fatalf("loadDocument failed: %v", err)
	}

	if doc.Version != "1.0" {
		t.Errorf("version = %q, want %q", doc.Version, "1.0")
	}
	if len(doc.Rules) != 2 {
		t.Fatalf("rule count = %d, want 2", len(doc.Rules))
	}
	if doc.DefaultPolicy != "deny" {
		t.Errorf("default policy = %q, want deny", doc.DefaultPolicy)
	}
	if doc.DefaultReason != "not allowed here" {
		t.Errorf("default reason = %q", doc.DefaultReason)
	}
	if doc.Rules[0].Constraints == nil {
		t.Error("first rule lost its constraints")
	}
}

func TestLoadDocumentJSON(t *testing.T) {
	// YAML is a JSON superset, so JSON policies parse through the same path.
	doc, err := loadDocument(writePolicy(t, `{
		"version": "2.0",
		"rules": [
			{"action": "send_alert", "allowed": true, "reason": "monitoring"}
		]
	}`))
	if err != nil {
		t.Fatalf("loadDocument failed on JSON: %v", err)
	}
	if len(doc.Rules) != 1 || doc.Rules[0].Action != "send_alert" {
		t.Errorf("unexpected rules: %+v", doc.Rules)
	}
}

func TestLoadDocumentMissingFile(t *testing.T) {
	_, err := loadDocument(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error type = %T, want *ConfigError", err)
	}
	if cfgErr.Source == "" {
		t.Error("ConfigError should carry the source path")
	}
}

func TestParseDocumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantIn  string
	}{
		{
			name:    "malformed yaml",
			content: "rules: [unterminated",
			wantIn:  "cannot parse",
		},
		{
			name:    "missing rules",
			content: `version: "1.0"`,
			wantIn:  "missing required rules",
		},
		{
			name: "rule without action",
			content: `
rules:
  - allowed: true
    reason: "why"
`,
			wantIn: "missing required action",
		},
		{
			name: "rule without reason",
			content: `
rules:
  - action: send_alert
    allowed: true
`,
			wantIn: "missing required reason",
		},
		{
			name: "invalid default policy",
			content: `
default_policy: maybe
rules:
  - action: send_alert
    allowed: true
    reason: "why"
`,
			wantIn: "invalid default_policy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseDocument([]byte(tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantIn) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantIn)
			}
		})
	}
}

func TestParseDocumentDefaultFallbacks(t *testing.T) {
	doc, err := parseDocument([]byte(`
rules:
  - action: analyze_aqi
    allowed: true
    reason: "read-only"
`))
	if err != nil {
		t.Fatalf("parseDocument failed: %v", err)
	}
	if doc.DefaultPolicy != "deny" {
		t.Errorf("missing default_policy should fall back to deny, got %q", doc.DefaultPolicy)
	}
	if doc.DefaultReason == "" {
		t.Error("missing default_reason should get a fallback")
	}
}

func TestParseDocumentEmptyRulesList(t *testing.T) {
	// An explicitly empty rules list is valid; everything falls to the
	// default policy.
	doc, err := parseDocument([]byte("rules: []"))
	if err != nil {
		t.Fatalf("parseDocument failed: %v", err)
	}
	if len(doc.Rules) != 0 {
		t.Errorf("rule count = %d, want 0", len(doc.Rules))
	}
}
