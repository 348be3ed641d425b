package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector

	// None of these may panic.
	c.RecordCommand("SUCCESS")
	c.RecordClassification(0.95)
	c.RecordDecision(false, "shutdown_factory")
	c.RecordEnforcementDuration(0.01)
	c.RecordAuditAppendFailure()
	c.RecordIntegrityScan(10, 1)
}

func TestCollectorExposesMetrics(t *testing.T) {
	c := NewCollector(Config{Enabled: true, Namespace: "sentinel"}, nil)

	c.RecordCommand("SUCCESS")
	c.RecordCommand("BLOCKED")
	c.RecordDecision(true, "generate_report")
	c.RecordClassification(0.99)
	c.RecordEnforcementDuration(0.02)
	c.RecordIntegrityScan(42, 2)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, want := range []string{
		"sentinel_commands_total",
		"sentinel_policy_decisions_total",
		"sentinel_classification_confidence",
		"sentinel_enforcement_duration_seconds",
		"sentinel_audit_records 42",
		"sentinel_audit_corrupt_lines 2",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestCollectorNamespaceDefault(t *testing.T) {
	c := NewCollector(Config{}, nil)
	c.RecordCommand("ERROR")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "sentinel_commands_total") {
		t.Error("empty namespace should default to sentinel")
	}
}
