package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config contains configuration for the metrics collector.
type Config struct {
	// Enabled enables metric collection and exposure.
	Enabled bool

	// Namespace is the metric name prefix. Default: "sentinel".
	Namespace string
}

// Collector owns the pipeline's Prometheus metrics. A nil *Collector is a
// valid no-op, so callers never need to guard recording sites.
type Collector struct {
	registry *prometheus.Registry

	commandsTotal           *prometheus.CounterVec
	classificationConfScore prometheus.Histogram
	policyDecisionsTotal    *prometheus.CounterVec
	enforcementDuration     prometheus.Histogram
	auditAppendFailures     prometheus.Counter
	auditCorruptLines       prometheus.Gauge
	auditRecordsTotal       prometheus.Gauge
}

// NewCollector creates a collector with its own registry. If registry is
// nil, a fresh one is created.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "sentinel"
	}

	c := &Collector{
		registry: registry,

		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands processed, by final audit status.",
		}, []string{"status"}),

		classificationConfScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classification_confidence",
			Help:      "Classifier confidence score distribution.",
			Buckets:   []float64{0.0, 0.25, 0.5, 0.7, 0.8, 0.9, 0.95, 1.0},
		}),

		policyDecisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policy_decisions_total",
			Help:      "Policy decisions, by outcome and matched rule.",
		}, []string{"decision", "rule"}),

		enforcementDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "enforcement_duration_seconds",
			Help:      "End-to-end enforcement latency per command.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		}),

		auditAppendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_append_failures_total",
			Help:      "Audit storage failures surfaced on the side channel.",
		}),

		auditCorruptLines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "audit_corrupt_lines",
			Help:      "Corrupt ledger lines found by the last integrity scan.",
		}),

		auditRecordsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "audit_records",
			Help:      "Well-formed ledger records found by the last integrity scan.",
		}),
	}

	registry.MustRegister(
		c.commandsTotal,
		c.classificationConfScore,
		c.policyDecisionsTotal,
		c.enforcementDuration,
		c.auditAppendFailures,
		c.auditCorruptLines,
		c.auditRecordsTotal,
	)

	return c
}

// Handler returns the HTTP handler serving the registry.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordCommand counts one processed command by its final audit status.
func (c *Collector) RecordCommand(status string) {
	if c == nil {
		return
	}
	c.commandsTotal.WithLabelValues(status).Inc()
}

// RecordClassification observes a classifier confidence score.
func (c *Collector) RecordClassification(confidence float64) {
	if c == nil {
		return
	}
	c.classificationConfScore.Observe(confidence)
}

// RecordDecision counts a policy decision by outcome and matched rule.
func (c *Collector) RecordDecision(allowed bool, rule string) {
	if c == nil {
		return
	}
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	c.policyDecisionsTotal.WithLabelValues(decision, rule).Inc()
}

// RecordEnforcementDuration observes end-to-end enforcement latency.
func (c *Collector) RecordEnforcementDuration(seconds float64) {
	if c == nil {
		return
	}
	c.enforcementDuration.Observe(seconds)
}

// RecordAuditAppendFailure counts one audit storage failure.
func (c *Collector) RecordAuditAppendFailure() {
	if c == nil {
		return
	}
	c.auditAppendFailures.Inc()
}

// RecordIntegrityScan publishes the latest ledger scan results.
func (c *Collector) RecordIntegrityScan(records, corrupt int) {
	if c == nil {
		return
	}
	c.auditRecordsTotal.Set(float64(records))
	c.auditCorruptLines.Set(float64(corrupt))
}
