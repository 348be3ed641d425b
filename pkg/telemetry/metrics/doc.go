// Package metrics exposes Prometheus metrics for the authorization
// pipeline: commands processed by status, classification confidence,
// policy decisions by outcome and rule, enforcement latency, and audit
// storage health.
//
// The Collector registers everything against its own prometheus.Registry
// so embedders control exposure; Handler returns the HTTP handler for the
// /metrics endpoint.
package metrics
