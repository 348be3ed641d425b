package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"airguard-hq/sentinel/pkg/audit"
	"airguard-hq/sentinel/pkg/enforce"
	"airguard-hq/sentinel/pkg/intent"
	"airguard-hq/sentinel/pkg/policy"
	"airguard-hq/sentinel/pkg/telemetry/metrics"
)

// Response is what a caller gets back for one command.
type Response struct {
	// Success reports whether the command executed and succeeded.
	Success bool `json:"success"`

	// Message is the human-readable result, including block and error
	// explanations.
	Message string `json:"message"`

	// Action is the classified action, empty if classification never ran.
	Action string `json:"action,omitempty"`

	// Data is the structured result payload from execution.
	Data map[string]any `json:"data,omitempty"`

	// Artifacts lists files produced by execution.
	Artifacts []string `json:"artifacts,omitempty"`

	// BlockedReason is the policy reason when the command was denied.
	BlockedReason string `json:"blocked_reason,omitempty"`

	// MatchedRule is the policy rule that decided the command.
	MatchedRule string `json:"matched_rule,omitempty"`
}

// Status is the agent's operational self-description.
type Status struct {
	Stats          Stats           `json:"stats"`
	AllowedActions []intent.Action `json:"allowed_actions"`
	Policy         policy.Info     `json:"policy"`
}

// Agent runs the full command pipeline: classify, enforce, report.
type Agent struct {
	classifier *intent.Classifier
	store      *policy.Store
	gate       *enforce.Gate
	log        *audit.Log
	metrics    *metrics.Collector
	logger     *slog.Logger

	stats stats

	stopDrain chan struct{}
}

// New wires an agent from its components. The metrics collector may be nil.
func New(classifier *intent.Classifier, store *policy.Store, gate *enforce.Gate, log *audit.Log, collector *metrics.Collector, logger *slog.Logger) (*Agent, error) {
	if classifier == nil {
		return nil, fmt.Errorf("agent: classifier cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("agent: policy store cannot be nil")
	}
	if gate == nil {
		return nil, fmt.Errorf("agent: gate cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("agent: audit log cannot be nil")
	}
	if logger == nil {
		logger = slog.Default().With("component", "agent")
	}

	a := &Agent{
		classifier: classifier,
		store:      store,
		gate:       gate,
		log:        log,
		metrics:    collector,
		logger:     logger,
		stopDrain:  make(chan struct{}),
	}
	gate.SetMetrics(collector)
	go a.drainAuditErrors()
	return a, nil
}

// ProcessCommand runs one natural language command through the pipeline.
// It always returns a response and always leaves exactly one audit record.
func (a *Agent) ProcessCommand(ctx context.Context, text string) *Response {
	a.stats.total.Add(1)

	if strings.TrimSpace(text) == "" {
		a.stats.errors.Add(1)
		a.log.Append(audit.NewRecord(audit.StatusError, nil, nil, &audit.OutcomeRecord{
			Success: false,
			Message: "empty command text",
		}))
		a.metrics.RecordCommand(string(audit.StatusError))

		a.logger.Warn("rejected empty command")
		return &Response{
			Success: false,
			Message: "Command text cannot be empty",
		}
	}

	in := a.classifier.Classify(text)
	a.metrics.RecordClassification(in.Confidence)

	if in.Action == intent.ActionError || !intent.ValidateStructure(in) {
		a.stats.errors.Add(1)
		a.log.Append(audit.NewRecord(audit.StatusError, enforce.IntentRecord(in), nil, nil))
		a.metrics.RecordCommand(string(audit.StatusError))

		reason := "classification failed"
		if msg, ok := in.Parameters["error"].(string); ok && msg != "" {
			reason = msg
		}
		a.logger.Warn("classification failed", "reason", reason)
		return &Response{
			Success: false,
			Message: fmt.Sprintf("Could not process command: %s", reason),
			Action:  string(in.Action),
		}
	}

	outcome := a.gate.Enforce(ctx, in)

	resp := &Response{
		Success:   outcome.Success,
		Message:   outcome.Message,
		Action:    string(in.Action),
		Data:      outcome.Data,
		Artifacts: outcome.Artifacts,
	}

	switch {
	case outcome.Success:
		a.stats.successful.Add(1)
	case outcome.Blocked():
		a.stats.blocked.Add(1)
		if reason, ok := outcome.Data["blocked_reason"].(string); ok {
			resp.BlockedReason = reason
		}
		if rule, ok := outcome.Data["policy_rule"].(string); ok {
			resp.MatchedRule = rule
		}
	default:
		a.stats.errors.Add(1)
	}

	return resp
}

// Status reports counters, the currently allowed actions, and policy
// metadata.
func (a *Agent) Status() Status {
	return Status{
		Stats:          a.stats.snapshot(),
		AllowedActions: a.store.AllowedActions(),
		Policy:         a.store.Info(),
	}
}

// Close stops the audit error drain. It does not close the components the
// agent was built from; their owner does that.
func (a *Agent) Close() {
	close(a.stopDrain)
}

// drainAuditErrors forwards audit storage failures into metrics so a silent
// ledger problem still shows up on a dashboard.
func (a *Agent) drainAuditErrors() {
	for {
		select {
		case <-a.stopDrain:
			return
		case _, ok := <-a.log.Errors():
			if !ok {
				return
			}
			// The log already wrote the failure; this only surfaces it
			// as a counter.
			a.metrics.RecordAuditAppendFailure()
		}
	}
}
