package enforce

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"airguard-hq/sentinel/pkg/audit"
	"airguard-hq/sentinel/pkg/intent"
	"airguard-hq/sentinel/pkg/policy"
	"airguard-hq/sentinel/pkg/telemetry/metrics"
)

// blockedMessagePrefix starts every policy-denial message, so callers and
// tests can distinguish blocking from execution failure.
const blockedMessagePrefix = "Action blocked by policy: "

// Evaluator produces a policy decision for an intent. *policy.Store
// satisfies this; the indirection keeps the gate testable against canned
// decisions.
type Evaluator interface {
	Evaluate(in *intent.Intent) policy.Decision
}

// Gate is the enforcement checkpoint. It owns evaluation: every intent that
// enters Enforce gets exactly one policy decision and exactly one audit
// record, and denied intents never reach the Executor.
type Gate struct {
	evaluator Evaluator
	log       *audit.Log
	executor  Executor
	logger    *slog.Logger
	metrics   *metrics.Collector
}

// NewGate wires the gate to its evaluator, audit log, and executor.
func NewGate(evaluator Evaluator, log *audit.Log, executor Executor, logger *slog.Logger) (*Gate, error) {
	if evaluator == nil {
		return nil, fmt.Errorf("enforce: evaluator cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("enforce: audit log cannot be nil")
	}
	if executor == nil {
		return nil, fmt.Errorf("enforce: executor cannot be nil")
	}
	if logger == nil {
		logger = slog.Default().With("component", "enforce.gate")
	}
	return &Gate{
		evaluator: evaluator,
		log:       log,
		executor:  executor,
		logger:    logger,
	}, nil
}

// SetMetrics attaches a collector. A nil collector disables recording.
func (g *Gate) SetMetrics(c *metrics.Collector) {
	g.metrics = c
}

// Enforce evaluates policy for the intent and, if permitted, executes it.
// It never returns nil and never panics or propagates executor failures:
// every branch produces a terminal Outcome and one audit record.
//
// Denial is not an error. A blocked command returns a failed Outcome whose
// message carries the policy reason, with a BLOCKED record appended; the
// Executor is not invoked on that path.
func (g *Gate) Enforce(ctx context.Context, in *intent.Intent) *Outcome {
	decision := g.evaluator.Evaluate(in)
	g.metrics.RecordDecision(decision.Allowed, decision.MatchedRule)

	if !decision.Allowed {
		outcome := failure(blockedMessagePrefix+decision.Reason, map[string]any{
			"action":         string(in.Action),
			"blocked_reason": decision.Reason,
			"policy_rule":    decision.MatchedRule,
		})

		g.logger.Info("action blocked by policy",
			"action", in.Action,
			"rule", decision.MatchedRule,
			"reason", decision.Reason,
		)

		g.append(audit.StatusBlocked, in, &decision, outcome)
		return outcome
	}

	if err := checkConstraints(in, decision.Constraints); err != nil {
		outcome := failure(err.Error(), map[string]any{
			"action":      string(in.Action),
			"policy_rule": decision.MatchedRule,
		})

		g.logger.Warn("constraint violation",
			"action", in.Action,
			"rule", decision.MatchedRule,
			"error", err,
		)

		g.append(audit.StatusError, in, &decision, outcome)
		return outcome
	}

	start := time.Now()
	outcome, err := safeExecute(ctx, g.executor, &Request{
		Intent:      in,
		Constraints: decision.Constraints,
	})
	if err != nil {
		execErr := &ExecutionError{Action: string(in.Action), Cause: err}
		outcome = failure(fmt.Sprintf("Execution error: %v", err), nil)

		g.logger.Error("executor failed",
			"action", in.Action,
			"error", execErr,
		)

		g.append(audit.StatusError, in, &decision, outcome)
		return outcome
	}
	if outcome == nil {
		// Defend against executors returning (nil, nil).
		outcome = failure("executor returned no outcome", nil)
	}
	if outcome.Duration == 0 {
		outcome.Duration = time.Since(start)
	}
	g.metrics.RecordEnforcementDuration(outcome.Duration.Seconds())

	status := audit.StatusSuccess
	if !outcome.Success {
		status = audit.StatusError
	}

	g.logger.Info("action executed",
		"action", in.Action,
		"success", outcome.Success,
		"duration_ms", outcome.Duration.Milliseconds(),
		"artifacts", len(outcome.Artifacts),
	)

	g.append(status, in, &decision, outcome)
	return outcome
}

// append converts gate types into audit projections and writes the record.
func (g *Gate) append(status audit.Status, in *intent.Intent, decision *policy.Decision, outcome *Outcome) {
	g.log.Append(audit.NewRecord(status, IntentRecord(in), DecisionRecord(decision), OutcomeRecord(outcome)))
	g.metrics.RecordCommand(string(status))
}

// IntentRecord projects an intent into its audit form.
func IntentRecord(in *intent.Intent) *audit.IntentRecord {
	if in == nil {
		return nil
	}
	return &audit.IntentRecord{
		Action:     string(in.Action),
		Parameters: in.Parameters,
		Timestamp:  in.Timestamp,
		SourceText: in.SourceText,
		Confidence: in.Confidence,
	}
}

// DecisionRecord projects a policy decision into its audit form.
func DecisionRecord(decision *policy.Decision) *audit.DecisionRecord {
	if decision == nil {
		return nil
	}
	return &audit.DecisionRecord{
		Allowed:     decision.Allowed,
		Reason:      decision.Reason,
		MatchedRule: decision.MatchedRule,
		Constraints: decision.Constraints,
	}
}

// OutcomeRecord projects an execution outcome into its audit form.
func OutcomeRecord(outcome *Outcome) *audit.OutcomeRecord {
	if outcome == nil {
		return nil
	}
	return &audit.OutcomeRecord{
		Success:    outcome.Success,
		Message:    outcome.Message,
		Data:       outcome.Data,
		DurationMS: outcome.Duration.Milliseconds(),
		Artifacts:  outcome.Artifacts,
	}
}
