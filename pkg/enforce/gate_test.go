package enforce

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"airguard-hq/sentinel/pkg/audit"
	"airguard-hq/sentinel/pkg/intent"
	"airguard-hq/sentinel/pkg/policy"
)

// recordingExecutor counts invocations and returns a canned result.
type recordingExecutor struct {
	calls    int
	outcome  *Outcome
	err      error
	panicMsg string
}

func (e *recordingExecutor) Execute(ctx context.Context, req *Request) (*Outcome, error) {
	e.calls++
	if e.panicMsg != "" {
		panic(e.panicMsg)
	}
	return e.outcome, e.err
}

func testStore(t *testing.T) *policy.Store {
	t.Helper()
	return policy.NewStoreFromDocument(&policy.Document{
		Rules: []policy.Rule{
			{Action: intent.ActionGenerateReport, Allowed: true, Reason: "read-only"},
			{
				Action:  intent.ActionSendAlert,
				Allowed: true,
				Reason:  "monitoring",
				Constraints: policy.Constraints{
					ConstraintAllowedSeverities: []string{"info", "warning", "critical"},
					ConstraintMaxMessageLength:  20,
				},
			},
			{Action: intent.ActionShutdownFactory, Allowed: false, Reason: "human authorization required"},
		},
	}, nil)
}

func testLog(t *testing.T) *audit.Log {
	t.Helper()
	log, err := audit.NewLog(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewLog failed: %v", err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

func gateIntent(t *testing.T, action intent.Action, params map[string]any) *intent.Intent {
	t.Helper()
	in, err := intent.New(action, params, time.Now(), "test command", 0.9)
	if err != nil {
		t.Fatalf("failed to build intent: %v", err)
	}
	return in
}

func TestEnforceDeniedNeverExecutes(t *testing.T) {
	exec := &recordingExecutor{outcome: &Outcome{Success: true, Message: "ran"}}
	log := testLog(t)
	gate, err := NewGate(testStore(t), log, exec, nil)
	if err != nil {
		t.Fatalf("NewGate failed: %v", err)
	}

	outcome := gate.Enforce(context.Background(), gateIntent(t, intent.ActionShutdownFactory, nil))

	if exec.calls != 0 {
		t.Fatalf("executor invoked %d times on a denied action", exec.calls)
	}
	if outcome.Success {
		t.Error("denied action reported success")
	}
	if !outcome.Blocked() {
		t.Error("denied outcome should report Blocked")
	}
	if !strings.HasPrefix(outcome.Message, "Action blocked by policy: ") {
		t.Errorf("message = %q, want the blocked prefix", outcome.Message)
	}
	if outcome.Data["blocked_reason"] != "human authorization required" {
		t.Errorf("blocked_reason = %v", outcome.Data["blocked_reason"])
	}

	records := log.Query(audit.Query{Status: audit.StatusBlocked})
	if len(records) != 1 {
		t.Fatalf("blocked record count = %d, want 1", len(records))
	}
	if records[0].Decision == nil || records[0].Decision.Allowed {
		t.Error("blocked record should carry the denying decision")
	}
}

func TestEnforceDefaultDeny(t *testing.T) {
	exec := &recordingExecutor{}
	gate, err := NewGate(testStore(t), testLog(t), exec, nil)
	if err != nil {
		t.Fatalf("NewGate failed: %v", err)
	}

	outcome := gate.Enforce(context.Background(), gateIntent(t, intent.ActionUnknown, nil))

	if exec.calls != 0 {
		t.Error("unmatched action must not execute")
	}
	if outcome.Data["policy_rule"] != policy.DefaultRuleName {
		t.Errorf("policy_rule = %v, want %q", outcome.Data["policy_rule"], policy.DefaultRuleName)
	}
}

func TestEnforceAllowedExecutes(t *testing.T) {
	exec := &recordingExecutor{outcome: &Outcome{Success: true, Message: "report ready", Artifacts: []string{"out/report.json"}}}
	log := testLog(t)
	gate, err := NewGate(testStore(t), log, exec, nil)
	if err != nil {
		t.Fatalf("NewGate failed: %v", err)
	}

	outcome := gate.Enforce(context.Background(), gateIntent(t, intent.ActionGenerateReport, nil))

	if exec.calls != 1 {
		t.Fatalf("executor calls = %d, want 1", exec.calls)
	}
	if !outcome.Success {
		t.Fatalf("outcome = %+v, want success", outcome)
	}
	if outcome.Duration < 0 {
		t.Error("duration must be non-negative")
	}

	records := log.Query(audit.Query{Status: audit.StatusSuccess})
	if len(records) != 1 {
		t.Fatalf("success record count = %d, want 1", len(records))
	}
	if records[0].Result == nil || len(records[0].Result.Artifacts) != 1 {
		t.Error("success record should carry the outcome artifacts")
	}
}

func TestEnforceConstraintViolation(t *testing.T) {
	exec := &recordingExecutor{outcome: &Outcome{Success: true, Message: "ran"}}
	log := testLog(t)
	gate, err := NewGate(testStore(t), log, exec, nil)
	if err != nil {
		t.Fatalf("NewGate failed: %v", err)
	}

	in := gateIntent(t, intent.ActionSendAlert, map[string]any{
		"severity": "catastrophic",
	})
	outcome := gate.Enforce(context.Background(), in)

	if exec.calls != 0 {
		t.Fatal("constraint violation must abort before execution")
	}
	if outcome.Success {
		t.Error("violation reported success")
	}
	if outcome.Blocked() {
		t.Error("constraint violation is an error, not a policy block")
	}
	if !strings.Contains(outcome.Message, "catastrophic") {
		t.Errorf("message = %q, want the offending severity named", outcome.Message)
	}

	if records := log.Query(audit.Query{Status: audit.StatusError}); len(records) != 1 {
		t.Fatalf("error record count = %d, want 1", len(records))
	}
}

func TestEnforceExecutorError(t *testing.T) {
	exec := &recordingExecutor{err: errors.New("disk full")}
	log := testLog(t)
	gate, err := NewGate(testStore(t), log, exec, nil)
	if err != nil {
		t.Fatalf("NewGate failed: %v", err)
	}

	outcome := gate.Enforce(context.Background(), gateIntent(t, intent.ActionGenerateReport, nil))

	if outcome.Success {
		t.Error("executor error reported success")
	}
	if !strings.Contains(outcome.Message, "disk full") {
		t.Errorf("message = %q, want the executor error", outcome.Message)
	}
	if records := log.Query(audit.Query{Status: audit.StatusError}); len(records) != 1 {
		t.Fatalf("error record count = %d, want 1", len(records))
	}
}

func TestEnforceExecutorPanic(t *testing.T) {
	exec := &recordingExecutor{panicMsg: "index out of range"}
	log := testLog(t)
	gate, err := NewGate(testStore(t), log, exec, nil)
	if err != nil {
		t.Fatalf("NewGate failed: %v", err)
	}

	outcome := gate.Enforce(context.Background(), gateIntent(t, intent.ActionGenerateReport, nil))

	if outcome == nil {
		t.Fatal("panic must still yield an outcome")
	}
	if outcome.Success {
		t.Error("panicking executor reported success")
	}
	if !strings.Contains(outcome.Message, "index out of range") {
		t.Errorf("message = %q, want the panic value", outcome.Message)
	}
	if records := log.Query(audit.Query{Status: audit.StatusError}); len(records) != 1 {
		t.Fatalf("error record count = %d, want 1", len(records))
	}
}

func TestEnforceNilNilExecutor(t *testing.T) {
	exec := &recordingExecutor{} // returns (nil, nil)
	gate, err := NewGate(testStore(t), testLog(t), exec, nil)
	if err != nil {
		t.Fatalf("NewGate failed: %v", err)
	}

	outcome := gate.Enforce(context.Background(), gateIntent(t, intent.ActionGenerateReport, nil))
	if outcome == nil || outcome.Success {
		t.Errorf("nil-nil executor should yield a failed outcome, got %+v", outcome)
	}
}

func TestEnforceOneRecordPerCommand(t *testing.T) {
	exec := &recordingExecutor{outcome: &Outcome{Success: true, Message: "ran"}}
	log := testLog(t)
	gate, err := NewGate(testStore(t), log, exec, nil)
	if err != nil {
		t.Fatalf("NewGate failed: %v", err)
	}

	const commands = 5
	for i := 0; i < commands; i++ {
		gate.Enforce(context.Background(), gateIntent(t, intent.ActionGenerateReport, nil))
	}
	gate.Enforce(context.Background(), gateIntent(t, intent.ActionShutdownFactory, nil))

	if records := log.Query(audit.Query{}); len(records) != commands+1 {
		t.Errorf("record count = %d, want %d", len(records), commands+1)
	}
}

func TestNewGateNilChecks(t *testing.T) {
	exec := &recordingExecutor{}
	log := testLog(t)
	store := testStore(t)

	if _, err := NewGate(nil, log, exec, nil); err == nil {
		t.Error("nil evaluator accepted")
	}
	if _, err := NewGate(store, nil, exec, nil); err == nil {
		t.Error("nil audit log accepted")
	}
	if _, err := NewGate(store, log, nil, nil); err == nil {
		t.Error("nil executor accepted")
	}
}
