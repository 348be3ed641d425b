package policy

import (
	"errors"
	"os"
	"testing"
	"time"

	"airguard-hq/sentinel/pkg/intent"
)

func testIntent(t *testing.T, action intent.Action) *intent.Intent {
	t.Helper()
	in, err := intent.New(action, nil, time.Now(), "test command", 0.9)
	if err != nil {
		t.Fatalf("failed to build intent: %v", err)
	}
	return in
}

func testDocument() *Document {
	return &Document{
		Version: "1.0",
		Rules: []Rule{
			{Action: intent.ActionGenerateReport, Allowed: true, Reason: "read-only", Constraints: Constraints{"allowed_formats": []string{"json"}}},
			{Action: intent.ActionSendAlert, Allowed: true, Reason: "monitoring"},
			{Action: intent.ActionShutdownFactory, Allowed: false, Reason: "human authorization required"},
		},
	}
}

func TestEvaluateAllowed(t *testing.T) {
	store := NewStoreFromDocument(testDocument(), nil)

	decision := store.Evaluate(testIntent(t, intent.ActionGenerateReport))
	if !decision.Allowed {
		t.Fatal("generate_report should be allowed")
	}
	if decision.MatchedRule != "generate_report" {
		t.Errorf("matched rule = %q, want generate_report", decision.MatchedRule)
	}
	if decision.Reason != "read-only" {
		t.Errorf("reason = %q, want the rule's reason", decision.Reason)
	}
	if decision.Constraints == nil {
		t.Error("decision lost the rule's constraints")
	}
}

func TestEvaluateDenied(t *testing.T) {
	store := NewStoreFromDocument(testDocument(), nil)

	decision := store.Evaluate(testIntent(t, intent.ActionShutdownFactory))
	if decision.Allowed {
		t.Fatal("shutdown_factory should be denied")
	}
	if decision.Reason != "human authorization required" {
		t.Errorf("reason = %q", decision.Reason)
	}
}

func TestEvaluateDefaultDeny(t *testing.T) {
	store := NewStoreFromDocument(testDocument(), nil)

	for _, action := range []intent.Action{intent.ActionIssueFine, intent.ActionUnknown, "reboot"} {
		decision := store.Evaluate(testIntent(t, action))
		if decision.Allowed {
			t.Errorf("%q should fall through to default deny", action)
		}
		if decision.MatchedRule != DefaultRuleName {
			t.Errorf("%q matched rule = %q, want %q", action, decision.MatchedRule, DefaultRuleName)
		}
	}
}

func TestEvaluateDefaultAllow(t *testing.T) {
	doc := testDocument()
	doc.DefaultPolicy = "allow"
	doc.DefaultReason = "permissive test policy"
	store := NewStoreFromDocument(doc, nil)

	decision := store.Evaluate(testIntent(t, intent.ActionAnalyzeAQI))
	if !decision.Allowed {
		t.Error("default allow should permit unmatched actions")
	}
}

func TestEvaluateFirstMatchWins(t *testing.T) {
	doc := &Document{
		Rules: []Rule{
			{Action: intent.ActionSendAlert, Allowed: false, Reason: "first"},
			{Action: intent.ActionSendAlert, Allowed: true, Reason: "second"},
		},
	}
	store := NewStoreFromDocument(doc, nil)

	decision := store.Evaluate(testIntent(t, intent.ActionSendAlert))
	if decision.Allowed || decision.Reason != "first" {
		t.Errorf("first matching rule must win, got allowed=%v reason=%q", decision.Allowed, decision.Reason)
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	store := NewStoreFromDocument(testDocument(), nil)
	in := testIntent(t, intent.ActionSendAlert)

	first := store.Evaluate(in)
	for i := 0; i < 5; i++ {
		if got := store.Evaluate(in); got.Allowed != first.Allowed || got.MatchedRule != first.MatchedRule {
			t.Fatalf("evaluation drifted: %+v vs %+v", got, first)
		}
	}
}

func TestAllowedActions(t *testing.T) {
	store := NewStoreFromDocument(testDocument(), nil)

	actions := store.AllowedActions()
	want := []intent.Action{intent.ActionGenerateReport, intent.ActionSendAlert}
	if len(actions) != len(want) {
		t.Fatalf("allowed actions = %v, want %v", actions, want)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Errorf("allowed actions[%d] = %q, want %q", i, actions[i], want[i])
		}
	}
}

func TestAllowedActionsShadowedRule(t *testing.T) {
	doc := &Document{
		Rules: []Rule{
			{Action: intent.ActionSendAlert, Allowed: false, Reason: "first"},
			{Action: intent.ActionSendAlert, Allowed: true, Reason: "unreachable"},
		},
	}
	store := NewStoreFromDocument(doc, nil)

	if actions := store.AllowedActions(); len(actions) != 0 {
		t.Errorf("shadowed allow rule should not surface, got %v", actions)
	}
}

func TestReload(t *testing.T) {
	path := writePolicy(t, validPolicyYAML)
	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	in := testIntent(t, intent.ActionShutdownFactory)
	if store.Evaluate(in).Allowed {
		t.Fatal("shutdown_factory should start denied")
	}

	updated := `
rules:
  - action: shutdown_factory
    allowed: true
    reason: "emergency override"
`
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("failed to rewrite policy: %v", err)
	}
	if err := store.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if !store.Evaluate(in).Allowed {
		t.Error("reload did not swap in the new rule set")
	}
}

func TestReloadKeepsPreviousOnFailure(t *testing.T) {
	path := writePolicy(t, validPolicyYAML)
	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("rules: [broken"), 0o644); err != nil {
		t.Fatalf("failed to corrupt policy: %v", err)
	}

	err = store.Reload()
	if err == nil {
		t.Fatal("Reload should fail on a corrupt source")
	}
	var reloadErr *ReloadError
	if !errors.As(err, &reloadErr) {
		t.Fatalf("error type = %T, want *ReloadError", err)
	}

	// The previous rule set must still answer.
	decision := store.Evaluate(testIntent(t, intent.ActionGenerateReport))
	if !decision.Allowed {
		t.Error("previous rule set should stay active after a failed reload")
	}
}

func TestInfo(t *testing.T) {
	path := writePolicy(t, validPolicyYAML)
	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	info := store.Info()
	if info.Version != "1.0" {
		t.Errorf("version = %q", info.Version)
	}
	if info.RuleCount != 2 {
		t.Errorf("rule count = %d, want 2", info.RuleCount)
	}
	if info.DefaultPolicy != "deny" {
		t.Errorf("default policy = %q", info.DefaultPolicy)
	}
	if info.Source != path {
		t.Errorf("source = %q, want %q", info.Source, path)
	}
}
