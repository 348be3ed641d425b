package audit

import (
	"time"

	"github.com/google/uuid"
)

// Status classifies the overall outcome of one processed command.
type Status string

const (
	// StatusSuccess records an allowed action that executed successfully.
	StatusSuccess Status = "SUCCESS"

	// StatusBlocked records an action denied by policy. Denial is not an
	// error; it is a successful evaluation that forbids execution.
	StatusBlocked Status = "BLOCKED"

	// StatusError records a failure: bad input, constraint violation, or
	// executor failure.
	StatusError Status = "ERROR"
)

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusSuccess, StatusBlocked, StatusError:
		return true
	}
	return false
}

// Record is one immutable ledger entry. Exactly one record is persisted per
// processed command, including failures before classification completes, in
// which case the nested fields are all nil.
//
// The nested types are audit-local projections so this package stays a leaf:
// the enforcement gate converts its own types into these when appending.
type Record struct {
	// ID is a unique record identifier.
	ID string `json:"id"`

	// Timestamp is when the record was created.
	Timestamp time.Time `json:"timestamp"`

	// Status is SUCCESS, BLOCKED, or ERROR.
	Status Status `json:"status"`

	// Intent is the classified command, nil when classification never
	// completed.
	Intent *IntentRecord `json:"intent"`

	// Decision is the policy decision, nil when no evaluation happened.
	Decision *DecisionRecord `json:"policy_decision"`

	// Result is the execution outcome, nil when nothing executed.
	Result *OutcomeRecord `json:"result"`
}

// IntentRecord is the audited projection of a classified intent.
type IntentRecord struct {
	Action     string         `json:"action"`
	Parameters map[string]any `json:"parameters"`
	Timestamp  time.Time      `json:"timestamp"`
	SourceText string         `json:"source_text"`
	Confidence float64        `json:"confidence"`
}

// DecisionRecord is the audited projection of a policy decision.
type DecisionRecord struct {
	Allowed     bool           `json:"allowed"`
	Reason      string         `json:"reason"`
	MatchedRule string         `json:"matched_rule"`
	Constraints map[string]any `json:"constraints,omitempty"`
}

// OutcomeRecord is the audited projection of an execution outcome.
type OutcomeRecord struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message"`
	Data       map[string]any `json:"data,omitempty"`
	DurationMS int64          `json:"duration_ms"`
	Artifacts  []string       `json:"artifacts,omitempty"`
}

// NewRecord creates a ledger entry with a fresh ID and the current time.
func NewRecord(status Status, in *IntentRecord, decision *DecisionRecord, result *OutcomeRecord) *Record {
	return &Record{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Status:    status,
		Intent:    in,
		Decision:  decision,
		Result:    result,
	}
}
