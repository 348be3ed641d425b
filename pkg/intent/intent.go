package intent

import (
	"fmt"
	"time"
)

// Intent is the structured representation of a classified operator command.
// An Intent is created once by the classifier and is immutable thereafter;
// policy constraints travel on the enforcement request, never inside
// Parameters.
type Intent struct {
	// Action is the typed action symbol. Always non-empty.
	Action Action `json:"action"`

	// Parameters contains action-specific values extracted from the
	// command (location, severity, filename, ...). May be empty, never nil.
	Parameters map[string]any `json:"parameters"`

	// Timestamp is when the intent was created.
	Timestamp time.Time `json:"timestamp"`

	// SourceText is the original input, preserved verbatim for audit.
	SourceText string `json:"source_text"`

	// Confidence is the classifier confidence in [0.0, 1.0]. 0.0 is
	// reserved for unknown and error intents.
	Confidence float64 `json:"confidence"`
}

// New constructs a validated Intent. It fails if the action is empty, the
// timestamp is zero, or the confidence is out of range.
func New(action Action, params map[string]any, ts time.Time, source string, confidence float64) (*Intent, error) {
	if action == "" {
		return nil, fmt.Errorf("intent: action must be non-empty")
	}
	if ts.IsZero() {
		return nil, fmt.Errorf("intent: timestamp must be set")
	}
	if confidence < 0.0 || confidence > 1.0 {
		return nil, fmt.Errorf("intent: confidence %v out of range [0.0, 1.0]", confidence)
	}
	if params == nil {
		params = make(map[string]any)
	}
	return &Intent{
		Action:     action,
		Parameters: params,
		Timestamp:  ts,
		SourceText: source,
		Confidence: confidence,
	}, nil
}

// ValidateStructure reports whether the intent is structurally sound: non-nil,
// non-empty action, non-nil parameter map, valid timestamp, and confidence in
// range. Unknown and error intents are structurally valid; they carry a real
// action symbol and a zero confidence, which lets the pipeline audit them
// like any other command.
func ValidateStructure(in *Intent) bool {
	if in == nil {
		return false
	}
	if in.Action == "" {
		return false
	}
	if in.Parameters == nil {
		return false
	}
	if in.Timestamp.IsZero() {
		return false
	}
	if in.Confidence < 0.0 || in.Confidence > 1.0 {
		return false
	}
	return true
}
