package enforce

import (
	"fmt"
	"strings"
	"time"
)

// Outcome is the result of a permitted action's execution, or the blocked
// result synthesized when policy denies execution.
type Outcome struct {
	// Success reports whether the action completed.
	Success bool `json:"success"`

	// Message is the human-readable status. Failed outcomes always carry a
	// cause here.
	Message string `json:"message"`

	// Data is an optional structured result payload.
	Data map[string]any `json:"data,omitempty"`

	// Duration is the elapsed execution time, always >= 0. Blocked
	// outcomes have zero duration; nothing ran.
	Duration time.Duration `json:"duration"`

	// Artifacts lists file paths produced by the action, in creation order.
	Artifacts []string `json:"artifacts,omitempty"`
}

// NewOutcome constructs a validated Outcome. Negative durations and failed
// outcomes without a message are construction errors.
func NewOutcome(success bool, message string, data map[string]any, duration time.Duration, artifacts []string) (*Outcome, error) {
	if duration < 0 {
		return nil, fmt.Errorf("outcome: duration must be non-negative, got %v", duration)
	}
	if !success && message == "" {
		return nil, fmt.Errorf("outcome: failed outcome requires a message")
	}
	return &Outcome{
		Success:   success,
		Message:   message,
		Data:      data,
		Duration:  duration,
		Artifacts: artifacts,
	}, nil
}

// Blocked reports whether this outcome is a policy denial rather than an
// execution failure.
func (o *Outcome) Blocked() bool {
	return o != nil && !o.Success && strings.HasPrefix(o.Message, blockedMessagePrefix)
}

// failure builds a failed outcome with zero duration. Used for blocked,
// constraint-violation, and executor-failure branches.
func failure(message string, data map[string]any) *Outcome {
	return &Outcome{
		Success: false,
		Message: message,
		Data:    data,
	}
}
