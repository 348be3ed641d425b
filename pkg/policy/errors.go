package policy

import (
	"errors"
	"fmt"
)

// ErrNoRules indicates the policy source omitted the required rules list.
var ErrNoRules = errors.New("policy source has no rules list")

// ConfigError indicates the policy source is absent, unparseable, or
// structurally invalid. It is fatal at store construction and must not be
// swallowed.
type ConfigError struct {
	Source  string
	Message string
	Cause   error
}

// Error returns the error message.
func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("policy config %q: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("policy config %q: %s", e.Source, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// ReloadError indicates a reload attempt failed; the previously active rule
// set remains in effect.
type ReloadError struct {
	Source string
	Cause  error
}

// Error returns the error message.
func (e *ReloadError) Error() string {
	return fmt.Sprintf("policy reload failed for %q: %v", e.Source, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ReloadError) Unwrap() error {
	return e.Cause
}
