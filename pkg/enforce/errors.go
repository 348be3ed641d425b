package enforce

import "fmt"

// ConstraintError indicates an allowed action violated one of its rule's
// execution constraints. It aborts the command before execution.
type ConstraintError struct {
	Constraint string
	Detail     string
}

// Error returns the error message.
func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint %s violated: %s", e.Constraint, e.Detail)
}

// ExecutionError wraps a failure reported by the external Executor.
type ExecutionError struct {
	Action string
	Cause  error
}

// Error returns the error message.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution of %s failed: %v", e.Action, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}
