package audit

import "fmt"

// StorageError describes a failure in an audit storage backend. Append and
// Query never raise these to their callers; they go to the log's error side
// channel instead.
type StorageError struct {
	Backend string
	Op      string
	Cause   error
}

// NewStorageError creates a StorageError for the given backend and operation.
func NewStorageError(backend, op string, cause error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Cause: cause}
}

// Error returns the error message.
func (e *StorageError) Error() string {
	return fmt.Sprintf("audit storage %s: %s failed: %v", e.Backend, e.Op, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}
