package enforce

import (
	"context"
	"fmt"

	"airguard-hq/sentinel/pkg/intent"
	"airguard-hq/sentinel/pkg/policy"
)

// Request is what the Gate hands to an Executor: the immutable intent plus
// the policy constraints that were checked and must be honored during
// execution. Constraints ride on their own field so policy data never
// collides with user parameters.
type Request struct {
	Intent      *intent.Intent
	Constraints policy.Constraints
}

// Executor performs an approved action. Implementations may return an error
// for unexpected failures; the Gate converts errors (and panics) into
// failed outcomes and never lets them escape.
type Executor interface {
	Execute(ctx context.Context, req *Request) (*Outcome, error)
}

// safeExecute invokes the executor with panic recovery, so a misbehaving
// action handler degrades into an ordinary execution error.
func safeExecute(ctx context.Context, exec Executor, req *Request) (outcome *Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = nil
			err = fmt.Errorf("executor panic: %v", r)
		}
	}()
	return exec.Execute(ctx, req)
}
