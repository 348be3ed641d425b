// Package enforce is the single authorization checkpoint between classified
// intents and action execution.
//
// The Gate owns policy evaluation: callers hand it an intent, it consults
// the policy store, and no action can reach the Executor without passing
// through Enforce. The invariant the whole system stands on is that a
// denied intent never invokes the Executor; denial short-circuits into a
// blocked outcome and a BLOCKED audit record.
//
// Allowed intents have their rule's constraints checked before execution.
// A violated constraint aborts the command with a *ConstraintError outcome
// and an ERROR audit record; it is never silently downgraded to allowed.
// Constraints that pass travel to the Executor on the Request's explicit
// Constraints field, never smuggled through the intent's parameter map.
//
// Executor failures, including panics, are caught at the gate boundary and
// converted into failed outcomes. Enforce never propagates an executor
// failure to its caller, and every branch appends exactly one audit record.
package enforce
