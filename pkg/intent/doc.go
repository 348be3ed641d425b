// Package intent converts free-text operator commands into structured,
// typed intents.
//
// The classifier is deliberately rule-based and deterministic: an ordered
// table of pattern matchers maps input text to a typed Action with a
// confidence score in [0.0, 1.0]. Ambiguity is never an error; input that
// matches no pattern produces ActionUnknown with confidence 0.0, and empty
// or whitespace-only input produces ActionError with confidence 0.0. Both
// flow through the rest of the pipeline and are audited like any other
// command.
//
// # Classification
//
//	c := intent.NewClassifier(nil)
//	in := c.Classify("Generate pollution report for Delhi")
//	// in.Action == intent.ActionGenerateReport
//	// in.Parameters["location"] == "Delhi"
//
// Classification is a pure function of the input and the static pattern
// tables; the classifier holds no mutable state and is safe for concurrent
// use.
package intent
