package policy

import (
	"airguard-hq/sentinel/pkg/intent"
)

// DefaultRuleName is the sentinel matched-rule identifier reported when no
// explicit rule matched and the default policy decided the outcome.
const DefaultRuleName = "default"

// Constraints is a named set of execution limits attached to an allow rule,
// e.g. allowed_formats or max_message_length. Only meaningful on rules with
// Allowed set.
type Constraints map[string]any

// Rule is one declarative policy entry governing a single action.
type Rule struct {
	// Action is the action symbol this rule governs. Matching is exact and
	// case-sensitive; there are no wildcards.
	Action intent.Action `yaml:"action" json:"action"`

	// Allowed decides whether the action may proceed.
	Allowed bool `yaml:"allowed" json:"allowed"`

	// Reason is the human-readable justification, always present.
	Reason string `yaml:"reason" json:"reason"`

	// Constraints are optional execution limits applied before the action
	// runs. Ignored on deny rules.
	Constraints Constraints `yaml:"constraints,omitempty" json:"constraints,omitempty"`
}

// Document is the parsed policy source.
type Document struct {
	// Version is informational, carried through to introspection output.
	Version string `yaml:"version" json:"version"`

	// Description is optional free text about the policy set.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// DefaultPolicy is "allow" or "deny", applied when no rule matches.
	// Deny is the hard-coded fallback when the field is absent.
	DefaultPolicy string `yaml:"default_policy" json:"default_policy"`

	// DefaultReason explains default-policy decisions.
	DefaultReason string `yaml:"default_reason" json:"default_reason"`

	// Rules are evaluated in document order; first exact match wins.
	Rules []Rule `yaml:"rules" json:"rules"`
}

// Decision is the outcome of evaluating one intent against the rule set.
// Decisions are created fresh per evaluation and always travel with their
// intent into the audit log.
type Decision struct {
	// Allowed reports whether the action may proceed.
	Allowed bool `json:"allowed"`

	// Reason explains the decision, from the matched rule or the default
	// policy.
	Reason string `json:"reason"`

	// MatchedRule is the action symbol of the rule consulted, or
	// DefaultRuleName when no rule matched.
	MatchedRule string `json:"matched_rule"`

	// Constraints are carried through from the matched rule; empty when the
	// default policy decided or the rule had none.
	Constraints Constraints `json:"constraints,omitempty"`
}

// Info is a read-only projection of the active policy configuration, used
// for introspection and the CLI.
type Info struct {
	Version        string          `json:"version"`
	Description    string          `json:"description,omitempty"`
	RuleCount      int             `json:"rule_count"`
	DefaultPolicy  string          `json:"default_policy"`
	AllowedActions []intent.Action `json:"allowed_actions"`
	Source         string          `json:"source"`
}
