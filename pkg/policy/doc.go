// Package policy loads declarative allow/deny rules and evaluates classified
// intents against them.
//
// A policy document is a YAML (or JSON) file:
//
//	version: "1.0"
//	default_policy: deny
//	default_reason: "Action not explicitly allowed by security policy"
//	rules:
//	  - action: generate_report
//	    allowed: true
//	    reason: "Read-only reporting is safe"
//	    constraints:
//	      allowed_formats: [txt, json, pdf]
//	  - action: shutdown_factory
//	    allowed: false
//	    reason: "Critical infrastructure control requires human authorization"
//
// Rules are matched by exact, case-sensitive action symbol in document
// order; the first match wins. When no rule matches, the document's default
// policy applies, and when the document is silent on default_policy the
// store hard-codes deny. This is a closed-world, fail-safe design: an action
// is only executable if a rule (or an explicit default-allow) says so.
//
// The store treats a loaded rule set as an immutable snapshot. Reload parses
// the source completely before swapping it in, so concurrent evaluations
// never observe a partially-updated rule set, and a failed reload leaves the
// previous snapshot active. An optional fsnotify watcher hot-reloads the
// store when the policy file changes on disk.
package policy
