package policy

import (
	"log/slog"
	"sync"

	"airguard-hq/sentinel/pkg/intent"
)

// Store holds the active policy rule set and evaluates intents against it.
//
// The rule set behind a Store is an immutable snapshot guarded by a
// read-write lock: evaluations take the read lock, and Reload swaps in a
// fully-parsed replacement under the write lock, so readers never observe a
// partially-updated state.
type Store struct {
	source string
	logger *slog.Logger

	mu  sync.RWMutex
	doc *Document
}

// NewStore loads the policy document at path and returns a store over it.
// Construction fails with a *ConfigError when the source is absent,
// unparseable, or structurally invalid.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default().With("component", "policy.store")
	}

	doc, err := loadDocument(path)
	if err != nil {
		return nil, err
	}

	s := &Store{
		source: path,
		logger: logger,
		doc:    doc,
	}

	logger.Info("policy store loaded",
		"source", path,
		"version", doc.Version,
		"rule_count", len(doc.Rules),
		"default_policy", doc.DefaultPolicy,
	)

	return s, nil
}

// NewStoreFromDocument wraps an already-parsed document; used by tests and
// embedders that manage their own policy source.
func NewStoreFromDocument(doc *Document, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default().With("component", "policy.store")
	}
	if doc.DefaultPolicy == "" {
		doc.DefaultPolicy = fallbackDefaultPolicy
	}
	if doc.DefaultReason == "" {
		doc.DefaultReason = fallbackDefaultReason
	}
	return &Store{source: "memory", logger: logger, doc: doc}
}

// Evaluate checks the intent's action against the rule set and returns the
// decision. The first rule with an exact action match wins; when no rule
// matches, the default policy decides with MatchedRule set to
// DefaultRuleName. Evaluation is pure: the same intent against the same
// snapshot always yields an identical decision.
func (s *Store) Evaluate(in *intent.Intent) Decision {
	s.mu.RLock()
	doc := s.doc
	s.mu.RUnlock()

	for _, rule := range doc.Rules {
		if rule.Action == in.Action {
			return Decision{
				Allowed:     rule.Allowed,
				Reason:      rule.Reason,
				MatchedRule: string(rule.Action),
				Constraints: rule.Constraints,
			}
		}
	}

	return Decision{
		Allowed:     doc.DefaultPolicy == "allow",
		Reason:      doc.DefaultReason,
		MatchedRule: DefaultRuleName,
	}
}

// AllowedActions returns every action whose matching rule allows it, in
// rule order.
func (s *Store) AllowedActions() []intent.Action {
	s.mu.RLock()
	doc := s.doc
	s.mu.RUnlock()

	return allowedActions(doc)
}

func allowedActions(doc *Document) []intent.Action {
	var actions []intent.Action
	seen := make(map[intent.Action]bool)
	for _, rule := range doc.Rules {
		if seen[rule.Action] {
			// Only the first rule per action is reachable.
			continue
		}
		seen[rule.Action] = true
		if rule.Allowed {
			actions = append(actions, rule.Action)
		}
	}
	return actions
}

// Reload re-parses the policy source and atomically swaps the active rule
// set on success. On any parse or validation failure the previous rule set
// stays active and the error is returned as a *ReloadError; the store is
// never left partially updated.
func (s *Store) Reload() error {
	doc, err := loadDocument(s.source)
	if err != nil {
		s.logger.Warn("policy reload failed, keeping previous rule set",
			"source", s.source,
			"error", err,
		)
		return &ReloadError{Source: s.source, Cause: err}
	}

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()

	s.logger.Info("policy reloaded",
		"source", s.source,
		"version", doc.Version,
		"rule_count", len(doc.Rules),
	)

	return nil
}

// Info returns a projection of the active policy configuration.
func (s *Store) Info() Info {
	s.mu.RLock()
	doc := s.doc
	s.mu.RUnlock()

	return Info{
		Version:        doc.Version,
		Description:    doc.Description,
		RuleCount:      len(doc.Rules),
		DefaultPolicy:  doc.DefaultPolicy,
		AllowedActions: allowedActions(doc),
		Source:         s.source,
	}
}
