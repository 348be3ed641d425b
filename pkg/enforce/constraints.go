package enforce

import (
	"fmt"
	"strings"

	"airguard-hq/sentinel/pkg/intent"
	"airguard-hq/sentinel/pkg/policy"
)

// Constraint names understood by the gate. Limits with no corresponding
// intent parameter (max_file_size_mb, max_data_points) are not checkable
// here; they travel to the executor on the Request and are honored there.
const (
	ConstraintAllowedFormats    = "allowed_formats"
	ConstraintAllowedMetrics    = "allowed_metrics"
	ConstraintAllowedSeverities = "allowed_severity_levels"
	ConstraintMaxMessageLength  = "max_message_length"
	ConstraintMaxFileSizeMB     = "max_file_size_mb"
	ConstraintMaxDataPoints     = "max_data_points"
)

// checkConstraints validates the intent's parameters against the matched
// rule's constraints. The first violation aborts with a *ConstraintError;
// passing constraints do not modify the intent.
func checkConstraints(in *intent.Intent, constraints policy.Constraints) error {
	if len(constraints) == 0 {
		return nil
	}

	if formats, ok := stringList(constraints[ConstraintAllowedFormats]); ok {
		if format, present := stringParam(in, "format"); present && !contains(formats, format) {
			return &ConstraintError{
				Constraint: ConstraintAllowedFormats,
				Detail:     fmt.Sprintf("format %q not allowed (allowed: %s)", format, strings.Join(formats, ", ")),
			}
		}
	}

	if metrics, ok := stringList(constraints[ConstraintAllowedMetrics]); ok {
		if requested, present := stringListParam(in, "metrics"); present {
			for _, metric := range requested {
				if !contains(metrics, metric) {
					return &ConstraintError{
						Constraint: ConstraintAllowedMetrics,
						Detail:     fmt.Sprintf("metric %q not allowed (allowed: %s)", metric, strings.Join(metrics, ", ")),
					}
				}
			}
		}
	}

	if levels, ok := stringList(constraints[ConstraintAllowedSeverities]); ok {
		if severity, present := stringParam(in, "severity"); present && !contains(levels, severity) {
			return &ConstraintError{
				Constraint: ConstraintAllowedSeverities,
				Detail:     fmt.Sprintf("severity level %q not allowed (allowed: %s)", severity, strings.Join(levels, ", ")),
			}
		}
	}

	if limit, ok := intValue(constraints[ConstraintMaxMessageLength]); ok {
		if message, present := stringParam(in, "message"); present && len(message) > limit {
			return &ConstraintError{
				Constraint: ConstraintMaxMessageLength,
				Detail:     fmt.Sprintf("message exceeds maximum length of %d characters (current length: %d)", limit, len(message)),
			}
		}
	}

	return nil
}

// stringParam fetches a string-typed intent parameter.
func stringParam(in *intent.Intent, key string) (string, bool) {
	value, ok := in.Parameters[key]
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// stringListParam fetches a list-of-strings intent parameter.
func stringListParam(in *intent.Intent, key string) ([]string, bool) {
	value, ok := in.Parameters[key]
	if !ok {
		return nil, false
	}
	return stringList(value)
}

// stringList coerces a constraint or parameter value into []string. YAML
// decodes lists as []any, JSON round-trips the same way, and tests often
// use []string directly.
func stringList(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// intValue coerces a numeric constraint value into an int.
func intValue(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// contains reports whether list includes s.
func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
