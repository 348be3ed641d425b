package intent

import (
	"regexp"
	"strings"
)

// Parameter extraction patterns. Locations come from prepositional phrases
// ("in Delhi", "for Mumbai"); severity terms are normalized through a fixed
// synonym table; filenames are anchored on a known extension.
var (
	locationPattern = regexp.MustCompile(`\b(?:in|for|at|from)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\b`)
	severityPattern = regexp.MustCompile(`(?i)\b(info|information|warning|critical|severe|high|low)\b`)
	filenamePattern = regexp.MustCompile(`\b([a-zA-Z0-9_-]+\.(?:json|csv|txt|pdf))\b`)
)

// knownPlaces is a small gazetteer consulted when no prepositional phrase
// names a location.
var knownPlaces = []string{
	"Delhi", "Mumbai", "Bangalore", "Chennai", "Kolkata",
	"Hyderabad", "Pune", "Ahmedabad", "Jaipur", "Lucknow",
	"Mayapuri", "Noida", "Gurgaon",
}

// Severity levels an alert can carry after normalization.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// extractParameters pulls action-specific parameters out of the command.
func (c *Classifier) extractParameters(text string, action Action) map[string]any {
	params := make(map[string]any)

	if location := extractLocation(text); location != "" {
		params["location"] = location
	}

	switch action {
	case ActionSendAlert:
		// Alerts always carry a severity; unstated severity defaults to
		// warning rather than failing the command.
		severity := extractSeverity(text)
		if severity == "" {
			severity = SeverityWarning
		}
		params["severity"] = severity

	case ActionGenerateReport:
		if filename := extractFilename(text); filename != "" {
			params["filename"] = filename
		}
	}

	return params
}

// extractLocation finds a location via prepositional phrase first, then
// falls back to a case-insensitive scan of the gazetteer.
func extractLocation(text string) string {
	if m := locationPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}

	lower := strings.ToLower(text)
	for _, place := range knownPlaces {
		if strings.Contains(lower, strings.ToLower(place)) {
			return place
		}
	}

	return ""
}

// extractSeverity normalizes free-text severity terms into exactly one of
// info, warning, or critical. Returns "" when no severity term is present.
func extractSeverity(text string) string {
	m := severityPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}

	switch strings.ToLower(m[1]) {
	case "info", "information", "low":
		return SeverityInfo
	case "warning":
		return SeverityWarning
	case "critical", "severe", "high":
		return SeverityCritical
	}
	return ""
}

// extractFilename finds an extension-anchored filename in the command.
func extractFilename(text string) string {
	if m := filenamePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}
