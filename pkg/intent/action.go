package intent

// Action identifies the typed operation a classified command maps to.
// Using a named type instead of raw strings means a mistyped action is a
// compile error in code and an explicit mismatch in policy files, never a
// silent fall-through.
type Action string

const (
	// ActionGenerateReport creates a pollution report for a location.
	ActionGenerateReport Action = "generate_report"

	// ActionAnalyzeAQI analyzes air quality index data.
	ActionAnalyzeAQI Action = "analyze_aqi"

	// ActionSendAlert sends a pollution alert with a severity level.
	ActionSendAlert Action = "send_alert"

	// ActionShutdownFactory halts factory operations. Denied by the default
	// policy shipped with the system.
	ActionShutdownFactory Action = "shutdown_factory"

	// ActionIssueFine issues a fine to a polluter. Denied by the default
	// policy shipped with the system.
	ActionIssueFine Action = "issue_fine"

	// ActionUnknown is produced when no pattern matches the input.
	ActionUnknown Action = "unknown"

	// ActionError is produced for empty, whitespace-only, or absent input.
	ActionError Action = "error"
)

// KnownActions returns the pattern-backed actions in registration order.
func KnownActions() []Action {
	return []Action{
		ActionGenerateReport,
		ActionAnalyzeAQI,
		ActionSendAlert,
		ActionShutdownFactory,
		ActionIssueFine,
	}
}

// String returns the action symbol.
func (a Action) String() string {
	return string(a)
}

// Known reports whether the action is one of the pattern-backed actions,
// as opposed to the ActionUnknown/ActionError sentinels.
func (a Action) Known() bool {
	switch a {
	case ActionGenerateReport, ActionAnalyzeAQI, ActionSendAlert,
		ActionShutdownFactory, ActionIssueFine:
		return true
	}
	return false
}
