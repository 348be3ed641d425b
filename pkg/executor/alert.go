package executor

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"airguard-hq/sentinel/pkg/enforce"
	"airguard-hq/sentinel/pkg/intent"
)

// sendAlert dispatches a pollution alert. Delivery is a structured log
// entry; the outcome carries the alert envelope so callers can relay it.
func (e *Executor) sendAlert(req *enforce.Request) (*enforce.Outcome, error) {
	location, ok := paramString(req, "location")
	if !ok || location == "" {
		location = "all monitored regions"
	}
	severity, ok := paramString(req, "severity")
	if !ok || severity == "" {
		severity = intent.SeverityWarning
	}
	message, ok := paramString(req, "message")
	if !ok || message == "" {
		message = fmt.Sprintf("Air quality alert for %s", location)
	}

	alertID := uuid.New().String()
	dispatchedAt := e.now().UTC()

	e.logger.Warn("alert dispatched",
		"alert_id", alertID,
		"location", location,
		"severity", severity,
		"message", message,
	)

	return &enforce.Outcome{
		Success: true,
		Message: fmt.Sprintf("Alert sent for %s (severity: %s)", location, severity),
		Data: map[string]any{
			"alert_id":      alertID,
			"location":      location,
			"severity":      severity,
			"message":       message,
			"dispatched_at": dispatchedAt.Format(time.RFC3339),
		},
	}, nil
}
