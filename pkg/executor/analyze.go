package executor

import (
	"fmt"
	"math"

	"airguard-hq/sentinel/pkg/enforce"
)

// AQI category breakpoints (CPCB scale).
const (
	aqiGoodMax         = 50
	aqiSatisfactoryMax = 100
	aqiModerateMax     = 200
	aqiPoorMax         = 300
	aqiVeryPoorMax     = 400
)

// aqiCategory maps an AQI value to its category name.
func aqiCategory(aqi float64) string {
	switch {
	case aqi <= aqiGoodMax:
		return "Good"
	case aqi <= aqiSatisfactoryMax:
		return "Satisfactory"
	case aqi <= aqiModerateMax:
		return "Moderate"
	case aqi <= aqiPoorMax:
		return "Poor"
	case aqi <= aqiVeryPoorMax:
		return "Very Poor"
	default:
		return "Severe"
	}
}

// analyzeAQI computes summary statistics over the stored readings,
// optionally filtered to the intent's location parameter.
func (e *Executor) analyzeAQI(req *enforce.Request) (*enforce.Outcome, error) {
	maxFileBytes := int64(0)
	if mb, ok := constraintInt(req, enforce.ConstraintMaxFileSizeMB); ok {
		maxFileBytes = int64(mb) << 20
	}

	readings, err := e.loadReadings(maxFileBytes)
	if err != nil {
		return failedOutcome(fmt.Sprintf("analysis failed: %v", err), nil), nil
	}

	location, _ := paramString(req, "location")
	readings = filterByLocation(readings, location)
	if len(readings) == 0 {
		return failedOutcome("no readings available for analysis", map[string]any{
			"location": location,
		}), nil
	}

	if limit, ok := constraintInt(req, enforce.ConstraintMaxDataPoints); ok && len(readings) > limit {
		return failedOutcome(fmt.Sprintf("analysis requires %d data points, exceeding the limit of %d", len(readings), limit), map[string]any{
			"data_points": len(readings),
			"limit":       limit,
		}), nil
	}

	stats := summarize(readings)
	scope := location
	if scope == "" {
		scope = "all locations"
	}

	e.logger.Info("analysis complete",
		"location", scope,
		"data_points", stats["data_points"],
		"average_aqi", stats["average_aqi"],
	)

	return &enforce.Outcome{
		Success: true,
		Message: fmt.Sprintf("AQI analysis complete for %s", scope),
		Data:    stats,
	}, nil
}

// summarize computes min, max, and mean AQI plus the category of the mean.
func summarize(readings []Reading) map[string]any {
	minAQI := readings[0].AQI
	maxAQI := readings[0].AQI
	sum := 0.0
	for _, r := range readings {
		if r.AQI < minAQI {
			minAQI = r.AQI
		}
		if r.AQI > maxAQI {
			maxAQI = r.AQI
		}
		sum += r.AQI
	}
	avg := math.Round(sum/float64(len(readings))*100) / 100

	return map[string]any{
		"data_points": len(readings),
		"min_aqi":     minAQI,
		"max_aqi":     maxAQI,
		"average_aqi": avg,
		"category":    aqiCategory(avg),
	}
}
