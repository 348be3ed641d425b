package intent

import (
	"log/slog"
	"math"
	"regexp"
	"strings"
	"time"
)

// patternMatcher is one entry in the ordered classification table. Matchers
// are evaluated in registration order; on a confidence tie the earlier
// matcher wins, so classification is fully deterministic.
type patternMatcher struct {
	action         Action
	pattern        *regexp.Regexp
	baseConfidence float64
}

// defaultMatchers is the static classification table. Each action registers
// several phrasings with a declared base confidence; the control actions
// (shutdown, fine) carry a higher base so that their phrasing is recognized
// decisively even in short commands.
var defaultMatchers = []patternMatcher{
	{ActionGenerateReport, regexp.MustCompile(`(?i)\b(generate|create|make|produce)\s+(a\s+)?(pollution\s+)?report\b`), 0.9},
	{ActionGenerateReport, regexp.MustCompile(`(?i)\breport\s+(for|about|on)\b`), 0.9},
	{ActionAnalyzeAQI, regexp.MustCompile(`(?i)\b(analyze|analyse|check|examine|review)\s+(aqi|air\s+quality)\b`), 0.9},
	{ActionAnalyzeAQI, regexp.MustCompile(`(?i)\b(aqi|air\s+quality)\s+(analysis|check|data)\b`), 0.9},
	{ActionAnalyzeAQI, regexp.MustCompile(`(?i)\b(analyze|analyse|check)\s+(pollution|air)\b`), 0.9},
	{ActionSendAlert, regexp.MustCompile(`(?i)\b(send|issue|broadcast|trigger)\s+(an?\s+)?(info|warning|critical|high|low)?\s*(priority\s+)?alert\b`), 0.9},
	{ActionSendAlert, regexp.MustCompile(`(?i)\balert\s+(about|for|regarding)\b`), 0.9},
	{ActionSendAlert, regexp.MustCompile(`(?i)\bnotify\s+(about|of)\b`), 0.9},
	{ActionShutdownFactory, regexp.MustCompile(`(?i)\b(shutdown|shut\s+down|close|stop)\s+(the\s+)?factory\b`), 0.95},
	{ActionShutdownFactory, regexp.MustCompile(`(?i)\bfactory\s+(shutdown|closure)\b`), 0.95},
	{ActionShutdownFactory, regexp.MustCompile(`(?i)\bhalt\s+(factory|production)\b`), 0.95},
	{ActionIssueFine, regexp.MustCompile(`(?i)\b(issue|impose|levy|give)\s+(a\s+)?fine\b`), 0.95},
	{ActionIssueFine, regexp.MustCompile(`(?i)\bfine\s+(for|to)\b`), 0.95},
	{ActionIssueFine, regexp.MustCompile(`(?i)\b(penalty|penalize)\b`), 0.95},
}

// Classifier maps raw command text to typed intents using the ordered
// pattern table. It is stateless and safe for concurrent use.
type Classifier struct {
	matchers []patternMatcher
	logger   *slog.Logger
	now      func() time.Time
}

// NewClassifier creates a classifier with the default pattern table.
func NewClassifier(logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default().With("component", "intent.classifier")
	}
	return &Classifier{
		matchers: defaultMatchers,
		logger:   logger,
		now:      time.Now,
	}
}

// Classify converts command text into an Intent. It never returns nil and
// never fails: unmatched input yields ActionUnknown with confidence 0.0,
// and empty or whitespace-only input yields ActionError with confidence 0.0
// and an explanatory parameter.
func (c *Classifier) Classify(text string) *Intent {
	normalized := strings.TrimSpace(text)
	if normalized == "" {
		return c.errorIntent(text, "empty or whitespace-only command")
	}

	action, confidence := c.matchAction(normalized)
	params := c.extractParameters(normalized, action)

	in, err := New(action, params, c.now(), text, confidence)
	if err != nil {
		// Unreachable with a well-formed table; kept as a hard guard so a
		// broken matcher can never emit an invalid intent.
		c.logger.Error("classifier produced invalid intent", "error", err, "action", action)
		return c.errorIntent(text, err.Error())
	}

	c.logger.Debug("command classified",
		"action", in.Action,
		"confidence", in.Confidence,
		"parameters", len(in.Parameters),
	)

	return in
}

// matchAction runs the ordered pattern table against the normalized text and
// returns the single highest-confidence action. Ties keep the earlier
// registration.
func (c *Classifier) matchAction(text string) (Action, float64) {
	var (
		best           Action
		bestConfidence float64
	)

	for _, m := range c.matchers {
		loc := m.pattern.FindStringIndex(text)
		if loc == nil {
			continue
		}

		confidence := refineConfidence(text, loc[0], loc[1]-loc[0], m.baseConfidence)
		if confidence > bestConfidence {
			bestConfidence = confidence
			best = m.action
		}
	}

	if best == "" {
		return ActionUnknown, 0.0
	}
	return best, bestConfidence
}

// refineConfidence adjusts the matcher's base confidence by match quality:
// up to +0.05 for matches starting earlier in the text and up to +0.05 for
// matches covering a larger fraction of the text, clamped to 1.0. The result
// is rounded to two decimals so equal-quality matches compare exactly.
func refineConfidence(text string, start, matchLen int, base float64) float64 {
	length := float64(len(text))

	confidence := base

	positionBonus := (1.0 - float64(start)/length) * 0.05
	confidence = math.Min(1.0, confidence+positionBonus)

	coverageBonus := (float64(matchLen) / length) * 0.05
	confidence = math.Min(1.0, confidence+coverageBonus)

	return math.Round(confidence*100) / 100
}

// errorIntent builds the ActionError intent for unparseable input.
func (c *Classifier) errorIntent(source, reason string) *Intent {
	return &Intent{
		Action:     ActionError,
		Parameters: map[string]any{"error": reason},
		Timestamp:  c.now(),
		SourceText: source,
		Confidence: 0.0,
	}
}
