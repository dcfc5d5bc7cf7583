// Package engine provides the built-in whitepaper and service analysis
// engines. Both satisfy the analysis.Engine contract: they score a caller
// document against RPO/RTO targets and return a result document carrying
// an overall_score between 0 and 100.
package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnparsableTarget indicates a recovery target string could not be parsed.
var ErrUnparsableTarget = errors.New("engine: unparsable recovery target")

// parseTarget converts a human recovery target such as "1 hour", "30 minutes",
// or "90 seconds" into a duration. Bare durations ("4h", "30m") also parse.
func parseTarget(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrUnparsableTarget)
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrUnparsableTarget, s)
	}

	n, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparsableTarget, s)
	}

	var unit time.Duration
	switch strings.TrimSuffix(fields[1], "s") {
	case "second", "sec":
		unit = time.Second
	case "minute", "min":
		unit = time.Minute
	case "hour", "hr":
		unit = time.Hour
	case "day":
		unit = 24 * time.Hour
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnparsableTarget, s)
	}

	return time.Duration(n * float64(unit)), nil
}

// boolAttr reads a boolean attribute from a document, tolerating absent keys.
func boolAttr(doc map[string]any, key string) bool {
	v, ok := doc[key].(bool)
	return ok && v
}

// numAttr reads a numeric attribute from a document, defaulting to 0.
func numAttr(doc map[string]any, key string) float64 {
	switch v := doc[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// clampScore bounds a score to the 0-100 range.
func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
