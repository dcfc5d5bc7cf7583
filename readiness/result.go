package readiness

import (
	"context"
	"time"
)

// CheckResult is the outcome of one validation check. Immutable once
// produced by the runner.
type CheckResult struct {
	// Name identifies the check, unique within a run.
	Name string `json:"name"`

	// Success is true when the check passed.
	Success bool `json:"success"`

	// Message carries human-readable detail; may be empty on success.
	Message string `json:"message"`

	// Duration covers the check's execution window only.
	Duration time.Duration `json:"-"`

	// DurationSeconds is the serialized form of Duration.
	DurationSeconds float64 `json:"duration_seconds"`
}

// CheckFunc probes one precondition. It reports pass/fail with a
// message; a returned error also counts as a failure.
type CheckFunc func(ctx context.Context) (bool, string, error)

// Check pairs a name with the function that validates it.
type Check struct {
	Name string
	Fn   CheckFunc
}
