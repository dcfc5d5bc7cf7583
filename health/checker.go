package health

import (
	"context"
	"time"
)

// Status grades one monitored aspect of the agent.
type Status int

const (
	// StatusHealthy means the aspect is operating normally.
	StatusHealthy Status = iota
	// StatusDegraded means the aspect works but is outside its
	// comfortable range; it does not fail the agent.
	StatusDegraded
	// StatusUnhealthy means the aspect is broken. Any unhealthy check
	// fails the aggregate snapshot.
	StatusUnhealthy
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result is one checker's verdict at a point in time.
type Result struct {
	Status Status

	// Message explains the verdict in one line.
	Message string

	// Details carries checker-specific figures (sizes, counts).
	Details map[string]any

	// Duration is the check's execution time.
	Duration time.Duration

	// Timestamp is when the check ran.
	Timestamp time.Time

	// Error holds the underlying failure for unhealthy results.
	Error error
}

// Healthy builds a passing result.
func Healthy(message string) Result {
	return Result{
		Status:    StatusHealthy,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Degraded builds a degraded result.
func Degraded(message string) Result {
	return Result{
		Status:    StatusDegraded,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Unhealthy builds a failing result carrying the cause.
func Unhealthy(message string, err error) Result {
	return Result{
		Status:    StatusUnhealthy,
		Message:   message,
		Error:     err,
		Timestamp: time.Now(),
	}
}

// WithDetails attaches checker-specific figures to a result.
func (r Result) WithDetails(details map[string]any) Result {
	r.Details = details
	return r
}

// Checker probes one aspect of the running agent.
//
// Contract:
// - Check must honor ctx cancellation and never panic.
// - A Checker is invoked from the registry's monitor loop and from
//   on-demand checks; it must be safe for concurrent use.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

// CheckerFunc adapts a plain function to the Checker interface, for
// probes too small to deserve a type of their own.
type CheckerFunc struct {
	name string
	fn   func(context.Context) Result
}

// NewCheckerFunc wraps fn as a named Checker.
func NewCheckerFunc(name string, fn func(context.Context) Result) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

func (f *CheckerFunc) Name() string { return f.name }

func (f *CheckerFunc) Check(ctx context.Context) Result {
	return f.fn(ctx)
}
