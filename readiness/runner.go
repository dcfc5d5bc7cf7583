package readiness

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/drpet/observe"
)

// Runner executes checks one at a time, converting every failure mode
// into a CheckResult.
type Runner struct {
	logger observe.Logger
}

// NewRunner creates a Runner logging through the given logger.
func NewRunner(logger observe.Logger) *Runner {
	if logger == nil {
		logger = observe.NopLogger()
	}
	return &Runner{logger: logger.WithComponent("readiness")}
}

// Run executes one check. Errors and panics become failed results with
// the failure text; they are never propagated. Timing is measured
// around the check call on every path.
func (r *Runner) Run(ctx context.Context, name string, fn CheckFunc) (result CheckResult) {
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			result = finish(name, start, false, fmt.Sprintf("check panicked: %v", rec))
			r.logger.Error(ctx, "check panicked",
				observe.Field{Key: "check", Value: name},
				observe.Field{Key: "panic", Value: fmt.Sprintf("%v", rec)},
			)
		}
	}()

	r.logger.Debug(ctx, "running check", observe.Field{Key: "check", Value: name})

	ok, msg, err := fn(ctx)
	if err != nil {
		if msg == "" {
			msg = err.Error()
		} else {
			msg = fmt.Sprintf("%s: %v", msg, err)
		}
		ok = false
	}

	if !ok {
		r.logger.Warn(ctx, "check failed",
			observe.Field{Key: "check", Value: name},
			observe.Field{Key: "message", Value: msg},
		)
	}

	return finish(name, start, ok, msg)
}

func finish(name string, start time.Time, ok bool, msg string) CheckResult {
	elapsed := time.Since(start)
	return CheckResult{
		Name:            name,
		Success:         ok,
		Message:         msg,
		Duration:        elapsed,
		DurationSeconds: elapsed.Seconds(),
	}
}
