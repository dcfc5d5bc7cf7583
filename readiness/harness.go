package readiness

import (
	"context"
	"time"

	"github.com/jonwraymond/drpet/observe"
)

// Harness runs an ordered list of checks and aggregates the outcome.
// Checks never short-circuit: every check runs even after failures so
// the report covers the whole environment in one pass.
type Harness struct {
	runner  *Runner
	printer *Printer
	logger  observe.Logger
}

// HarnessOption configures a Harness.
type HarnessOption func(*Harness)

// WithPrinter overrides the default stdout printer.
func WithPrinter(p *Printer) HarnessOption {
	return func(h *Harness) {
		if p != nil {
			h.printer = p
		}
	}
}

// NewHarness creates a harness logging through the given logger.
func NewHarness(logger observe.Logger, opts ...HarnessOption) *Harness {
	if logger == nil {
		logger = observe.NopLogger()
	}

	h := &Harness{
		runner:  NewRunner(logger),
		printer: NewPrinter(),
		logger:  logger.WithComponent("harness"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Validate runs every check in order and returns the aggregate report.
// Checks are independent; order matters only for the printed output.
func (h *Harness) Validate(ctx context.Context, checks []Check) Report {
	h.printer.Banner("Production Readiness Validation")

	start := time.Now()
	results := make([]CheckResult, 0, len(checks))

	for _, check := range checks {
		result := h.runner.Run(ctx, check.Name, check.Fn)
		results = append(results, result)
		h.printer.Result(result)
	}

	report := NewReport(results, time.Since(start))
	h.printer.Summary(report)

	h.logger.Info(ctx, "validation run complete",
		observe.Field{Key: "checks", Value: len(results)},
		observe.Field{Key: "overall_success", Value: report.OverallSuccess},
	)
	return report
}
