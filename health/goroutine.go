package health

import (
	"context"
	"fmt"
	"runtime"
)

// GoroutineCheckerConfig configures the goroutine health checker.
type GoroutineCheckerConfig struct {
	// WarningThreshold is the goroutine count that triggers degraded status.
	// Default: 1000
	WarningThreshold int

	// CriticalThreshold is the goroutine count that triggers unhealthy status.
	// Default: 5000
	CriticalThreshold int
}

// GoroutineChecker flags runaway goroutine growth, the usual symptom of a
// leaked monitor loop or stuck engine call.
type GoroutineChecker struct {
	config GoroutineCheckerConfig
}

// NewGoroutineChecker creates a new goroutine health checker.
func NewGoroutineChecker(config GoroutineCheckerConfig) *GoroutineChecker {
	if config.WarningThreshold <= 0 {
		config.WarningThreshold = 1000
	}
	if config.CriticalThreshold <= config.WarningThreshold {
		config.CriticalThreshold = config.WarningThreshold * 5
	}

	return &GoroutineChecker{config: config}
}

// Name returns the name of this checker.
func (g *GoroutineChecker) Name() string {
	return "goroutines"
}

// Check performs the goroutine health check.
func (g *GoroutineChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	count := runtime.NumGoroutine()
	details := map[string]any{"count": count}

	if count >= g.config.CriticalThreshold {
		return Unhealthy(
			fmt.Sprintf("goroutine count critical: %d", count),
			ErrCheckFailed,
		).WithDetails(details)
	}

	if count >= g.config.WarningThreshold {
		return Degraded(
			fmt.Sprintf("goroutine count high: %d", count),
		).WithDetails(details)
	}

	return Healthy(
		fmt.Sprintf("goroutine count normal: %d", count),
	).WithDetails(details)
}
