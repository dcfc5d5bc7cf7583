package resilience

import (
	"context"
	"time"
)

// Executor composes the configured hardening patterns around an operation.
type Executor struct {
	circuitBreaker *CircuitBreaker
	retry          *Retry
	rateLimiter    *RateLimiter
	timeout        *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new hardening executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithCircuitBreaker adds a circuit breaker to the executor.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) {
		e.circuitBreaker = cb
	}
}

// WithRetry adds retry logic to the executor.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) {
		e.retry = r
	}
}

// WithRateLimiter adds rate limiting to the executor.
func WithRateLimiter(rl *RateLimiter) ExecutorOption {
	return func(e *Executor) {
		e.rateLimiter = rl
	}
}

// WithTimeout adds a per-operation timeout to the executor.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = NewTimeout(TimeoutConfig{Timeout: timeout})
	}
}

// Execute runs the operation through all configured patterns.
//
// The execution order is:
// 1. Rate Limiter (outermost) - limits request rate
// 2. Circuit Breaker - prevents hammering a failing engine
// 3. Retry - retries on failure
// 4. Timeout (innermost) - bounds each attempt
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	execute := op

	if e.timeout != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.timeout.Execute(ctx, inner)
		}
	}

	if e.retry != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.retry.Execute(ctx, inner)
		}
	}

	if e.circuitBreaker != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.circuitBreaker.Execute(ctx, inner)
		}
	}

	if e.rateLimiter != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.rateLimiter.Execute(ctx, inner)
		}
	}

	return execute(ctx)
}

// Stats returns a snapshot of every configured pattern's statistics. This
// is the hardening section of the agent's /metrics document.
func (e *Executor) Stats() map[string]any {
	stats := make(map[string]any, 4)

	if e.circuitBreaker != nil {
		stats["circuit_breaker"] = e.circuitBreaker.Stats()
	}
	if e.rateLimiter != nil {
		stats["rate_limiter"] = e.rateLimiter.Stats()
	}
	if e.retry != nil {
		stats["retry"] = e.retry.Stats()
	}
	if e.timeout != nil {
		stats["timeout"] = e.timeout.Stats()
	}

	return stats
}
