// Package resilience provides the hardening layer wrapped around analysis
// engine calls: circuit breaking, rate limiting, retry with backoff, and
// timeouts. The Executor composes the configured patterns and exposes a
// Stats snapshot for the metrics surface.
//
// # Basic Usage
//
//	exec := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{})),
//	    resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{Rate: 50})),
//	    resilience.WithTimeout(30*time.Second),
//	)
//
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return engine.Analyze(ctx, payload, rpo, rto)
//	})
package resilience
