package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiterConfig configures the rate limiter.
type RateLimiterConfig struct {
	// Rate is the number of operations allowed per second.
	// Default: 100
	Rate float64

	// Burst is the maximum burst size.
	// Default: 10
	Burst int

	// WaitOnLimit waits for a token instead of returning an error.
	// Default: false
	WaitOnLimit bool

	// MaxWait is the maximum time to wait for a token.
	// Default: 1 second
	MaxWait time.Duration
}

// RateLimiter implements a token bucket rate limiter.
type RateLimiter struct {
	config RateLimiterConfig

	mu          sync.Mutex
	tokens      float64
	lastRefresh time.Time
	allowed     uint64
	limited     uint64
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 100
	}
	if config.Burst <= 0 {
		config.Burst = 10
	}
	if config.MaxWait <= 0 {
		config.MaxWait = time.Second
	}

	return &RateLimiter{
		config:      config,
		tokens:      float64(config.Burst),
		lastRefresh: time.Now(),
	}
}

// Allow checks if a request is allowed under the rate limit.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillLocked()

	if rl.tokens >= 1 {
		rl.tokens--
		rl.allowed++
		return true
	}

	rl.limited++
	return false
}

// Execute runs the operation if the rate limit allows it. With WaitOnLimit
// set, it waits up to MaxWait for a token instead of failing fast.
func (rl *RateLimiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if rl.Allow() {
		return op(ctx)
	}

	if !rl.config.WaitOnLimit {
		return ErrRateLimitExceeded
	}

	deadline := time.Now().Add(rl.config.MaxWait)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if rl.Allow() {
				return op(ctx)
			}
			if time.Now().After(deadline) {
				return ErrRateLimitExceeded
			}
		}
	}
}

// Stats returns rate limiter statistics.
func (rl *RateLimiter) Stats() map[string]any {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillLocked()

	return map[string]any{
		"rate":    rl.config.Rate,
		"burst":   rl.config.Burst,
		"tokens":  rl.tokens,
		"allowed": rl.allowed,
		"limited": rl.limited,
	}
}

// refillLocked adds tokens for elapsed time. Callers must hold mu.
func (rl *RateLimiter) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefresh).Seconds()
	rl.lastRefresh = now

	rl.tokens += elapsed * rl.config.Rate
	if rl.tokens > float64(rl.config.Burst) {
		rl.tokens = float64(rl.config.Burst)
	}
}
