package resilience

import (
	"context"
	"sync/atomic"
	"time"
)

// TimeoutConfig configures the timeout wrapper.
type TimeoutConfig struct {
	// Timeout is the maximum duration for the operation.
	// Default: 30 seconds
	Timeout time.Duration
}

// Timeout wraps operations with a deadline.
type Timeout struct {
	config   TimeoutConfig
	timeouts atomic.Uint64
}

// NewTimeout creates a new timeout wrapper.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &Timeout{config: config}
}

// Execute runs the operation with a timeout.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	done := make(chan error, 1)

	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			t.timeouts.Add(1)
			return ErrTimeout
		}
		return ctx.Err()
	}
}

// Stats returns timeout statistics.
func (t *Timeout) Stats() map[string]any {
	return map[string]any{
		"timeout_ms": t.config.Timeout.Milliseconds(),
		"timeouts":   t.timeouts.Load(),
	}
}
