package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// RegistryConfig configures the health registry.
type RegistryConfig struct {
	// Interval is how often the background monitor refreshes the snapshot.
	// Default: 30 seconds
	Interval time.Duration

	// Timeout is the maximum time to wait for one round of checks.
	// Default: 10 seconds
	Timeout time.Duration

	// Parallel runs health checks in parallel when true.
	// Default: true
	Parallel bool
}

// Snapshot is the aggregate health state at one point in time.
type Snapshot struct {
	// Status is the worst status across all checks.
	Status Status

	// OverallHealthy is false only when at least one check is unhealthy.
	OverallHealthy bool

	// Timestamp is when the snapshot was taken.
	Timestamp time.Time

	// Individual maps checker name to its latest result.
	Individual map[string]Result
}

// Registry tracks health checkers and owns the background monitor that keeps
// a current Snapshot. Exactly one Registry should exist per process; its
// monitor is started and stopped by the lifecycle manager, never by requests.
type Registry struct {
	config RegistryConfig

	mu       sync.RWMutex
	checkers map[string]Checker
	order    []string
	snapshot *Snapshot
	running  bool
	stop     chan struct{}
	done     chan struct{}

	sf singleflight.Group
}

// NewRegistry creates a new health registry.
func NewRegistry(config ...RegistryConfig) *Registry {
	cfg := RegistryConfig{
		Interval: 30 * time.Second,
		Timeout:  10 * time.Second,
		Parallel: true,
	}
	if len(config) > 0 {
		cfg = config[0]
		if cfg.Interval <= 0 {
			cfg.Interval = 30 * time.Second
		}
		if cfg.Timeout <= 0 {
			cfg.Timeout = 10 * time.Second
		}
	}

	return &Registry{
		config:   cfg,
		checkers: make(map[string]Checker),
		order:    make([]string, 0),
	}
}

// Register adds a health checker to the registry.
func (r *Registry) Register(name string, checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.checkers[name]; !exists {
		r.order = append(r.order, name)
	}
	r.checkers[name] = checker
}

// Unregister removes a health checker from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.checkers, name)

	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// CheckerNames returns the names of all registered checkers.
func (r *Registry) CheckerNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Check runs a single named health check.
func (r *Registry) Check(ctx context.Context, name string) (Result, error) {
	r.mu.RLock()
	checker, ok := r.checkers[name]
	r.mu.RUnlock()

	if !ok {
		return Result{}, ErrCheckerNotFound
	}

	return r.runCheck(ctx, checker), nil
}

// CheckAll runs all registered health checks and returns the results.
func (r *Registry) CheckAll(ctx context.Context) map[string]Result {
	r.mu.RLock()
	checkers := make(map[string]Checker, len(r.checkers))
	for name, checker := range r.checkers {
		checkers[name] = checker
	}
	r.mu.RUnlock()

	if len(checkers) == 0 {
		return make(map[string]Result)
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	results := make(map[string]Result, len(checkers))

	if r.config.Parallel {
		var wg sync.WaitGroup
		var mu sync.Mutex

		for name, checker := range checkers {
			wg.Add(1)
			go func(name string, checker Checker) {
				defer wg.Done()
				result := r.runCheck(ctx, checker)
				mu.Lock()
				results[name] = result
				mu.Unlock()
			}(name, checker)
		}

		wg.Wait()
	} else {
		for name, checker := range checkers {
			results[name] = r.runCheck(ctx, checker)
		}
	}

	return results
}

// Refresh runs all checks and replaces the cached snapshot. Concurrent
// refreshes are collapsed into a single round of checks.
func (r *Registry) Refresh(ctx context.Context) Snapshot {
	v, _, _ := r.sf.Do("refresh", func() (any, error) {
		results := r.CheckAll(ctx)
		snap := newSnapshot(results)

		r.mu.Lock()
		r.snapshot = &snap
		r.mu.Unlock()

		return snap, nil
	})
	return v.(Snapshot)
}

// Snapshot returns the latest cached snapshot. ErrNoSnapshot is returned
// before the monitor (or an explicit Refresh) has produced one.
func (r *Registry) Snapshot() (Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.snapshot == nil {
		return Snapshot{}, ErrNoSnapshot
	}
	return *r.snapshot, nil
}

// Start begins the background monitor. Calling Start on a running registry
// is a no-op.
func (r *Registry) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	stop, done := r.stop, r.done
	r.mu.Unlock()

	// Take an initial snapshot so /health has data immediately.
	r.Refresh(ctx)

	go func() {
		defer close(done)
		ticker := time.NewTicker(r.config.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				r.Refresh(context.Background())
			}
		}
	}()

	return nil
}

// Stop halts the background monitor and waits for it to exit. Calling Stop
// on a stopped registry is a no-op.
func (r *Registry) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	stop, done := r.stop, r.done
	r.mu.Unlock()

	close(stop)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running reports whether the background monitor is active.
func (r *Registry) Running() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.running
}

func newSnapshot(results map[string]Result) Snapshot {
	status := StatusHealthy
	for _, result := range results {
		switch result.Status {
		case StatusUnhealthy:
			status = StatusUnhealthy
		case StatusDegraded:
			if status == StatusHealthy {
				status = StatusDegraded
			}
		}
	}

	return Snapshot{
		Status:         status,
		OverallHealthy: status != StatusUnhealthy,
		Timestamp:      time.Now(),
		Individual:     results,
	}
}

func (r *Registry) runCheck(ctx context.Context, checker Checker) Result {
	start := time.Now()

	resultCh := make(chan Result, 1)

	go func() {
		result := checker.Check(ctx)
		result.Duration = time.Since(start)
		if result.Timestamp.IsZero() {
			result.Timestamp = start
		}
		resultCh <- result
	}()

	select {
	case result := <-resultCh:
		return result
	case <-ctx.Done():
		return Result{
			Status:    StatusUnhealthy,
			Message:   "check timed out",
			Error:     ErrCheckTimeout,
			Duration:  time.Since(start),
			Timestamp: start,
		}
	}
}
