// Package health provides the agent's health monitoring subsystem.
//
// A Checker is any component that can report its health status; Status is
// one of Healthy, Degraded, or Unhealthy. The Registry tracks checkers and
// runs a background monitor that keeps an aggregate Snapshot current.
//
// # Basic Usage
//
//	reg := health.NewRegistry(health.RegistryConfig{Interval: 30 * time.Second})
//	reg.Register("memory", health.NewMemoryChecker(health.MemoryCheckerConfig{}))
//	reg.Register("goroutines", health.NewGoroutineChecker(health.GoroutineCheckerConfig{}))
//
//	// Started by the lifecycle manager before the server accepts traffic.
//	if err := reg.Start(ctx); err != nil {
//	    return err
//	}
//	defer reg.Stop(ctx)
//
//	snap, err := reg.Snapshot()
//	if err == nil && !snap.OverallHealthy {
//	    log.Printf("unhealthy: %v", snap.Individual)
//	}
//
// The monitor's start/stop is owned exclusively by the lifecycle manager;
// request handlers only read the cached Snapshot.
package health
