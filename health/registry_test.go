package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.config.Interval != 30*time.Second {
		t.Errorf("Default interval = %v, want 30s", reg.config.Interval)
	}
	if reg.config.Timeout != 10*time.Second {
		t.Errorf("Default timeout = %v, want 10s", reg.config.Timeout)
	}
	if !reg.config.Parallel {
		t.Error("Default Parallel should be true")
	}
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()

	reg.Register("test", NewCheckerFunc("test", func(ctx context.Context) Result {
		return Healthy("ok")
	}))

	names := reg.CheckerNames()
	if len(names) != 1 {
		t.Fatalf("Expected 1 checker, got %d", len(names))
	}
	if names[0] != "test" {
		t.Errorf("Checker name = %v, want 'test'", names[0])
	}
}

func TestRegistry_Unregister(t *testing.T) {
	reg := NewRegistry()

	reg.Register("test", NewCheckerFunc("test", func(ctx context.Context) Result {
		return Healthy("ok")
	}))
	reg.Unregister("test")

	if len(reg.CheckerNames()) != 0 {
		t.Errorf("Expected 0 checkers, got %d", len(reg.CheckerNames()))
	}
}

func TestRegistry_CheckNotFound(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Check(context.Background(), "nonexistent")
	if err != ErrCheckerNotFound {
		t.Errorf("Check() error = %v, want ErrCheckerNotFound", err)
	}
}

func TestRegistry_Refresh(t *testing.T) {
	reg := NewRegistry()

	reg.Register("healthy", NewCheckerFunc("healthy", func(ctx context.Context) Result {
		return Healthy("ok")
	}))
	reg.Register("degraded", NewCheckerFunc("degraded", func(ctx context.Context) Result {
		return Degraded("slow")
	}))

	snap := reg.Refresh(context.Background())

	if snap.Status != StatusDegraded {
		t.Errorf("Snapshot status = %v, want StatusDegraded", snap.Status)
	}
	if !snap.OverallHealthy {
		t.Error("Degraded snapshot should still report OverallHealthy")
	}
	if len(snap.Individual) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(snap.Individual))
	}
}

func TestRegistry_RefreshUnhealthy(t *testing.T) {
	reg := NewRegistry()

	reg.Register("broken", NewCheckerFunc("broken", func(ctx context.Context) Result {
		return Unhealthy("down", ErrCheckFailed)
	}))

	snap := reg.Refresh(context.Background())

	if snap.Status != StatusUnhealthy {
		t.Errorf("Snapshot status = %v, want StatusUnhealthy", snap.Status)
	}
	if snap.OverallHealthy {
		t.Error("Unhealthy snapshot should not report OverallHealthy")
	}
}

func TestRegistry_SnapshotBeforeRefresh(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Snapshot()
	if !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Snapshot() error = %v, want ErrNoSnapshot", err)
	}
}

func TestRegistry_StartStop(t *testing.T) {
	reg := NewRegistry(RegistryConfig{Interval: 10 * time.Millisecond})

	reg.Register("test", NewCheckerFunc("test", func(ctx context.Context) Result {
		return Healthy("ok")
	}))

	ctx := context.Background()
	if err := reg.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !reg.Running() {
		t.Error("Registry should be running after Start")
	}

	// Start produced an initial snapshot synchronously.
	if _, err := reg.Snapshot(); err != nil {
		t.Errorf("Snapshot() after Start error = %v", err)
	}

	if err := reg.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if reg.Running() {
		t.Error("Registry should not be running after Stop")
	}
}

func TestRegistry_StartStopIdempotent(t *testing.T) {
	reg := NewRegistry(RegistryConfig{Interval: time.Minute})
	ctx := context.Background()

	if err := reg.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := reg.Start(ctx); err != nil {
		t.Fatalf("Second Start() error = %v", err)
	}
	if err := reg.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := reg.Stop(ctx); err != nil {
		t.Fatalf("Second Stop() error = %v", err)
	}
}

func TestRegistry_CheckTimeout(t *testing.T) {
	reg := NewRegistry(RegistryConfig{Timeout: 20 * time.Millisecond})

	reg.Register("slow", NewCheckerFunc("slow", func(ctx context.Context) Result {
		select {
		case <-time.After(time.Second):
			return Healthy("ok")
		case <-ctx.Done():
			return Unhealthy("cancelled", ctx.Err())
		}
	}))

	results := reg.CheckAll(context.Background())
	if results["slow"].Status != StatusUnhealthy {
		t.Errorf("Slow check status = %v, want StatusUnhealthy", results["slow"].Status)
	}
}
