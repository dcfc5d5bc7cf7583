package observe

import (
	"runtime"
	"sync/atomic"
	"time"
)

// PerfStats tracks coarse process-level performance counters for the
// metrics endpoint. Request counters are updated by middleware on every
// request; the runtime figures are sampled at snapshot time.
type PerfStats struct {
	start time.Time

	requests atomic.Int64
	errors   atomic.Int64

	// totalDurationUS accumulates request latency in microseconds so the
	// snapshot can report a mean without keeping a histogram.
	totalDurationUS atomic.Int64
}

// NewPerfStats creates a PerfStats anchored at the current time.
func NewPerfStats() *PerfStats {
	return &PerfStats{start: time.Now()}
}

// RecordRequest registers one completed request.
func (p *PerfStats) RecordRequest(duration time.Duration, failed bool) {
	p.requests.Add(1)
	p.totalDurationUS.Add(duration.Microseconds())
	if failed {
		p.errors.Add(1)
	}
}

// Snapshot returns the current performance figures as a document
// suitable for JSON rendering.
func (p *PerfStats) Snapshot() map[string]any {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	requests := p.requests.Load()
	errCount := p.errors.Load()

	avgMS := 0.0
	if requests > 0 {
		avgMS = float64(p.totalDurationUS.Load()) / float64(requests) / 1000.0
	}

	errorRate := 0.0
	if requests > 0 {
		errorRate = float64(errCount) / float64(requests)
	}

	return map[string]any{
		"uptime_seconds":      time.Since(p.start).Seconds(),
		"request_count":       requests,
		"error_count":         errCount,
		"error_rate":          errorRate,
		"avg_request_ms":      avgMS,
		"goroutines":          runtime.NumGoroutine(),
		"heap_alloc_bytes":    mem.HeapAlloc,
		"heap_objects":        mem.HeapObjects,
		"gc_cycles":           mem.NumGC,
		"gc_pause_total_ms":   float64(mem.PauseTotalNs) / 1e6,
		"last_gc_unix_millis": int64(mem.LastGC / 1e6),
	}
}
