package observe

import (
	"testing"
	"time"
)

func TestPerfStatsSnapshot(t *testing.T) {
	p := NewPerfStats()

	p.RecordRequest(10*time.Millisecond, false)
	p.RecordRequest(30*time.Millisecond, true)

	snap := p.Snapshot()

	if got := snap["request_count"].(int64); got != 2 {
		t.Errorf("request_count = %d, want 2", got)
	}
	if got := snap["error_count"].(int64); got != 1 {
		t.Errorf("error_count = %d, want 1", got)
	}
	if got := snap["error_rate"].(float64); got != 0.5 {
		t.Errorf("error_rate = %f, want 0.5", got)
	}
	if got := snap["avg_request_ms"].(float64); got < 19 || got > 21 {
		t.Errorf("avg_request_ms = %f, want ~20", got)
	}
	if got := snap["goroutines"].(int); got < 1 {
		t.Errorf("goroutines = %d, want >= 1", got)
	}
}

func TestPerfStatsEmpty(t *testing.T) {
	p := NewPerfStats()
	snap := p.Snapshot()

	if got := snap["request_count"].(int64); got != 0 {
		t.Errorf("request_count = %d, want 0", got)
	}
	if got := snap["error_rate"].(float64); got != 0 {
		t.Errorf("error_rate = %f, want 0", got)
	}
	if got := snap["avg_request_ms"].(float64); got != 0 {
		t.Errorf("avg_request_ms = %f, want 0", got)
	}
}
