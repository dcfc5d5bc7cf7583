// Package alert provides the agent's alert monitoring subsystem. The
// Manager watches health snapshots and raises an alert when a check stays
// unhealthy for a configured number of consecutive observations. Alert
// delivery is left to external collaborators; this package keeps the alert
// state and statistics the /metrics surface reports.
package alert

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonwraymond/drpet/health"
	"github.com/jonwraymond/drpet/observe"
)

// Severity classifies an alert.
type Severity int

const (
	// SeverityWarning indicates a degraded component.
	SeverityWarning Severity = iota
	// SeverityCritical indicates an unhealthy component.
	SeverityCritical
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Alert records one raised condition.
type Alert struct {
	Check     string
	Severity  Severity
	Message   string
	Timestamp time.Time
}

// HealthSource supplies health snapshots. health.Registry satisfies this.
type HealthSource interface {
	Snapshot() (health.Snapshot, error)
}

// ManagerConfig configures the alert manager.
type ManagerConfig struct {
	// Interval is how often health snapshots are evaluated.
	// Default: 30 seconds
	Interval time.Duration

	// ConsecutiveFailures is how many unhealthy observations in a row
	// raise an alert. Default: 3
	ConsecutiveFailures int

	// HistoryLimit caps how many resolved alerts are kept.
	// Default: 100
	HistoryLimit int
}

// Manager evaluates health snapshots and tracks alert state. Its monitoring
// loop is started and stopped by the lifecycle manager, never by requests.
type Manager struct {
	config ManagerConfig
	source HealthSource
	logger observe.Logger

	mu       sync.Mutex
	running  bool
	stop     chan struct{}
	done     chan struct{}
	streaks  map[string]int
	active   map[string]Alert
	history  []Alert
	raised   int
	resolved int
}

// NewManager creates an alert manager over the given health source.
func NewManager(source HealthSource, logger observe.Logger, config ...ManagerConfig) *Manager {
	cfg := ManagerConfig{
		Interval:            30 * time.Second,
		ConsecutiveFailures: 3,
		HistoryLimit:        100,
	}
	if len(config) > 0 {
		cfg = config[0]
		if cfg.Interval <= 0 {
			cfg.Interval = 30 * time.Second
		}
		if cfg.ConsecutiveFailures <= 0 {
			cfg.ConsecutiveFailures = 3
		}
		if cfg.HistoryLimit <= 0 {
			cfg.HistoryLimit = 100
		}
	}
	if logger == nil {
		logger = observe.NopLogger()
	}

	return &Manager{
		config:  cfg,
		source:  source,
		logger:  logger,
		streaks: make(map[string]int),
		active:  make(map[string]Alert),
	}
}

// StartMonitoring begins the evaluation loop. Calling it on a running
// manager is a no-op.
func (m *Manager) StartMonitoring(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = true
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	stop, done := m.stop, m.done
	m.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(m.config.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				m.Evaluate(context.Background())
			}
		}
	}()

	return nil
}

// StopMonitoring halts the evaluation loop and waits for it to exit.
// Calling it on a stopped manager is a no-op.
func (m *Manager) StopMonitoring(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	stop, done := m.stop, m.done
	m.mu.Unlock()

	close(stop)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running reports whether the monitoring loop is active.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Evaluate inspects the current health snapshot once, raising and resolving
// alerts as needed. The loop calls this on every tick; tests may call it
// directly.
func (m *Manager) Evaluate(ctx context.Context) {
	snap, err := m.source.Snapshot()
	if err != nil {
		m.logger.Warn(ctx, "alert evaluation skipped",
			observe.Field{Key: "error", Value: err.Error()})
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for name, result := range snap.Individual {
		if result.Status == health.StatusUnhealthy {
			m.streaks[name]++
			if m.streaks[name] >= m.config.ConsecutiveFailures {
				if _, exists := m.active[name]; !exists {
					a := Alert{
						Check:     name,
						Severity:  SeverityCritical,
						Message:   fmt.Sprintf("%s unhealthy for %d consecutive checks: %s", name, m.streaks[name], result.Message),
						Timestamp: time.Now(),
					}
					m.active[name] = a
					m.raised++
					m.logger.Error(ctx, "alert raised",
						observe.Field{Key: "check", Value: name},
						observe.Field{Key: "severity", Value: a.Severity.String()})
				}
			}
			continue
		}

		m.streaks[name] = 0
		if a, exists := m.active[name]; exists {
			delete(m.active, name)
			m.resolved++
			m.history = append(m.history, a)
			if len(m.history) > m.config.HistoryLimit {
				m.history = m.history[len(m.history)-m.config.HistoryLimit:]
			}
			m.logger.Info(ctx, "alert resolved",
				observe.Field{Key: "check", Value: name})
		}
	}
}

// Stats returns alert statistics for the metrics surface.
func (m *Manager) Stats() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	active := make([]map[string]any, 0, len(m.active))
	for _, a := range m.active {
		active = append(active, map[string]any{
			"check":     a.Check,
			"severity":  a.Severity.String(),
			"message":   a.Message,
			"timestamp": a.Timestamp.UTC().Format(time.RFC3339),
		})
	}

	return map[string]any{
		"active_count":   len(m.active),
		"active":         active,
		"total_raised":   m.raised,
		"total_resolved": m.resolved,
		"monitoring":     m.running,
	}
}
