package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonwraymond/drpet/observe"
)

// State represents the manager's lifecycle phase.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Subsystem is a component with a managed lifetime.
//
// Contract:
// - Start must return once the subsystem is operational, or an error.
// - Stop must be safe to call after a failed Start.
// - Both must honor ctx cancellation.
type Subsystem interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// funcs adapts a pair of functions to the Subsystem interface.
type funcs struct {
	name  string
	start func(ctx context.Context) error
	stop  func(ctx context.Context) error
}

// Funcs wraps start and stop functions as a Subsystem. Either function
// may be nil, in which case that transition is a no-op.
func Funcs(name string, start, stop func(ctx context.Context) error) Subsystem {
	return &funcs{name: name, start: start, stop: stop}
}

func (f *funcs) Name() string { return f.name }

func (f *funcs) Start(ctx context.Context) error {
	if f.start == nil {
		return nil
	}
	return f.start(ctx)
}

func (f *funcs) Stop(ctx context.Context) error {
	if f.stop == nil {
		return nil
	}
	return f.stop(ctx)
}

// ManagerConfig holds configuration for the lifecycle manager.
type ManagerConfig struct {
	// StopTimeout bounds each subsystem's Stop call during shutdown.
	// Defaults to 30 seconds.
	StopTimeout time.Duration
}

// Manager starts and stops an ordered set of subsystems.
type Manager struct {
	config ManagerConfig
	logger observe.Logger

	mu         sync.Mutex
	subsystems []Subsystem
	started    []Subsystem
	state      State
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger used for lifecycle transitions.
func WithLogger(logger observe.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger.WithComponent("lifecycle")
		}
	}
}

// NewManager creates a lifecycle manager with the given configuration.
func NewManager(config ManagerConfig, opts ...ManagerOption) *Manager {
	if config.StopTimeout <= 0 {
		config.StopTimeout = 30 * time.Second
	}

	m := &Manager{
		config: config,
		logger: observe.NopLogger(),
		state:  StateStopped,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register appends a subsystem to the startup order. Registration after
// Startup has no effect on the running set until the next Startup.
func (m *Manager) Register(s Subsystem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subsystems = append(m.subsystems, s)
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Startup starts every registered subsystem in order. If any Start
// fails, subsystems already started are stopped in reverse order and
// the manager returns to stopped. Calling Startup while already running
// is a no-op; calling it mid-transition returns ErrAlreadyRunning.
func (m *Manager) Startup(ctx context.Context) error {
	m.mu.Lock()
	if m.state == StateRunning {
		m.mu.Unlock()
		return nil
	}
	if m.state != StateStopped {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	m.state = StateStarting
	subsystems := make([]Subsystem, len(m.subsystems))
	copy(subsystems, m.subsystems)
	m.mu.Unlock()

	var started []Subsystem
	for _, s := range subsystems {
		m.logger.Info(ctx, "starting subsystem", observe.Field{Key: "subsystem", Value: s.Name()})

		if err := s.Start(ctx); err != nil {
			m.logger.Error(ctx, "subsystem failed to start",
				observe.Field{Key: "subsystem", Value: s.Name()},
				observe.Field{Key: "error", Value: err.Error()},
			)
			m.rollback(started)

			m.mu.Lock()
			m.state = StateStopped
			m.mu.Unlock()
			return fmt.Errorf("lifecycle: start %s: %w", s.Name(), err)
		}
		started = append(started, s)
	}

	m.mu.Lock()
	m.started = started
	m.state = StateRunning
	m.mu.Unlock()

	m.logger.Info(ctx, "all subsystems running", observe.Field{Key: "count", Value: len(started)})
	return nil
}

// rollback stops already-started subsystems in reverse order after a
// failed startup. Errors are logged, not returned; the startup error
// is the one that matters.
func (m *Manager) rollback(started []Subsystem) {
	for i := len(started) - 1; i >= 0; i-- {
		s := started[i]

		ctx, cancel := context.WithTimeout(context.Background(), m.config.StopTimeout)
		if err := s.Stop(ctx); err != nil {
			m.logger.Error(ctx, "rollback stop failed",
				observe.Field{Key: "subsystem", Value: s.Name()},
				observe.Field{Key: "error", Value: err.Error()},
			)
		}
		cancel()
	}
}

// Shutdown stops every running subsystem in reverse startup order.
// Every Stop is attempted even when earlier ones fail; the errors are
// joined. Calling Shutdown while already stopped is a no-op; calling it
// mid-transition returns ErrNotRunning.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.state == StateStopped {
		m.mu.Unlock()
		return nil
	}
	if m.state != StateRunning {
		m.mu.Unlock()
		return ErrNotRunning
	}
	m.state = StateStopping
	started := m.started
	m.started = nil
	m.mu.Unlock()

	var errs []error
	for i := len(started) - 1; i >= 0; i-- {
		s := started[i]
		m.logger.Info(ctx, "stopping subsystem", observe.Field{Key: "subsystem", Value: s.Name()})

		stopCtx, cancel := context.WithTimeout(ctx, m.config.StopTimeout)
		if err := s.Stop(stopCtx); err != nil {
			m.logger.Error(ctx, "subsystem failed to stop",
				observe.Field{Key: "subsystem", Value: s.Name()},
				observe.Field{Key: "error", Value: err.Error()},
			)
			errs = append(errs, fmt.Errorf("lifecycle: stop %s: %w", s.Name(), err))
		}
		cancel()
	}

	m.mu.Lock()
	m.state = StateStopped
	m.mu.Unlock()

	return errors.Join(errs...)
}

// Run starts the subsystems, invokes serve, and shuts down when serve
// returns or ctx is canceled. The serve error, if any, takes precedence
// over shutdown errors.
func (m *Manager) Run(ctx context.Context, serve func(ctx context.Context) error) error {
	if err := m.Startup(ctx); err != nil {
		return err
	}

	serveErr := serve(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), m.config.StopTimeout)
	defer cancel()
	shutdownErr := m.Shutdown(shutdownCtx)

	if serveErr != nil {
		return serveErr
	}
	return shutdownErr
}
