package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/drpet/analysis"
	"github.com/jonwraymond/drpet/health"
	"github.com/jonwraymond/drpet/observe"
)

// Config holds the HTTP server configuration.
type Config struct {
	// Host is the listen address. Defaults to all interfaces.
	Host string

	// Port is the listen port. Defaults to 8080.
	Port int

	// ServiceName appears in the identity document.
	ServiceName string

	// Version appears in the identity document.
	Version string

	// ShutdownTimeout bounds graceful shutdown. Defaults to 15 seconds.
	ShutdownTimeout time.Duration

	// ReadTimeout and WriteTimeout bound request handling.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Analyzer runs the analysis operations behind the /analyze routes.
type Analyzer interface {
	AnalyzeWhitepaper(ctx context.Context, req analysis.Request) (analysis.Document, error)
	AnalyzeServices(ctx context.Context, req analysis.Request) (analysis.Document, error)
	AnalyzeComprehensive(ctx context.Context, req analysis.Request) (analysis.Document, error)
}

// HealthSource provides the latest cached health snapshot.
type HealthSource interface {
	Snapshot() (health.Snapshot, error)
}

// StatsSource provides a read-only stats document for /metrics.
type StatsSource interface {
	Stats() map[string]any
}

// PerfSource provides the performance snapshot for /metrics.
type PerfSource interface {
	Snapshot() map[string]any
	RecordRequest(duration time.Duration, failed bool)
}

// Server is the agent's HTTP surface.
type Server struct {
	config   Config
	analyzer Analyzer
	health   HealthSource
	alerts   StatsSource
	guard    StatsSource
	perf     PerfSource
	logger   observe.Logger
	metrics  observe.Metrics
	tracer   trace.Tracer
	promExpo http.Handler

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger observe.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger.WithComponent("server")
		}
	}
}

// WithMetrics sets the request metrics recorder.
func WithMetrics(m observe.Metrics) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracer enables request spans on every route.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Server) { s.tracer = tracer }
}

// WithAlertStats sets the alert stats source for /metrics.
func WithAlertStats(src StatsSource) Option {
	return func(s *Server) { s.alerts = src }
}

// WithGuardStats sets the hardening stats source for /metrics.
func WithGuardStats(src StatsSource) Option {
	return func(s *Server) { s.guard = src }
}

// WithPerfStats sets the performance stats source for /metrics.
func WithPerfStats(src PerfSource) Option {
	return func(s *Server) { s.perf = src }
}

// WithPrometheusHandler mounts a Prometheus exposition handler at
// /metrics/prometheus.
func WithPrometheusHandler(h http.Handler) Option {
	return func(s *Server) { s.promExpo = h }
}

// New creates a Server over the given analyzer and health source.
func New(config Config, analyzer Analyzer, healthSource HealthSource, opts ...Option) *Server {
	if config.Port <= 0 {
		config.Port = 8080
	}
	if config.ServiceName == "" {
		config.ServiceName = "drpet-agent"
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 15 * time.Second
	}
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = 30 * time.Second
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 60 * time.Second
	}

	s := &Server{
		config:   config,
		analyzer: analyzer,
		health:   healthSource,
		logger:   observe.NopLogger(),
		metrics:  observe.NopMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the route table. Exposed so tests can drive handlers
// through httptest without a listener.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /", s.instrument("/", http.HandlerFunc(s.handleRoot)))
	mux.Handle("GET /health", s.instrument("/health", http.HandlerFunc(s.handleHealth)))
	mux.Handle("GET /metrics", s.instrument("/metrics", http.HandlerFunc(s.handleMetrics)))
	mux.Handle("POST /analyze/whitepaper", s.instrument("/analyze/whitepaper", http.HandlerFunc(s.handleAnalyzeWhitepaper)))
	mux.Handle("POST /analyze/services", s.instrument("/analyze/services", http.HandlerFunc(s.handleAnalyzeServices)))
	mux.Handle("POST /analyze/comprehensive", s.instrument("/analyze/comprehensive", http.HandlerFunc(s.handleAnalyzeComprehensive)))

	if s.promExpo != nil {
		mux.Handle("GET /metrics/prometheus", s.promExpo)
	}

	return mux
}

// Serve runs the HTTP server until ctx is canceled, then shuts down
// gracefully. Intended to be the serve function handed to the
// lifecycle manager's Run.
func (s *Server) Serve(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port))

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	s.logger.Info(ctx, "http server listening", observe.Field{Key: "addr", Value: addr})

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info(shutdownCtx, "http server draining")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
