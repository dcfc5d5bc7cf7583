// Command agent runs the DRPET resilience analysis service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwraymond/drpet/alert"
	"github.com/jonwraymond/drpet/analysis"
	"github.com/jonwraymond/drpet/config"
	"github.com/jonwraymond/drpet/engine"
	"github.com/jonwraymond/drpet/health"
	"github.com/jonwraymond/drpet/lifecycle"
	"github.com/jonwraymond/drpet/observe"
	"github.com/jonwraymond/drpet/resilience"
	"github.com/jonwraymond/drpet/server"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "agent: %v\n", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "agent: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	obs, err := observe.NewObserver(ctx, observe.Config{
		ServiceName: cfg.ServiceName,
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   cfg.TracingExporter != "" && cfg.TracingExporter != "none",
			Exporter:  cfg.TracingExporter,
			SamplePct: cfg.TracingSamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  cfg.MetricsExporter != "" && cfg.MetricsExporter != "none",
			Exporter: cfg.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   cfg.LogLevel,
		},
	})
	if err != nil {
		return fmt.Errorf("observer: %w", err)
	}
	defer func() {
		if err := obs.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "agent: telemetry shutdown: %v\n", err)
		}
	}()

	logger := obs.Logger()

	metrics, err := observe.NewMetrics(obs.Meter())
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	guard := resilience.NewExecutor(
		resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			MaxFailures: cfg.CircuitMaxFailures,
		})),
		resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
			MaxAttempts: cfg.EngineMaxRetries + 1,
		})),
		resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Rate: cfg.EngineRatePerSec,
		})),
		resilience.WithTimeout(cfg.EngineTimeout),
	)

	orchestrator := analysis.NewOrchestrator(
		engine.NewWhitepaperAnalyzer(),
		engine.NewServiceAnalyzer(),
		analysis.WithGuard(guard),
		analysis.WithLogger(logger),
	)

	registry := health.NewRegistry(health.RegistryConfig{
		Interval: cfg.HealthCheckInterval,
	})
	registry.Register("memory", health.NewMemoryChecker(health.MemoryCheckerConfig{}))
	registry.Register("goroutines", health.NewGoroutineChecker(health.GoroutineCheckerConfig{}))
	registry.Register("engines", health.NewCheckerFunc("engines", engineSelfTest(orchestrator)))

	alerts := alert.NewManager(registry, logger, alert.ManagerConfig{
		Interval: cfg.AlertInterval,
	})

	manager := lifecycle.NewManager(lifecycle.ManagerConfig{
		StopTimeout: cfg.ShutdownTimeout,
	}, lifecycle.WithLogger(logger))
	manager.Register(lifecycle.Funcs("health-monitor", registry.Start, registry.Stop))
	manager.Register(lifecycle.Funcs("alert-monitor", alerts.StartMonitoring, alerts.StopMonitoring))

	srv := server.New(server.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		ServiceName:     cfg.ServiceName,
		Version:         version,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, orchestrator, registry,
		server.WithLogger(logger),
		server.WithMetrics(metrics),
		server.WithTracer(obs.Tracer()),
		server.WithAlertStats(alerts),
		server.WithGuardStats(guard),
		server.WithPerfStats(observe.NewPerfStats()),
		server.WithPrometheusHandler(promhttp.Handler()),
	)

	return manager.Run(ctx, srv.Serve)
}

// engineSelfTest exercises both analyzers on a canned request so the
// health surface notices a broken engine path before callers do.
func engineSelfTest(orchestrator *analysis.Orchestrator) func(context.Context) health.Result {
	probe := analysis.Request{
		ArchitectureData: analysis.Document{"regions": 2, "availability_zones": 3},
		Services:         analysis.Document{"probe": map[string]any{"multi_az": true}},
	}

	return func(ctx context.Context) health.Result {
		doc, err := orchestrator.AnalyzeComprehensive(ctx, probe)
		if err != nil {
			return health.Unhealthy("analysis engines failing", err)
		}
		return health.Healthy("analysis engines responsive").WithDetails(map[string]any{
			"probe_score": analysis.Score(doc),
		})
	}
}
