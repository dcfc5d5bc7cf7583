// Package observe provides the agent's telemetry: structured logging,
// OpenTelemetry tracing and metrics, and runtime performance statistics.
//
// An Observer owns the tracer, meter, and logger for the process and shuts
// the telemetry providers down gracefully:
//
//	obs, err := observe.NewObserver(ctx, observe.Config{
//	    ServiceName: "drpet-agent",
//	    Version:     "2.0.0",
//	    Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	    Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
//	})
//	if err != nil {
//	    return err
//	}
//	defer obs.Shutdown(ctx)
//
// PerfStats tracks request counters alongside runtime memory and goroutine
// figures; its Stats snapshot is the performance section of the agent's
// /metrics document.
package observe
