package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records request and engine execution metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordRequest records one HTTP request with its outcome.
	RecordRequest(ctx context.Context, route, method string, status int, duration time.Duration)

	// RecordEngine records one analysis engine invocation.
	RecordEngine(ctx context.Context, engine string, duration time.Duration, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	engineCount     metric.Int64Counter
	engineErrors    metric.Int64Counter
	engineDuration  metric.Float64Histogram
}

// NewMetrics creates a Metrics instance on the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	requestCount, err := meter.Int64Counter(
		"http.request.total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration_ms",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	engineCount, err := meter.Int64Counter(
		"engine.exec.total",
		metric.WithDescription("Total number of analysis engine invocations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	engineErrors, err := meter.Int64Counter(
		"engine.exec.errors",
		metric.WithDescription("Total number of analysis engine failures"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	engineDuration, err := meter.Float64Histogram(
		"engine.exec.duration_ms",
		metric.WithDescription("Analysis engine invocation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		requestCount:    requestCount,
		requestDuration: requestDuration,
		engineCount:     engineCount,
		engineErrors:    engineErrors,
		engineDuration:  engineDuration,
	}, nil
}

// RecordRequest records metrics for one HTTP request.
func (m *metricsImpl) RecordRequest(ctx context.Context, route, method string, status int, duration time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("http.route", route),
		attribute.String("http.method", method),
		attribute.Int("http.status_code", status),
	)

	m.requestCount.Add(ctx, 1, opt)
	m.requestDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordEngine records metrics for one engine invocation.
func (m *metricsImpl) RecordEngine(ctx context.Context, engine string, duration time.Duration, err error) {
	opt := metric.WithAttributes(attribute.String("engine.name", engine))

	m.engineCount.Add(ctx, 1, opt)
	if err != nil {
		m.engineErrors.Add(ctx, 1, opt)
	}
	m.engineDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

// nopMetrics is a metrics implementation that does nothing.
type nopMetrics struct{}

// NopMetrics returns a Metrics that discards everything.
func NopMetrics() Metrics {
	return nopMetrics{}
}

func (nopMetrics) RecordRequest(ctx context.Context, route, method string, status int, duration time.Duration) {
}

func (nopMetrics) RecordEngine(ctx context.Context, engine string, duration time.Duration, err error) {
}
