package server

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jonwraymond/drpet/observe"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument wraps a handler with request logging, otel metrics, and
// performance counters.
func (s *Server) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		if s.tracer != nil {
			ctx, span := observe.StartSpan(r.Context(), s.tracer, r.Method+" "+route,
				attribute.String("http.route", route),
			)
			r = r.WithContext(ctx)
			defer func() {
				span.SetAttributes(attribute.Int("http.status_code", rec.status))
				observe.EndSpan(span, nil)
			}()
		}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		failed := rec.status >= http.StatusInternalServerError

		s.metrics.RecordRequest(r.Context(), route, r.Method, rec.status, duration)
		if s.perf != nil {
			s.perf.RecordRequest(duration, failed)
		}

		s.logger.Info(r.Context(), "request handled",
			observe.Field{Key: "route", Value: route},
			observe.Field{Key: "method", Value: r.Method},
			observe.Field{Key: "status", Value: rec.status},
			observe.Field{Key: "duration_ms", Value: duration.Milliseconds()},
		)
	})
}
