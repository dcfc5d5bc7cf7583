package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/drpet/analysis"
	"github.com/jonwraymond/drpet/health"
)

// fakeHealth is a HealthSource returning a fixed snapshot or error.
type fakeHealth struct {
	snap health.Snapshot
	err  error
}

func (f *fakeHealth) Snapshot() (health.Snapshot, error) {
	return f.snap, f.err
}

// fakeStats is a StatsSource returning a fixed document.
type fakeStats struct {
	doc map[string]any
}

func (f *fakeStats) Stats() map[string]any { return f.doc }

func healthySnapshot() health.Snapshot {
	return health.Snapshot{
		Status:         health.StatusHealthy,
		OverallHealthy: true,
		Timestamp:      time.Now(),
		Individual: map[string]health.Result{
			"memory": health.Healthy("memory usage normal"),
		},
	}
}

func staticEngine(doc analysis.Document) analysis.Engine {
	return analysis.EngineFunc(func(ctx context.Context, payload analysis.Document, rpo, rto string) (analysis.Document, error) {
		return doc, nil
	})
}

func failingEngine(err error) analysis.Engine {
	return analysis.EngineFunc(func(ctx context.Context, payload analysis.Document, rpo, rto string) (analysis.Document, error) {
		return nil, err
	})
}

func newTestServer(t *testing.T, wp, svc analysis.Engine, hs HealthSource, opts ...Option) *Server {
	t.Helper()
	orch := analysis.NewOrchestrator(wp, svc)
	if hs == nil {
		hs = &fakeHealth{snap: healthySnapshot()}
	}
	return New(Config{ServiceName: "drpet-agent", Version: "1.2.3"}, orch, hs, opts...)
}

func doRequest(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("response is not JSON: %v (body: %s)", err, rec.Body.String())
	}
	return rec, doc
}

func TestRootIdentity(t *testing.T) {
	s := newTestServer(t, staticEngine(nil), staticEngine(nil), nil)

	rec, doc := doRequest(t, s, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if doc["service"] != "drpet-agent" {
		t.Errorf("service = %v, want %q", doc["service"], "drpet-agent")
	}
	if doc["version"] != "1.2.3" {
		t.Errorf("version = %v, want %q", doc["version"], "1.2.3")
	}
	if doc["status"] != "running" {
		t.Errorf("status field = %v, want %q", doc["status"], "running")
	}
}

func TestHealthHealthy(t *testing.T) {
	s := newTestServer(t, staticEngine(nil), staticEngine(nil), &fakeHealth{snap: healthySnapshot()})

	rec, doc := doRequest(t, s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if doc["status"] != "healthy" {
		t.Errorf("body status = %v, want %q", doc["status"], "healthy")
	}
	if doc["overall_healthy"] != true {
		t.Errorf("overall_healthy = %v, want true", doc["overall_healthy"])
	}
	checks, ok := doc["checks"].(map[string]any)
	if !ok || checks["memory"] == nil {
		t.Errorf("checks = %v, want memory entry", doc["checks"])
	}
}

func TestHealthUnhealthy(t *testing.T) {
	snap := health.Snapshot{
		Status:         health.StatusUnhealthy,
		OverallHealthy: false,
		Timestamp:      time.Now(),
		Individual: map[string]health.Result{
			"memory": health.Unhealthy("out of memory", errors.New("rss over limit")),
		},
	}
	s := newTestServer(t, staticEngine(nil), staticEngine(nil), &fakeHealth{snap: snap})

	rec, doc := doRequest(t, s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if doc["status"] != "unhealthy" {
		t.Errorf("body status = %v, want %q", doc["status"], "unhealthy")
	}
}

func TestHealthReadError(t *testing.T) {
	s := newTestServer(t, staticEngine(nil), staticEngine(nil), &fakeHealth{err: health.ErrNoSnapshot})

	rec, doc := doRequest(t, s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if doc["status"] != "error" {
		t.Errorf("body status = %v, want %q", doc["status"], "error")
	}
	if errText, _ := doc["error"].(string); !strings.Contains(errText, "no snapshot") {
		t.Errorf("error = %v, want snapshot error text", doc["error"])
	}
}

func TestMetricsDocument(t *testing.T) {
	s := newTestServer(t, staticEngine(nil), staticEngine(nil), nil,
		WithAlertStats(&fakeStats{doc: map[string]any{"active_count": 0}}),
		WithGuardStats(&fakeStats{doc: map[string]any{"retry": map[string]any{"retries": 0}}}),
	)

	rec, doc := doRequest(t, s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	for _, key := range []string{"hardening", "health", "alerts", "timestamp"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("metrics document missing %q", key)
		}
	}
}

func TestMetricsAssemblyFailure(t *testing.T) {
	s := newTestServer(t, staticEngine(nil), staticEngine(nil), &fakeHealth{err: health.ErrNoSnapshot},
		WithAlertStats(&fakeStats{doc: map[string]any{"active_count": 0}}),
	)

	rec, doc := doRequest(t, s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if doc["status"] != "error" {
		t.Errorf("body status = %v, want %q", doc["status"], "error")
	}
	if errText, _ := doc["error"].(string); !strings.Contains(errText, "no snapshot") {
		t.Errorf("error = %v, want snapshot error text", doc["error"])
	}
}

func TestAnalyzeWhitepaper(t *testing.T) {
	want := analysis.Document{"overall_score": 85.0, "pillars": map[string]any{}}
	s := newTestServer(t, staticEngine(want), staticEngine(nil), nil)

	rec, doc := doRequest(t, s, http.MethodPost, "/analyze/whitepaper",
		`{"architecture_data": {"x": 1}, "rpo_target": "30 minutes"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %v)", rec.Code, http.StatusOK, doc)
	}
	if doc["status"] != "success" {
		t.Errorf("status field = %v, want %q", doc["status"], "success")
	}
	result, ok := doc["analysis_result"].(map[string]any)
	if !ok {
		t.Fatalf("analysis_result = %v, want document", doc["analysis_result"])
	}
	if result["overall_score"] != 85.0 {
		t.Errorf("overall_score = %v, want 85", result["overall_score"])
	}
}

func TestAnalyzeServicesMissingPayload(t *testing.T) {
	s := newTestServer(t, staticEngine(nil), staticEngine(nil), nil)

	rec, doc := doRequest(t, s, http.MethodPost, "/analyze/services", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if doc["kind"] != "validation" {
		t.Errorf("kind = %v, want %q", doc["kind"], "validation")
	}
	if msg, _ := doc["error"].(string); !strings.Contains(msg, "services") {
		t.Errorf("error = %q, want mention of services", msg)
	}
}

func TestAnalyzeComprehensiveBothPayloads(t *testing.T) {
	s := newTestServer(t,
		staticEngine(analysis.Document{"overall_score": 80.0}),
		staticEngine(analysis.Document{"overall_score": 60.0}),
		nil)

	rec, doc := doRequest(t, s, http.MethodPost, "/analyze/comprehensive",
		`{"architecture_data": {"x": 1}, "services": {"api": {}}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %v)", rec.Code, http.StatusOK, doc)
	}

	results, ok := doc["analysis_results"].(map[string]any)
	if !ok {
		t.Fatalf("analysis_results = %v, want document", doc["analysis_results"])
	}
	if results["overall_score"] != 70.0 {
		t.Errorf("overall_score = %v, want 70", results["overall_score"])
	}
	if results["whitepaper_analysis"] == nil || results["service_analysis"] == nil {
		t.Errorf("results = %v, want both engine keys", results)
	}
}

func TestAnalyzeComprehensiveSinglePayload(t *testing.T) {
	s := newTestServer(t,
		staticEngine(analysis.Document{"overall_score": 80.0}),
		staticEngine(analysis.Document{"overall_score": 60.0}),
		nil)

	rec, doc := doRequest(t, s, http.MethodPost, "/analyze/comprehensive",
		`{"architecture_data": {"x": 1}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %v)", rec.Code, http.StatusOK, doc)
	}

	results := doc["analysis_results"].(map[string]any)
	if _, ok := results["overall_score"]; ok {
		t.Errorf("overall_score present with single payload: %v", results)
	}
	if _, ok := results["service_analysis"]; ok {
		t.Errorf("service_analysis present without services payload: %v", results)
	}
	if results["whitepaper_analysis"] == nil {
		t.Errorf("whitepaper_analysis missing: %v", results)
	}
}

func TestAnalyzeComprehensiveNeitherPayload(t *testing.T) {
	s := newTestServer(t, staticEngine(nil), staticEngine(nil), nil)

	rec, doc := doRequest(t, s, http.MethodPost, "/analyze/comprehensive", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if doc["kind"] != "validation" {
		t.Errorf("kind = %v, want %q", doc["kind"], "validation")
	}
}

func TestAnalyzeEngineFailure(t *testing.T) {
	s := newTestServer(t, failingEngine(errors.New("engine exploded")), staticEngine(nil), nil)

	rec, doc := doRequest(t, s, http.MethodPost, "/analyze/whitepaper",
		`{"architecture_data": {"x": 1}}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if doc["kind"] != "collaborator" {
		t.Errorf("kind = %v, want %q", doc["kind"], "collaborator")
	}
}

func TestAnalyzeInvalidJSON(t *testing.T) {
	s := newTestServer(t, staticEngine(nil), staticEngine(nil), nil)

	rec, doc := doRequest(t, s, http.MethodPost, "/analyze/whitepaper", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if doc["kind"] != "validation" {
		t.Errorf("kind = %v, want %q", doc["kind"], "validation")
	}
}
