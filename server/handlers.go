package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jonwraymond/drpet/analysis"
	"github.com/jonwraymond/drpet/health"
	"github.com/jonwraymond/drpet/observe"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeError(w, http.StatusNotFound, "not found", "")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"service":     s.config.ServiceName,
		"version":     s.config.Version,
		"status":      "running",
		"description": "Disaster recovery and production environment testing agent",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap, err := s.health.Snapshot()
	if err != nil {
		// Failure to read health state is its own outcome, distinct
		// from an unhealthy report.
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "error",
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	body := map[string]any{
		"status":          snap.Status.String(),
		"overall_healthy": snap.OverallHealthy,
		"timestamp":       snap.Timestamp.UTC().Format(time.RFC3339),
		"checks":          checksDocument(snap),
	}

	code := http.StatusOK
	if !snap.OverallHealthy {
		code = http.StatusServiceUnavailable
	}
	s.writeJSON(w, code, body)
}

func checksDocument(snap health.Snapshot) map[string]any {
	checks := make(map[string]any, len(snap.Individual))
	for name, result := range snap.Individual {
		entry := map[string]any{
			"status":  result.Status.String(),
			"message": result.Message,
		}
		if result.Error != nil {
			entry["error"] = result.Error.Error()
		}
		if len(result.Details) > 0 {
			entry["details"] = result.Details
		}
		checks[name] = entry
	}
	return checks
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	doc := map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if s.perf != nil {
		doc["performance"] = s.perf.Snapshot()
	}
	if s.guard != nil {
		doc["hardening"] = s.guard.Stats()
	}
	if s.alerts != nil {
		doc["alerts"] = s.alerts.Stats()
	}

	// Failing to assemble the document is a server fault, not a
	// degraded-health signal.
	snap, err := s.health.Snapshot()
	if err != nil {
		s.logger.Error(r.Context(), "metrics assembly failed",
			observe.Field{Key: "error", Value: err.Error()})
		s.writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	doc["health"] = map[string]any{
		"status":          snap.Status.String(),
		"overall_healthy": snap.OverallHealthy,
		"checks":          checksDocument(snap),
	}

	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleAnalyzeWhitepaper(w http.ResponseWriter, r *http.Request) {
	s.handleAnalysis(w, r, "analysis_result", s.analyzer.AnalyzeWhitepaper)
}

func (s *Server) handleAnalyzeServices(w http.ResponseWriter, r *http.Request) {
	s.handleAnalysis(w, r, "analysis_result", s.analyzer.AnalyzeServices)
}

func (s *Server) handleAnalyzeComprehensive(w http.ResponseWriter, r *http.Request) {
	s.handleAnalysis(w, r, "analysis_results", s.analyzer.AnalyzeComprehensive)
}

type analyzeFunc func(ctx context.Context, req analysis.Request) (analysis.Document, error)

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request, resultKey string, run analyzeFunc) {
	var req analysis.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error(), "validation")
		return
	}

	doc, err := run(r.Context(), req)
	if err != nil {
		s.writeAnalysisError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		resultKey: doc,
	})
}

// writeAnalysisError maps the error kind onto a status code: validation
// failures are the caller's to fix, everything else is a server fault.
func (s *Server) writeAnalysisError(w http.ResponseWriter, r *http.Request, err error) {
	kind := analysis.KindOf(err)

	code := http.StatusInternalServerError
	if kind == analysis.KindValidation {
		code = http.StatusBadRequest
	} else {
		s.logger.Error(r.Context(), "analysis failed",
			observe.Field{Key: "route", Value: r.URL.Path},
			observe.Field{Key: "kind", Value: kind.String()},
			observe.Field{Key: "error", Value: err.Error()},
		)
	}

	s.writeError(w, code, errorMessage(err), kind.String())
}

// errorMessage strips the package prefix wrapping for client-facing
// validation messages but keeps the full text for server faults.
func errorMessage(err error) string {
	var aerr *analysis.Error
	if errors.As(err, &aerr) && aerr.Err != nil {
		return aerr.Err.Error()
	}
	return err.Error()
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error(context.Background(), "response encode failed",
			observe.Field{Key: "error", Value: err.Error()})
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg, kind string) {
	body := map[string]any{
		"status": "error",
		"error":  msg,
	}
	if kind != "" {
		body["kind"] = kind
	}
	s.writeJSON(w, code, body)
}
