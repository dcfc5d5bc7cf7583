package readiness

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Report aggregates every CheckResult of one validation run. Built once
// after all checks complete; read-only afterward.
type Report struct {
	// OverallSuccess is the AND of every result's Success.
	OverallSuccess bool

	// Checks maps check name to its result.
	Checks map[string]CheckResult

	// Order preserves execution order for printing.
	Order []string

	// TotalDuration is the wall-clock span of the run.
	TotalDuration time.Duration

	// Timestamp is when the report was built.
	Timestamp time.Time
}

// NewReport builds a report from results in execution order.
func NewReport(results []CheckResult, totalDuration time.Duration) Report {
	report := Report{
		OverallSuccess: true,
		Checks:         make(map[string]CheckResult, len(results)),
		Order:          make([]string, 0, len(results)),
		TotalDuration:  totalDuration,
		Timestamp:      time.Now().UTC(),
	}

	for _, result := range results {
		report.Checks[result.Name] = result
		report.Order = append(report.Order, result.Name)
		if !result.Success {
			report.OverallSuccess = false
		}
	}

	return report
}

// Results returns the check results in execution order.
func (r Report) Results() []CheckResult {
	results := make([]CheckResult, 0, len(r.Order))
	for _, name := range r.Order {
		results = append(results, r.Checks[name])
	}
	return results
}

// Artifact returns the persistable document form of the report.
func (r Report) Artifact() map[string]any {
	checks := make(map[string]any, len(r.Checks))
	for name, result := range r.Checks {
		checks[name] = result
	}

	return map[string]any{
		"validation_timestamp": r.Timestamp.Format(time.RFC3339),
		"overall_success":      r.OverallSuccess,
		"production_ready":     r.OverallSuccess,
		"results": map[string]any{
			"checks":         checks,
			"total_duration": r.TotalDuration.Seconds(),
		},
	}
}

// Save writes the report artifact as indented JSON to path.
func (r Report) Save(path string) error {
	data, err := json.MarshalIndent(r.Artifact(), "", "  ")
	if err != nil {
		return fmt.Errorf("readiness: marshal report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("readiness: create report dir: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("readiness: write report: %w", err)
	}
	return nil
}

// DefaultReportFile returns a report filename carrying the run time.
func DefaultReportFile(now time.Time) string {
	return fmt.Sprintf("drpet_validation_report_%s.json", now.Format("20060102_150405"))
}
