package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"1 hour", time.Hour},
		{"4 hours", 4 * time.Hour},
		{"30 minutes", 30 * time.Minute},
		{"90 seconds", 90 * time.Second},
		{"1 day", 24 * time.Hour},
		{"2h", 2 * time.Hour},
		{"1.5 hours", 90 * time.Minute},
	}

	for _, tt := range tests {
		got, err := parseTarget(tt.in)
		if err != nil {
			t.Errorf("parseTarget(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseTarget(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseTarget_Invalid(t *testing.T) {
	for _, in := range []string{"", "soon", "1 fortnight", "many hours extra"} {
		if _, err := parseTarget(in); !errors.Is(err, ErrUnparsableTarget) {
			t.Errorf("parseTarget(%q) error = %v, want ErrUnparsableTarget", in, err)
		}
	}
}

func TestWhitepaperAnalyzer(t *testing.T) {
	a := NewWhitepaperAnalyzer()

	doc, err := a.Analyze(context.Background(), map[string]any{
		"regions":                  2.0,
		"availability_zones":       3.0,
		"backups_enabled":          true,
		"cross_region_replication": true,
		"backup_interval_minutes":  15.0,
		"automated_failover":       true,
		"recovery_tested":          true,
		"estimated_recovery_minutes": 30.0,
	}, "1 hour", "4 hours")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	score, ok := doc["overall_score"].(float64)
	if !ok {
		t.Fatal("Result missing overall_score")
	}
	if score != 100 {
		t.Errorf("overall_score = %v, want 100 for a fully resilient architecture", score)
	}
}

func TestWhitepaperAnalyzer_WeakArchitecture(t *testing.T) {
	a := NewWhitepaperAnalyzer()

	doc, err := a.Analyze(context.Background(), map[string]any{
		"regions": 1.0,
	}, "1 hour", "4 hours")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	score := doc["overall_score"].(float64)
	if score >= 50 {
		t.Errorf("overall_score = %v, want < 50 for a single-region architecture", score)
	}
	recs, _ := doc["recommendations"].([]string)
	if len(recs) == 0 {
		t.Error("Expected recommendations for a weak architecture")
	}
}

func TestWhitepaperAnalyzer_BadTarget(t *testing.T) {
	a := NewWhitepaperAnalyzer()

	_, err := a.Analyze(context.Background(), map[string]any{"regions": 2.0}, "soon", "4 hours")
	if !errors.Is(err, ErrUnparsableTarget) {
		t.Errorf("Analyze() error = %v, want ErrUnparsableTarget", err)
	}
}

func TestServiceAnalyzer(t *testing.T) {
	a := NewServiceAnalyzer()

	doc, err := a.Analyze(context.Background(), map[string]any{
		"api": map[string]any{
			"multi_az":        true,
			"backups_enabled": true,
			"health_check":    true,
			"replicas":        3.0,
		},
		"worker": map[string]any{
			"replicas": 1.0,
		},
	}, "1 hour", "4 hours")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if n := doc["service_count"]; n != 2 {
		t.Errorf("service_count = %v, want 2", n)
	}
	score := doc["overall_score"].(float64)
	if score != 50 {
		t.Errorf("overall_score = %v, want 50 (mean of 100 and 0)", score)
	}

	services := doc["services"].(map[string]any)
	worker := services["worker"].(map[string]any)
	findings := worker["findings"].([]string)
	if len(findings) != 4 {
		t.Errorf("worker findings = %d, want 4", len(findings))
	}
}

func TestServiceAnalyzer_RTOPenalty(t *testing.T) {
	a := NewServiceAnalyzer()

	doc, err := a.Analyze(context.Background(), map[string]any{
		"db": map[string]any{
			"multi_az":                   true,
			"backups_enabled":            true,
			"health_check":               true,
			"replicas":                   2.0,
			"estimated_recovery_minutes": 300.0,
		},
	}, "1 hour", "4 hours")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	score := doc["overall_score"].(float64)
	if score != 80 {
		t.Errorf("overall_score = %v, want 80 after RTO penalty", score)
	}
}

func TestServiceAnalyzer_BadServiceShape(t *testing.T) {
	a := NewServiceAnalyzer()

	_, err := a.Analyze(context.Background(), map[string]any{
		"api": "not a document",
	}, "1 hour", "4 hours")
	if err == nil {
		t.Fatal("Expected error for malformed service entry")
	}
}
