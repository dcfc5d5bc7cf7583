package engine

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// ServiceAnalyzer scores a set of services for resilience patterns. The
// payload maps service names to attribute documents; each service is scored
// independently and the overall_score is the mean across services.
type ServiceAnalyzer struct{}

// NewServiceAnalyzer creates a service analyzer.
func NewServiceAnalyzer() *ServiceAnalyzer {
	return &ServiceAnalyzer{}
}

// Analyze scores every service in the payload.
func (a *ServiceAnalyzer) Analyze(ctx context.Context, payload map[string]any, rpoTarget, rtoTarget string) (map[string]any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	rto, err := parseTarget(rtoTarget)
	if err != nil {
		return nil, err
	}
	if _, err := parseTarget(rpoTarget); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(payload))
	for name := range payload {
		names = append(names, name)
	}
	sort.Strings(names)

	services := make(map[string]any, len(names))
	var total float64
	for _, name := range names {
		attrs, ok := payload[name].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("engine: service %q: expected attribute document, got %T", name, payload[name])
		}
		score, findings := scoreService(attrs, rto)
		total += score
		services[name] = map[string]any{
			"score":    score,
			"findings": findings,
		}
	}

	var overall float64
	if len(names) > 0 {
		overall = clampScore(total / float64(len(names)))
	}

	return map[string]any{
		"services":      services,
		"service_count": len(names),
		"rpo_target":    rpoTarget,
		"rto_target":    rtoTarget,
		"overall_score": overall,
	}, nil
}

func scoreService(attrs map[string]any, rto time.Duration) (float64, []string) {
	var score float64
	var findings []string

	if boolAttr(attrs, "multi_az") {
		score += 30
	} else {
		findings = append(findings, "single availability zone")
	}

	if boolAttr(attrs, "backups_enabled") {
		score += 25
	} else {
		findings = append(findings, "backups disabled")
	}

	if boolAttr(attrs, "health_check") {
		score += 20
	} else {
		findings = append(findings, "no health check configured")
	}

	if n := numAttr(attrs, "replicas"); n >= 2 {
		score += 25
	} else {
		findings = append(findings, "fewer than two replicas")
	}

	// Penalize services whose declared recovery exceeds the RTO target.
	if est := numAttr(attrs, "estimated_recovery_minutes"); est > 0 {
		if time.Duration(est)*time.Minute > rto {
			score -= 20
			findings = append(findings, "estimated recovery exceeds RTO target")
		}
	}

	return clampScore(score), findings
}
