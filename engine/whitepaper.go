package engine

import (
	"context"
	"time"
)

// WhitepaperConfig configures the whitepaper analyzer.
type WhitepaperConfig struct {
	// MinRegions is the region count treated as fully multi-region.
	// Default: 2
	MinRegions int

	// MinAvailabilityZones is the AZ count treated as fully zone-redundant.
	// Default: 3
	MinAvailabilityZones int
}

// WhitepaperAnalyzer scores an architecture document against the resilience
// pillars described in the AWS reliability whitepapers: redundancy, data
// protection, failure recovery, and recovery-target fit.
type WhitepaperAnalyzer struct {
	config WhitepaperConfig
}

// NewWhitepaperAnalyzer creates a whitepaper analyzer.
func NewWhitepaperAnalyzer(config ...WhitepaperConfig) *WhitepaperAnalyzer {
	cfg := WhitepaperConfig{
		MinRegions:           2,
		MinAvailabilityZones: 3,
	}
	if len(config) > 0 {
		cfg = config[0]
		if cfg.MinRegions <= 0 {
			cfg.MinRegions = 2
		}
		if cfg.MinAvailabilityZones <= 0 {
			cfg.MinAvailabilityZones = 3
		}
	}
	return &WhitepaperAnalyzer{config: cfg}
}

// Analyze scores the architecture document. The result carries per-pillar
// scores, recommendations for failed pillars, and an overall_score.
func (a *WhitepaperAnalyzer) Analyze(ctx context.Context, payload map[string]any, rpoTarget, rtoTarget string) (map[string]any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	rpo, err := parseTarget(rpoTarget)
	if err != nil {
		return nil, err
	}
	rto, err := parseTarget(rtoTarget)
	if err != nil {
		return nil, err
	}

	pillars := map[string]float64{
		"redundancy":       a.redundancyScore(payload),
		"data_protection":  a.dataProtectionScore(payload, rpo),
		"failure_recovery": a.failureRecoveryScore(payload, rto),
	}

	var recommendations []string
	var total float64
	for name, score := range pillars {
		total += score
		if score < 50 {
			recommendations = append(recommendations, recommendation(name))
		}
	}
	overall := clampScore(total / float64(len(pillars)))

	return map[string]any{
		"pillars":         pillars,
		"recommendations": recommendations,
		"rpo_target":      rpoTarget,
		"rto_target":      rtoTarget,
		"overall_score":   overall,
	}, nil
}

func (a *WhitepaperAnalyzer) redundancyScore(doc map[string]any) float64 {
	var score float64

	if n := numAttr(doc, "regions"); n >= float64(a.config.MinRegions) {
		score += 50
	} else if n > 1 {
		score += 25
	}

	if n := numAttr(doc, "availability_zones"); n >= float64(a.config.MinAvailabilityZones) {
		score += 50
	} else if n > 1 {
		score += 25
	}

	return clampScore(score)
}

func (a *WhitepaperAnalyzer) dataProtectionScore(doc map[string]any, rpo time.Duration) float64 {
	var score float64

	if boolAttr(doc, "backups_enabled") {
		score += 40
	}
	if boolAttr(doc, "cross_region_replication") {
		score += 30
	}

	// A tight RPO demands continuous replication, not periodic backups.
	if interval := numAttr(doc, "backup_interval_minutes"); interval > 0 {
		if time.Duration(interval)*time.Minute <= rpo {
			score += 30
		}
	} else if boolAttr(doc, "continuous_replication") {
		score += 30
	}

	return clampScore(score)
}

func (a *WhitepaperAnalyzer) failureRecoveryScore(doc map[string]any, rto time.Duration) float64 {
	var score float64

	if boolAttr(doc, "automated_failover") {
		score += 50
	}
	if boolAttr(doc, "recovery_tested") {
		score += 20
	}

	if est := numAttr(doc, "estimated_recovery_minutes"); est > 0 {
		if time.Duration(est)*time.Minute <= rto {
			score += 30
		}
	}

	return clampScore(score)
}

func recommendation(pillar string) string {
	switch pillar {
	case "redundancy":
		return "deploy across additional regions or availability zones"
	case "data_protection":
		return "enable backups and replication that meet the RPO target"
	case "failure_recovery":
		return "automate failover and verify recovery time against the RTO target"
	default:
		return "review the " + pillar + " pillar"
	}
}
