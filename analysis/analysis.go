package analysis

import "context"

// Default recovery targets applied when a request omits them.
const (
	DefaultRPOTarget = "1 hour"
	DefaultRTOTarget = "4 hours"
)

// Result document keys.
const (
	KeyWhitepaper   = "whitepaper_analysis"
	KeyServices     = "service_analysis"
	KeyOverallScore = "overall_score"
)

// Document is an analysis input or output document.
type Document = map[string]any

// Engine scores a payload against the caller's recovery targets.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Analyze must honor cancellation/deadlines.
// - Errors: any non-nil error is treated as a collaborator failure.
// - Output: the returned document should carry an overall_score number;
//   a missing score contributes 0 when results are combined.
type Engine interface {
	// Analyze scores payload against the given RPO/RTO targets.
	Analyze(ctx context.Context, payload Document, rpoTarget, rtoTarget string) (Document, error)
}

// EngineFunc is an adapter to allow ordinary functions to be used as Engines.
type EngineFunc func(ctx context.Context, payload Document, rpoTarget, rtoTarget string) (Document, error)

// Analyze scores payload against the given RPO/RTO targets.
func (f EngineFunc) Analyze(ctx context.Context, payload Document, rpoTarget, rtoTarget string) (Document, error) {
	return f(ctx, payload, rpoTarget, rtoTarget)
}

// Request carries the payloads and recovery targets for one analysis run.
// At least one payload must be non-empty for the comprehensive path; each
// single-engine path requires its own payload.
type Request struct {
	ArchitectureData Document `json:"architecture_data,omitempty"`
	Services         Document `json:"services,omitempty"`
	RPOTarget        string   `json:"rpo_target,omitempty"`
	RTOTarget        string   `json:"rto_target,omitempty"`
}

// Normalize applies default recovery targets to an incomplete request.
func (r Request) Normalize() Request {
	if r.RPOTarget == "" {
		r.RPOTarget = DefaultRPOTarget
	}
	if r.RTOTarget == "" {
		r.RTOTarget = DefaultRTOTarget
	}
	return r
}

// Score reads the overall_score number from an engine document.
// A missing or non-numeric score reads as 0.
func Score(doc Document) float64 {
	switch v := doc[KeyOverallScore].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}
