// Package analysis orchestrates resilience analysis requests across the
// whitepaper and service analysis engines.
//
// The orchestrator validates request payloads, delegates to the configured
// engines, and combines their scores. Errors carry an explicit Kind so
// callers can distinguish client input problems (fix and resubmit) from
// engine failures (safe to retry).
//
// # Basic Usage
//
//	orch := analysis.NewOrchestrator(whitepaperEngine, serviceEngine)
//
//	result, err := orch.AnalyzeComprehensive(ctx, analysis.Request{
//	    ArchitectureData: archDoc,
//	    Services:         serviceDoc,
//	    RPOTarget:        "1 hour",
//	    RTOTarget:        "4 hours",
//	})
//
// When both payloads are present the result document contains both engine
// documents plus an overall_score equal to the arithmetic mean of the two
// engine scores. An engine document without an overall_score key contributes
// 0 to the mean; this default is a documented policy choice, not an inferred
// engine contract.
package analysis
