package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/drpet/observe"
)

// Guard wraps engine invocations with hardening patterns (circuit breaking,
// rate limiting, retries). resilience.Executor satisfies this interface.
type Guard interface {
	Execute(ctx context.Context, op func(context.Context) error) error
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithGuard wraps all engine calls with the given guard.
func WithGuard(g Guard) OrchestratorOption {
	return func(o *Orchestrator) {
		o.guard = g
	}
}

// WithLogger sets the logger used for collaborator failures.
func WithLogger(l observe.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// Orchestrator fans analysis requests out to the whitepaper and service
// engines and combines their scores.
type Orchestrator struct {
	whitepaper Engine
	services   Engine
	guard      Guard
	logger     observe.Logger
}

// NewOrchestrator creates a new orchestrator over the two engines.
func NewOrchestrator(whitepaper, services Engine, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		whitepaper: whitepaper,
		services:   services,
		logger:     observe.NopLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// AnalyzeWhitepaper runs the whitepaper engine against architecture_data.
func (o *Orchestrator) AnalyzeWhitepaper(ctx context.Context, req Request) (Document, error) {
	if len(req.ArchitectureData) == 0 {
		return nil, validation("whitepaper", ErrMissingArchitecture)
	}
	req = req.Normalize()

	return o.run(ctx, "whitepaper", o.whitepaper, req.ArchitectureData, req)
}

// AnalyzeServices runs the service engine against the services payload.
func (o *Orchestrator) AnalyzeServices(ctx context.Context, req Request) (Document, error) {
	if len(req.Services) == 0 {
		return nil, validation("services", ErrMissingServices)
	}
	req = req.Normalize()

	return o.run(ctx, "services", o.services, req.Services, req)
}

// AnalyzeComprehensive runs whichever engines the request carries payloads
// for. When both run, the result gains an overall_score equal to the mean
// of the two engine scores.
func (o *Orchestrator) AnalyzeComprehensive(ctx context.Context, req Request) (Document, error) {
	if len(req.ArchitectureData) == 0 && len(req.Services) == 0 {
		return nil, validation("comprehensive", ErrMissingPayload)
	}
	req = req.Normalize()

	var wpDoc, svcDoc Document

	// Engines share no mutable state, so both may run at once.
	g, gctx := errgroup.WithContext(ctx)
	if len(req.ArchitectureData) > 0 {
		g.Go(func() error {
			doc, err := o.run(gctx, "whitepaper", o.whitepaper, req.ArchitectureData, req)
			if err != nil {
				return err
			}
			wpDoc = doc
			return nil
		})
	}
	if len(req.Services) > 0 {
		g.Go(func() error {
			doc, err := o.run(gctx, "services", o.services, req.Services, req)
			if err != nil {
				return err
			}
			svcDoc = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := Document{}
	if wpDoc != nil {
		results[KeyWhitepaper] = wpDoc
	}
	if svcDoc != nil {
		results[KeyServices] = svcDoc
	}
	if wpDoc != nil && svcDoc != nil {
		results[KeyOverallScore] = (Score(wpDoc) + Score(svcDoc)) / 2
	}

	return results, nil
}

// run invokes an engine through the guard, if configured, and tags any
// failure as a collaborator error.
func (o *Orchestrator) run(ctx context.Context, op string, engine Engine, payload Document, req Request) (Document, error) {
	var doc Document

	invoke := func(ctx context.Context) error {
		var err error
		doc, err = engine.Analyze(ctx, payload, req.RPOTarget, req.RTOTarget)
		return err
	}

	var err error
	if o.guard != nil {
		err = o.guard.Execute(ctx, invoke)
	} else {
		err = invoke(ctx)
	}

	if err != nil {
		o.logger.Error(ctx, "analysis engine failed",
			observe.Field{Key: "engine", Value: op},
			observe.Field{Key: "error", Value: err.Error()},
		)
		return nil, collaborator(op, err)
	}

	return doc, nil
}
