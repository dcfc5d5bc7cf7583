package analysis

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func staticEngine(doc Document) Engine {
	return EngineFunc(func(ctx context.Context, payload Document, rpo, rto string) (Document, error) {
		return doc, nil
	})
}

func failingEngine(err error) Engine {
	return EngineFunc(func(ctx context.Context, payload Document, rpo, rto string) (Document, error) {
		return nil, err
	})
}

func TestAnalyzeWhitepaper(t *testing.T) {
	want := Document{"overall_score": 80.0, "pillars": []string{"reliability"}}
	orch := NewOrchestrator(staticEngine(want), staticEngine(nil))

	got, err := orch.AnalyzeWhitepaper(context.Background(), Request{
		ArchitectureData: Document{"x": 1},
	})
	if err != nil {
		t.Fatalf("AnalyzeWhitepaper() error = %v", err)
	}
	if Score(got) != 80.0 {
		t.Errorf("Score = %v, want 80", Score(got))
	}
}

func TestAnalyzeWhitepaper_MissingPayload(t *testing.T) {
	orch := NewOrchestrator(staticEngine(nil), staticEngine(nil))

	_, err := orch.AnalyzeWhitepaper(context.Background(), Request{})
	if err == nil {
		t.Fatal("Expected error for missing payload")
	}
	if KindOf(err) != KindValidation {
		t.Errorf("KindOf(err) = %v, want KindValidation", KindOf(err))
	}
	if !errors.Is(err, ErrMissingArchitecture) {
		t.Errorf("err = %v, want ErrMissingArchitecture", err)
	}
}

func TestAnalyzeServices_MissingPayload(t *testing.T) {
	orch := NewOrchestrator(staticEngine(nil), staticEngine(nil))

	_, err := orch.AnalyzeServices(context.Background(), Request{})
	if !errors.Is(err, ErrMissingServices) {
		t.Errorf("err = %v, want ErrMissingServices", err)
	}
	if KindOf(err) != KindValidation {
		t.Errorf("KindOf(err) = %v, want KindValidation", KindOf(err))
	}
}

func TestAnalyzeServices_EngineFailure(t *testing.T) {
	engineErr := errors.New("backend unavailable")
	orch := NewOrchestrator(staticEngine(nil), failingEngine(engineErr))

	_, err := orch.AnalyzeServices(context.Background(), Request{
		Services: Document{"api": Document{}},
	})
	if err == nil {
		t.Fatal("Expected engine failure to surface")
	}
	if KindOf(err) != KindCollaborator {
		t.Errorf("KindOf(err) = %v, want KindCollaborator", KindOf(err))
	}
	if !errors.Is(err, engineErr) {
		t.Errorf("err = %v, want wrapped engine error", err)
	}
}

func TestAnalyzeComprehensive_BothPayloads(t *testing.T) {
	orch := NewOrchestrator(
		staticEngine(Document{"overall_score": 90.0}),
		staticEngine(Document{"overall_score": 70.0}),
	)

	got, err := orch.AnalyzeComprehensive(context.Background(), Request{
		ArchitectureData: Document{"x": 1},
		Services:         Document{"api": Document{}},
	})
	if err != nil {
		t.Fatalf("AnalyzeComprehensive() error = %v", err)
	}

	if _, ok := got[KeyWhitepaper]; !ok {
		t.Error("Result missing whitepaper_analysis")
	}
	if _, ok := got[KeyServices]; !ok {
		t.Error("Result missing service_analysis")
	}
	if score := got[KeyOverallScore]; score != 80.0 {
		t.Errorf("overall_score = %v, want 80", score)
	}
}

func TestAnalyzeComprehensive_ScoreDefaultsToZero(t *testing.T) {
	// An engine document lacking overall_score contributes 0 to the mean.
	orch := NewOrchestrator(
		staticEngine(Document{"overall_score": 90.0}),
		staticEngine(Document{"findings": []string{}}),
	)

	got, err := orch.AnalyzeComprehensive(context.Background(), Request{
		ArchitectureData: Document{"x": 1},
		Services:         Document{"api": Document{}},
	})
	if err != nil {
		t.Fatalf("AnalyzeComprehensive() error = %v", err)
	}
	if score := got[KeyOverallScore]; score != 45.0 {
		t.Errorf("overall_score = %v, want 45", score)
	}
}

func TestAnalyzeComprehensive_SinglePayload(t *testing.T) {
	orch := NewOrchestrator(
		staticEngine(Document{"overall_score": 90.0}),
		staticEngine(Document{"overall_score": 70.0}),
	)

	got, err := orch.AnalyzeComprehensive(context.Background(), Request{
		ArchitectureData: Document{"x": 1},
	})
	if err != nil {
		t.Fatalf("AnalyzeComprehensive() error = %v", err)
	}

	if _, ok := got[KeyWhitepaper]; !ok {
		t.Error("Result missing whitepaper_analysis")
	}
	if _, ok := got[KeyServices]; ok {
		t.Error("Result should not contain service_analysis")
	}
	if _, ok := got[KeyOverallScore]; ok {
		t.Error("Result should not contain overall_score for a single engine")
	}
}

func TestAnalyzeComprehensive_NeitherPayload(t *testing.T) {
	orch := NewOrchestrator(staticEngine(nil), staticEngine(nil))

	_, err := orch.AnalyzeComprehensive(context.Background(), Request{})
	if !errors.Is(err, ErrMissingPayload) {
		t.Errorf("err = %v, want ErrMissingPayload", err)
	}
	if KindOf(err) != KindValidation {
		t.Errorf("KindOf(err) = %v, want KindValidation", KindOf(err))
	}
}

func TestAnalyzeComprehensive_EngineFailure(t *testing.T) {
	orch := NewOrchestrator(
		staticEngine(Document{"overall_score": 90.0}),
		failingEngine(errors.New("boom")),
	)

	_, err := orch.AnalyzeComprehensive(context.Background(), Request{
		ArchitectureData: Document{"x": 1},
		Services:         Document{"api": Document{}},
	})
	if err == nil {
		t.Fatal("Expected engine failure to surface")
	}
	if KindOf(err) != KindCollaborator {
		t.Errorf("KindOf(err) = %v, want KindCollaborator", KindOf(err))
	}
}

func TestRequest_Normalize(t *testing.T) {
	req := Request{}.Normalize()
	if req.RPOTarget != DefaultRPOTarget {
		t.Errorf("RPOTarget = %q, want %q", req.RPOTarget, DefaultRPOTarget)
	}
	if req.RTOTarget != DefaultRTOTarget {
		t.Errorf("RTOTarget = %q, want %q", req.RTOTarget, DefaultRTOTarget)
	}

	req = Request{RPOTarget: "30 minutes", RTOTarget: "2 hours"}.Normalize()
	if req.RPOTarget != "30 minutes" || req.RTOTarget != "2 hours" {
		t.Error("Normalize should not override explicit targets")
	}
}

func TestOrchestrator_Guard(t *testing.T) {
	var calls atomic.Int32
	guard := guardFunc(func(ctx context.Context, op func(context.Context) error) error {
		calls.Add(1)
		return op(ctx)
	})

	orch := NewOrchestrator(
		staticEngine(Document{"overall_score": 50.0}),
		staticEngine(Document{"overall_score": 50.0}),
		WithGuard(guard),
	)

	_, err := orch.AnalyzeComprehensive(context.Background(), Request{
		ArchitectureData: Document{"x": 1},
		Services:         Document{"api": Document{}},
	})
	if err != nil {
		t.Fatalf("AnalyzeComprehensive() error = %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("Guard calls = %d, want 2", calls.Load())
	}
}

type guardFunc func(ctx context.Context, op func(context.Context) error) error

func (f guardFunc) Execute(ctx context.Context, op func(context.Context) error) error {
	return f(ctx, op)
}
