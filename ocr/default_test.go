package ocr

import (
	"context"
	"errors"
	"testing"
)

type fakeEngine struct {
	name  string
	calls int
	err   error
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Recognize(ctx context.Context, in Input) (Result, error) {
	f.calls++
	if f.err != nil {
		return Result{}, f.err
	}
	return Result{InputID: in.ID, PlainText: "text-" + in.ID}, nil
}

type fakeBatchEngine struct {
	fakeEngine
	batchCalls int
}

func (f *fakeBatchEngine) RecognizeBatch(ctx context.Context, inputs []Input) ([]Result, error) {
	f.batchCalls++
	results := make([]Result, 0, len(inputs))
	for _, in := range inputs {
		results = append(results, Result{InputID: in.ID})
	}
	return results, nil
}

func TestRecognizeAllSequential(t *testing.T) {
	engine := &fakeEngine{name: "fake"}
	inputs := []Input{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	results, err := RecognizeAll(context.Background(), engine, inputs)
	if err != nil {
		t.Fatalf("RecognizeAll() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if engine.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", engine.calls)
	}
	if results[1].InputID != "b" {
		t.Fatalf("result order broken: %+v", results)
	}
}

func TestRecognizeAllPrefersBatch(t *testing.T) {
	engine := &fakeBatchEngine{fakeEngine: fakeEngine{name: "fake"}}
	inputs := []Input{{ID: "a"}, {ID: "b"}}

	results, err := RecognizeAll(context.Background(), engine, inputs)
	if err != nil {
		t.Fatalf("RecognizeAll() error = %v", err)
	}
	if engine.batchCalls != 1 {
		t.Fatalf("expected batch path, got %d batch calls", engine.batchCalls)
	}
	if engine.calls != 0 {
		t.Fatalf("sequential path should not run, got %d calls", engine.calls)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestRecognizeAllEngineError(t *testing.T) {
	wantErr := errors.New("boom")
	engine := &fakeEngine{name: "fake", err: wantErr}

	_, err := RecognizeAll(context.Background(), engine, []Input{{ID: "a"}})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped engine error, got %v", err)
	}
}

func TestRecognizeAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := &fakeEngine{name: "fake"}
	_, err := RecognizeAll(ctx, engine, []Input{{ID: "a"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if engine.calls != 0 {
		t.Fatalf("engine should not run after cancellation, got %d calls", engine.calls)
	}
}

func TestDefaultEngineRegistry(t *testing.T) {
	orig := DefaultEngine()
	defer SetDefaultEngine(orig)

	engine := &fakeEngine{name: "fake"}
	SetDefaultEngine(engine)
	if DefaultEngine().Name() != "fake" {
		t.Fatalf("default engine not replaced")
	}
}
