package dynamo

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEnsembleRun(t *testing.T) {
	build := func(run int) (*Simulator, State, error) {
		x0 := State{1.0 + 0.1*float64(run), 0.0}
		return New(&fallDynamics{}, eulerStep{}, nil), x0, nil
	}

	ens := NewEnsemble(build, 4, 42)
	ens.SetLimit(2)

	results, err := ens.Run(context.Background(), Config{Dt: 0.01, Duration: 0.5})
	if err != nil {
		t.Fatalf("ensemble run failed: %v", err)
	}

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r == nil {
			t.Fatalf("result %d is nil", i)
		}
		if r.States[0][0] != 1.0+0.1*float64(i) {
			t.Errorf("run %d initial height = %v, want %v", i, r.States[0][0], 1.0+0.1*float64(i))
		}
		if r.StepsTaken != 50 {
			t.Errorf("run %d took %d steps, want 50", i, r.StepsTaken)
		}
	}
}

func TestEnsembleBuildError(t *testing.T) {
	buildErr := errors.New("bad run setup")
	build := func(run int) (*Simulator, State, error) {
		if run == 2 {
			return nil, nil, buildErr
		}
		return New(&fallDynamics{}, eulerStep{}, nil), State{1.0, 0.0}, nil
	}

	ens := NewEnsemble(build, 4, 0)
	_, err := ens.Run(context.Background(), Config{Dt: 0.1, Duration: 0.5})
	if !errors.Is(err, buildErr) {
		t.Errorf("expected build error, got %v", err)
	}
}
