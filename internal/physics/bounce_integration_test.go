package physics_test

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/jumpsim/internal/dynamo"
	"github.com/san-kum/jumpsim/internal/energy"
	"github.com/san-kum/jumpsim/internal/integrators"
	"github.com/san-kum/jumpsim/internal/physics"
)

func referenceTestLedger(t *testing.T) *energy.Ledger {
	t.Helper()
	led, err := energy.NewLedger(physics.DefaultMass, physics.DefaultGravity,
		physics.DefaultMatDepth, physics.DefaultDropHeight, 0)
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	return led
}

func TestLosslessBounceReturnsToDropHeight(t *testing.T) {
	tr, err := physics.NewTrampoline(physics.DefaultTrampolineParams())
	if err != nil {
		t.Fatalf("construct: %v", err)
	}

	sim := dynamo.New(tr, integrators.NewRK4(), nil)
	cfg := dynamo.Config{Dt: 0.001, Duration: 10.0, ValidateState: true}

	result, err := sim.Run(context.Background(), tr.DefaultState(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("run recorded errors: %v", result.Errors)
	}

	if result.EnergyDrift > 1e-4 {
		t.Errorf("energy drift %.2e, want < 1e-4", result.EnergyDrift)
	}

	var apexAfterFirstBounce, lowest float64
	lowest = math.Inf(1)
	for i, s := range result.States {
		if result.Times[i] > 1.0 && s[0] > apexAfterFirstBounce {
			apexAfterFirstBounce = s[0]
		}
		if s[0] < lowest {
			lowest = s[0]
		}
	}

	if math.Abs(apexAfterFirstBounce-tr.DropHeight) > 1e-3 {
		t.Errorf("bounce apex = %f, want %f", apexAfterFirstBounce, tr.DropHeight)
	}
	if lowest < -1e-3 {
		t.Errorf("bounce went %f below the reference lowest point", lowest)
	}
}

func TestDampedBounceLosesEnergy(t *testing.T) {
	p := physics.DefaultTrampolineParams()
	p.Damping = 150
	tr, err := physics.NewTrampoline(p)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}

	sim := dynamo.New(tr, integrators.NewRK4(), nil)
	cfg := dynamo.Config{Dt: 0.001, Duration: 8.0, ValidateState: true}

	result, err := sim.Run(context.Background(), tr.DefaultState(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	first := result.Energies[0].Mechanical()
	last := result.Energies[len(result.Energies)-1].Mechanical()
	if last >= first {
		t.Errorf("damped bounce kept its energy: %f -> %f", first, last)
	}

	// The mat only dissipates while loaded, so energy must never grow.
	prev := first
	for i, p := range result.Energies {
		e := p.Mechanical()
		if e > prev+1e-4 {
			t.Fatalf("energy grew at sample %d: %f -> %f", i, prev, e)
		}
		prev = e
	}
}

func TestHarmonicRunStaysOnTheCosine(t *testing.T) {
	led := referenceTestLedger(t)
	h, err := physics.NewHarmonic(led, physics.DefaultOmega)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}

	sim := dynamo.New(h, integrators.NewRK4(), nil)
	cfg := dynamo.Config{Dt: 0.01, Duration: h.Period(), ValidateState: true}

	result, err := sim.Run(context.Background(), h.DefaultState(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for i, s := range result.States {
		want := h.HeightAt(result.Times[i])
		if math.Abs(s[0]-want) > 1e-5 {
			t.Fatalf("t=%.2f: height %f off the closed form %f", result.Times[i], s[0], want)
		}
	}
}
