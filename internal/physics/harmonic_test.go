package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/jumpsim/internal/dynamo"
	"github.com/san-kum/jumpsim/internal/energy"
)

func referenceLedger(t *testing.T) *energy.Ledger {
	t.Helper()
	led, err := energy.NewLedger(DefaultMass, DefaultGravity, DefaultMatDepth, DefaultDropHeight, 0)
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	return led
}

func TestHarmonicClosedForm(t *testing.T) {
	h, err := NewHarmonic(referenceLedger(t), DefaultOmega)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}

	if math.Abs(h.HeightAt(0)-1.0) > 1e-12 {
		t.Errorf("height at t=0 = %f, want 1", h.HeightAt(0))
	}
	if math.Abs(h.HeightAt(math.Pi)) > 1e-12 {
		t.Errorf("height at half period = %f, want 0", h.HeightAt(math.Pi))
	}
	if math.Abs(h.HeightAt(2*math.Pi)-1.0) > 1e-12 {
		t.Errorf("height after one period = %f, want 1", h.HeightAt(2*math.Pi))
	}

	if math.Abs(h.VelocityAt(0)) > 1e-12 {
		t.Errorf("velocity at apex = %f, want 0", h.VelocityAt(0))
	}
	if math.Abs(h.VelocityAt(math.Pi/2)-(-0.5)) > 1e-12 {
		t.Errorf("velocity at quarter period = %f, want -0.5", h.VelocityAt(math.Pi/2))
	}

	if math.Abs(h.Period()-2*math.Pi) > 1e-12 {
		t.Errorf("period = %f, want 2*pi", h.Period())
	}
}

func TestHarmonicDeriveMatchesClosedForm(t *testing.T) {
	h, _ := NewHarmonic(referenceLedger(t), DefaultOmega)

	// d²y/dt² of the cosine is -omega²*(y - apex/2).
	for _, tt := range []float64{0, 0.7, 1.9, 4.2} {
		y := h.HeightAt(tt)
		v := h.VelocityAt(tt)
		dx := h.Derive(dynamo.State{y, v}, nil, tt)

		if math.Abs(dx[0]-v) > 1e-12 {
			t.Errorf("t=%f: dy/dt = %f, want %f", tt, dx[0], v)
		}
		want := -h.Omega * h.Omega * (y - h.Apex/2)
		if math.Abs(dx[1]-want) > 1e-12 {
			t.Errorf("t=%f: dv/dt = %f, want %f", tt, dx[1], want)
		}
	}
}

func TestHarmonicEnergiesUseTheLedger(t *testing.T) {
	led := referenceLedger(t)
	h, _ := NewHarmonic(led, DefaultOmega)

	// The oscillation reports the real bounce's split at each height,
	// regardless of the kinematic velocity in the state.
	p := h.Energies(dynamo.State{0.5, -0.25})
	want := led.Partition(0.5)

	if math.Abs(p.Kinetic-want.Kinetic) > 1e-12 ||
		math.Abs(p.Gravitational-want.Gravitational) > 1e-12 ||
		math.Abs(p.Elastic-want.Elastic) > 1e-12 {
		t.Errorf("partition = %+v, want %+v", p, want)
	}

	if math.Abs(h.Energy(dynamo.State{0.9, 0})-led.Total()) > 1e-12 {
		t.Errorf("energy = %f, want the ledger budget %f", h.Energy(dynamo.State{0.9, 0}), led.Total())
	}
}

func TestHarmonicConstruction(t *testing.T) {
	if _, err := NewHarmonic(nil, 1.0); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds for nil ledger, got %v", err)
	}
	if _, err := NewHarmonic(referenceLedger(t), 0); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds for zero omega, got %v", err)
	}

	h, err := NewHarmonic(referenceLedger(t), 2.0)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if h.Apex != DefaultDropHeight {
		t.Errorf("apex = %f, want %f", h.Apex, DefaultDropHeight)
	}
}

func TestHarmonicSetParam(t *testing.T) {
	h, _ := NewHarmonic(referenceLedger(t), DefaultOmega)

	if err := h.SetParam("omega", 2.0); err != nil {
		t.Fatalf("set omega: %v", err)
	}
	if math.Abs(h.Period()-math.Pi) > 1e-12 {
		t.Errorf("period after omega=2 is %f, want pi", h.Period())
	}

	if err := h.SetParam("omega", -1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
	if err := h.SetParam("spin", 3); err == nil {
		t.Error("expected error for unknown param")
	}
}
