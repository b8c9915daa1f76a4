package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/jumpsim/internal/dynamo"
)

func TestTrampolineDimensions(t *testing.T) {
	tr, err := NewTrampoline(DefaultTrampolineParams())
	if err != nil {
		t.Fatalf("construct: %v", err)
	}

	if tr.StateDim() != 2 {
		t.Errorf("expected state dim 2, got %d", tr.StateDim())
	}
	if tr.ControlDim() != 1 {
		t.Errorf("expected control dim 1, got %d", tr.ControlDim())
	}
}

func TestTrampolineDerivedStiffness(t *testing.T) {
	tr, err := NewTrampoline(DefaultTrampolineParams())
	if err != nil {
		t.Fatalf("construct: %v", err)
	}

	if math.Abs(tr.Stiffness-7063.2) > 1e-9 {
		t.Errorf("derived stiffness = %f, want 7063.2", tr.Stiffness)
	}
}

func TestTrampolineFlight(t *testing.T) {
	tr, _ := NewTrampoline(DefaultTrampolineParams())

	x := dynamo.State{0.8, -1.5}
	dx := tr.Derive(x, dynamo.Control{500}, 0)

	if dx[0] != -1.5 {
		t.Errorf("dy/dt = %f, want -1.5", dx[0])
	}
	if math.Abs(dx[1]-(-tr.Gravity)) > 1e-12 {
		t.Errorf("flight acceleration = %f, want %f (pushes must not act in the air)", dx[1], -tr.Gravity)
	}
}

func TestTrampolineContact(t *testing.T) {
	tr, _ := NewTrampoline(DefaultTrampolineParams())

	y := 0.3
	x := dynamo.State{y, -2.0}
	dx := tr.Derive(x, nil, 0)

	expected := -tr.Gravity + tr.Stiffness*(tr.MatDepth-y)/tr.Mass
	if math.Abs(dx[1]-expected) > 1e-9 {
		t.Errorf("contact acceleration = %f, want %f", dx[1], expected)
	}
}

func TestTrampolineAccelerationContinuousAtSurface(t *testing.T) {
	tr, _ := NewTrampoline(DefaultTrampolineParams())

	above := tr.Derive(dynamo.State{tr.MatDepth + 1e-12, -3.0}, nil, 0)
	below := tr.Derive(dynamo.State{tr.MatDepth - 1e-12, -3.0}, nil, 0)

	if math.Abs(above[1]-below[1]) > 1e-6 {
		t.Errorf("acceleration jumps at the surface: %f vs %f", above[1], below[1])
	}
}

func TestTrampolinePushOnlyUpwardAndOnlyInContact(t *testing.T) {
	tr, _ := NewTrampoline(DefaultTrampolineParams())

	y := 0.2
	free := tr.Derive(dynamo.State{y, 0}, nil, 0)
	pushed := tr.Derive(dynamo.State{y, 0}, dynamo.Control{900}, 0)
	pulled := tr.Derive(dynamo.State{y, 0}, dynamo.Control{-900}, 0)

	if pushed[1] <= free[1] {
		t.Errorf("push did not add upward acceleration: %f vs %f", pushed[1], free[1])
	}
	if math.Abs(pushed[1]-free[1]-900/tr.Mass) > 1e-9 {
		t.Errorf("push acceleration off by %f", pushed[1]-free[1]-900/tr.Mass)
	}
	if pulled[1] != free[1] {
		t.Errorf("negative push must be ignored: %f vs %f", pulled[1], free[1])
	}
}

func TestTrampolineDamping(t *testing.T) {
	p := DefaultTrampolineParams()
	p.Damping = 120
	tr, _ := NewTrampoline(p)

	down := tr.Derive(dynamo.State{0.3, -2.0}, nil, 0)
	up := tr.Derive(dynamo.State{0.3, 2.0}, nil, 0)

	// Damping opposes motion in both directions.
	if down[1] <= up[1] {
		t.Errorf("damping sign wrong: a(down)=%f a(up)=%f", down[1], up[1])
	}
}

func TestTrampolineEnergies(t *testing.T) {
	tr, _ := NewTrampoline(DefaultTrampolineParams())
	total := tr.Mass * tr.Gravity * tr.DropHeight

	apex := tr.Energies(dynamo.State{tr.DropHeight, 0})
	if apex.Kinetic != 0 || apex.Elastic != 0 {
		t.Errorf("apex partition = %+v", apex)
	}
	if math.Abs(apex.Gravitational-total) > 1e-9 {
		t.Errorf("apex gravitational = %f, want %f", apex.Gravitational, total)
	}

	bottom := tr.Energies(dynamo.State{0, 0})
	if bottom.Kinetic != 0 || bottom.Gravitational != 0 {
		t.Errorf("bottom partition = %+v", bottom)
	}
	if math.Abs(bottom.Elastic-total) > 1e-9 {
		t.Errorf("bottom elastic = %f, want %f (the drop should bottom out at zero)", bottom.Elastic, total)
	}

	surface := tr.Energies(dynamo.State{tr.MatDepth, -3.0})
	if surface.Elastic != 0 {
		t.Errorf("undeformed mat stores energy: %f", surface.Elastic)
	}
	if math.Abs(tr.Energy(dynamo.State{tr.MatDepth, -3.0})-surface.Mechanical()) > 1e-12 {
		t.Error("Energy and Energies disagree")
	}
}

func TestTrampolineCompression(t *testing.T) {
	tr, _ := NewTrampoline(DefaultTrampolineParams())

	tests := []struct {
		y    float64
		want float64
	}{
		{1.0, 0},
		{0.5, 0},
		{0.3, 0.2},
		{0.0, 0.5},
		{-0.1, 0.6},
	}

	for _, tt := range tests {
		if got := tr.Compression(tt.y); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Compression(%f) = %f, want %f", tt.y, got, tt.want)
		}
	}
}

func TestTrampolineInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TrampolineParams)
	}{
		{"zero mass", func(p *TrampolineParams) { p.Mass = 0 }},
		{"negative gravity", func(p *TrampolineParams) { p.Gravity = -9.81 }},
		{"zero mat depth", func(p *TrampolineParams) { p.MatDepth = 0 }},
		{"zero drop height", func(p *TrampolineParams) { p.DropHeight = 0 }},
		{"negative stiffness", func(p *TrampolineParams) { p.Stiffness = -1 }},
		{"negative damping", func(p *TrampolineParams) { p.Damping = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultTrampolineParams()
			tt.mutate(&p)
			if _, err := NewTrampoline(p); !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestTrampolineSetParam(t *testing.T) {
	tr, _ := NewTrampoline(DefaultTrampolineParams())

	if err := tr.SetParam("damping", 80); err != nil {
		t.Fatalf("set damping: %v", err)
	}
	if tr.Damping != 80 {
		t.Errorf("damping = %f, want 80", tr.Damping)
	}

	if err := tr.SetParam("mass", -5); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds for negative mass, got %v", err)
	}
	if err := tr.SetParam("wings", 1); err == nil {
		t.Error("expected error for unknown param")
	}

	params := tr.GetParams()
	if params["damping"] != 80 {
		t.Errorf("GetParams damping = %f, want 80", params["damping"])
	}
	if len(params) != 6 {
		t.Errorf("expected 6 params, got %d", len(params))
	}
}
