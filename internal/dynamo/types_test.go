package dynamo

import (
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"resting on mat", State{0.5, 0.0}, true},
		{"apex", State{1.0, 0.0}, true},
		{"falling", State{0.8, -2.1}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Norm(t *testing.T) {
	tests := []struct {
		state    State
		expected float64
	}{
		{State{3, 4}, 5.0},
		{State{1, 0}, 1.0},
		{State{0, 0}, 0.0},
		{State{1, 1, 1, 1}, 2.0},
	}

	for _, tt := range tests {
		if got := tt.state.Norm(); math.Abs(got-tt.expected) > 1e-10 {
			t.Errorf("Norm(%v) = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

func TestState_Arithmetic(t *testing.T) {
	a := State{1, 2}
	b := State{4, 5}

	sum := a.Add(b)
	if sum[0] != 5 || sum[1] != 7 {
		t.Errorf("Add failed: got %v", sum)
	}

	diff := b.Sub(a)
	if diff[0] != 3 || diff[1] != 3 {
		t.Errorf("Sub failed: got %v", diff)
	}

	scaled := a.Scale(2)
	if scaled[0] != 2 || scaled[1] != 4 {
		t.Errorf("Scale failed: got %v", scaled)
	}
}

func TestState_CloneIndependent(t *testing.T) {
	a := State{1.0, -3.0}
	b := a.Clone()
	b[0] = 99

	if a[0] != 1.0 {
		t.Errorf("Clone aliases original: %v", a)
	}
}

func TestPartition_Mechanical(t *testing.T) {
	p := Partition{Kinetic: 100, Gravitational: 700, Elastic: 82.9}
	if math.Abs(p.Mechanical()-882.9) > 1e-12 {
		t.Errorf("Mechanical() = %v, want 882.9", p.Mechanical())
	}
}

func TestResult_HeightsVelocities(t *testing.T) {
	r := &Result{
		States: []State{{1.0, 0.0}, {0.9, -1.2}, {0.5, -3.0}},
	}

	hs := r.Heights()
	vs := r.Velocities()

	if len(hs) != 3 || len(vs) != 3 {
		t.Fatalf("expected 3 samples, got %d heights, %d velocities", len(hs), len(vs))
	}
	if hs[2] != 0.5 {
		t.Errorf("Heights()[2] = %v, want 0.5", hs[2])
	}
	if vs[1] != -1.2 {
		t.Errorf("Velocities()[1] = %v, want -1.2", vs[1])
	}
}
