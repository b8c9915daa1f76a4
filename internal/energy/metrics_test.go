package energy

import (
	"math"
	"testing"

	"github.com/san-kum/jumpsim/internal/dynamo"
)

// bouncer is a stand-in system with the reference partition behavior.
type bouncer struct {
	ledger *Ledger
}

func newBouncer(t *testing.T) *bouncer {
	t.Helper()
	led, err := NewLedger(90, 9.81, 0.5, 1.0, 0)
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	return &bouncer{ledger: led}
}

func (b *bouncer) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -b.ledger.Gravity()}
}
func (b *bouncer) StateDim() int   { return 2 }
func (b *bouncer) ControlDim() int { return 1 }
func (b *bouncer) Energy(x dynamo.State) float64 {
	return b.Energies(x).Mechanical()
}
func (b *bouncer) Energies(x dynamo.State) dynamo.Partition {
	return b.ledger.Partition(x[0])
}

func TestDrift(t *testing.T) {
	b := newBouncer(t)
	m := NewDrift(b)

	m.Observe(dynamo.State{1.0, 0}, nil, 0)
	m.Observe(dynamo.State{0.5, 0}, nil, 0.1)
	if m.Value() != 0 {
		t.Errorf("lossless ledger states should not drift, got %v", m.Value())
	}

	m.Reset()
	m.Observe(dynamo.State{1.0, 0}, nil, 0)
	m.Observe(dynamo.State{1.1, 0}, nil, 0.1)
	if m.Value() == 0 {
		t.Error("expected drift for an over-budget state")
	}
}

func TestApex(t *testing.T) {
	m := NewApex()

	heights := []float64{0.2, 0.9, 0.4, 1.3, 0.7}
	for i, h := range heights {
		m.Observe(dynamo.State{h, 0}, nil, float64(i))
	}

	if m.Value() != 1.3 {
		t.Errorf("apex = %v, want 1.3", m.Value())
	}

	m.Reset()
	m.Observe(dynamo.State{-0.4, 0}, nil, 0)
	if m.Value() != -0.4 {
		t.Errorf("apex after reset = %v, want -0.4", m.Value())
	}
}

func TestPeakCompression(t *testing.T) {
	b := newBouncer(t)
	m := NewPeakCompression(b.ledger.Compression)

	for _, h := range []float64{1.0, 0.6, 0.3, 0.1, 0.4, 0.8} {
		m.Observe(dynamo.State{h, 0}, nil, 0)
	}

	if math.Abs(m.Value()-0.4) > 1e-12 {
		t.Errorf("peak compression = %v, want 0.4", m.Value())
	}
}

func TestContactFraction(t *testing.T) {
	m := NewContactFraction(0.5)

	for _, h := range []float64{1.0, 0.8, 0.4, 0.2, 0.6, 0.3} {
		m.Observe(dynamo.State{h, 0}, nil, 0)
	}

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("contact fraction = %v, want 0.5", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("contact fraction after reset = %v, want 0", m.Value())
	}
}

func TestShare(t *testing.T) {
	b := newBouncer(t)

	grav := NewShare(b, StoreGravitational)
	grav.Observe(dynamo.State{1.0, 0}, nil, 0)
	if math.Abs(grav.Value()-1.0) > 1e-9 {
		t.Errorf("gravitational share at apex = %v, want 1", grav.Value())
	}

	elastic := NewShare(b, StoreElastic)
	elastic.Observe(dynamo.State{0.0, 0}, nil, 0)
	if math.Abs(elastic.Value()-1.0) > 1e-9 {
		t.Errorf("elastic share at lowest point = %v, want 1", elastic.Value())
	}

	kin := NewShare(b, StoreKinetic)
	kin.Observe(dynamo.State{0.5, 0}, nil, 0)
	if math.Abs(kin.Value()-0.5) > 1e-9 {
		t.Errorf("kinetic share at mat surface = %v, want 0.5", kin.Value())
	}
}

func TestEffort(t *testing.T) {
	m := NewEffort()

	m.Observe(dynamo.State{0.3, -1}, dynamo.Control{200}, 0)
	m.Observe(dynamo.State{0.2, -2}, dynamo.Control{-100}, 0.1)

	if math.Abs(m.Value()-150) > 1e-12 {
		t.Errorf("mean push = %v, want 150", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("push after reset = %v, want 0", m.Value())
	}
}

func TestSeriesFromResult(t *testing.T) {
	b := newBouncer(t)

	r := &dynamo.Result{
		States: []dynamo.State{{1.0, 0}, {0.4, -3.0}},
		Times:  []float64{0, 0.1},
		Energies: []dynamo.Partition{
			b.Energies(dynamo.State{1.0, 0}),
			b.Energies(dynamo.State{0.4, -3.0}),
		},
	}

	s := FromResult(r, b.ledger.Compression)
	if s.Len() != 2 {
		t.Fatalf("series length = %d, want 2", s.Len())
	}

	if s.Samples[0].Height != 1.0 || s.Samples[0].Velocity != 0 {
		t.Errorf("sample 0 = %+v", s.Samples[0])
	}
	if s.Samples[1].Velocity != -3.0 {
		t.Errorf("sample 1 velocity = %v, want -3", s.Samples[1].Velocity)
	}
	if math.Abs(s.Samples[1].Compression-0.1) > 1e-12 {
		t.Errorf("sample 1 compression = %v, want 0.1", s.Samples[1].Compression)
	}
	if s.Samples[0].Mechanical == 0 {
		t.Error("sample 0 lost its energy partition")
	}

	times := s.Times()
	if len(times) != 2 || times[1] != 0.1 {
		t.Errorf("times = %v", times)
	}
}
