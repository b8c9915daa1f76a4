package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/jumpsim/internal/dynamo"
	"github.com/san-kum/jumpsim/internal/energy"
)

// DefaultOmega is the angular frequency of the classroom oscillation,
// one radian per second: a full bounce every 2*pi seconds.
const DefaultOmega = 1.0

// Harmonic is the smooth classroom trajectory: height following a raised
// cosine between the apex and the lowest point,
//
//	y(t) = apex * (1 + cos(omega*t)) / 2.
//
// As an ODE it is simple harmonic motion about the half-apex height. Its
// energy split is priced by the conservation ledger of the real mat, the
// way the blackboard derivation does it, so the speed it reports at a
// height is the speed the true bounce would have there rather than the
// cosine's own derivative.
type Harmonic struct {
	Apex  float64
	Omega float64

	ledger *energy.Ledger
}

func NewHarmonic(led *energy.Ledger, omega float64) (*Harmonic, error) {
	if led == nil {
		return nil, fmt.Errorf("%w: harmonic model needs a ledger", dynamo.ErrParameterBounds)
	}
	if omega <= 0 {
		return nil, fmt.Errorf("%w: omega %g", dynamo.ErrParameterBounds, omega)
	}

	return &Harmonic{
		Apex:   led.DropHeight(),
		Omega:  omega,
		ledger: led,
	}, nil
}

func (h *Harmonic) StateDim() int   { return 2 }
func (h *Harmonic) ControlDim() int { return 0 }

// DefaultState is the apex at rest, where the cosine starts.
func (h *Harmonic) DefaultState() dynamo.State {
	return dynamo.State{h.Apex, 0}
}

// Period returns the duration of one full bounce.
func (h *Harmonic) Period() float64 {
	return 2 * math.Pi / h.Omega
}

// HeightAt returns the closed-form height at time t.
func (h *Harmonic) HeightAt(t float64) float64 {
	return h.Apex * (1 + math.Cos(h.Omega*t)) / 2
}

// VelocityAt returns the closed-form trajectory velocity at time t.
func (h *Harmonic) VelocityAt(t float64) float64 {
	return -h.Apex * h.Omega / 2 * math.Sin(h.Omega*t)
}

func (h *Harmonic) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	y, v := x[0], x[1]
	return dynamo.State{v, -h.Omega * h.Omega * (y - h.Apex/2)}
}

// Energy returns the constant budget of the jump the ledger prices.
func (h *Harmonic) Energy(x dynamo.State) float64 {
	return h.ledger.Total()
}

func (h *Harmonic) Energies(x dynamo.State) dynamo.Partition {
	return h.ledger.Partition(x[0])
}

// Ledger exposes the conservation bookkeeping behind the oscillation.
func (h *Harmonic) Ledger() *energy.Ledger {
	return h.ledger
}

// Compression returns mat deformation at height y, zero in flight.
func (h *Harmonic) Compression(y float64) float64 {
	return h.ledger.Compression(y)
}

func (h *Harmonic) GetParams() map[string]float64 {
	return map[string]float64{
		"apex":  h.Apex,
		"omega": h.Omega,
	}
}

func (h *Harmonic) SetParam(name string, value float64) error {
	switch name {
	case "apex":
		if value <= 0 {
			return fmt.Errorf("%w: apex %g", dynamo.ErrParameterBounds, value)
		}
		h.Apex = value
	case "omega":
		if value <= 0 {
			return fmt.Errorf("%w: omega %g", dynamo.ErrParameterBounds, value)
		}
		h.Omega = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
