package physics

import (
	"fmt"

	"github.com/san-kum/jumpsim/internal/dynamo"
	"github.com/san-kum/jumpsim/internal/energy"
)

// Reference jump: a 90 kg jumper reaching 1 m of air off a mat that gives
// 0.5 m at the lowest point.
const (
	DefaultMass       = 90.0
	DefaultGravity    = 9.81
	DefaultMatDepth   = 0.5
	DefaultDropHeight = 1.0
)

// TrampolineParams configures the hybrid jump model. Stiffness zero means
// derive it from energy conservation so a drop from DropHeight bottoms
// out exactly at height zero.
type TrampolineParams struct {
	Mass       float64
	Gravity    float64
	MatDepth   float64
	DropHeight float64
	Stiffness  float64
	Damping    float64
}

func DefaultTrampolineParams() TrampolineParams {
	return TrampolineParams{
		Mass:       DefaultMass,
		Gravity:    DefaultGravity,
		MatDepth:   DefaultMatDepth,
		DropHeight: DefaultDropHeight,
	}
}

// Trampoline is a one-body hybrid system: free fall above the mat
// surface, a damped spring plus gravity below it. Height is measured from
// the lowest point of the reference bounce, so the undeformed mat surface
// sits at MatDepth and mat compression is MatDepth minus height.
type Trampoline struct {
	Mass       float64
	Gravity    float64
	MatDepth   float64
	DropHeight float64
	Stiffness  float64
	Damping    float64
}

func NewTrampoline(p TrampolineParams) (*Trampoline, error) {
	switch {
	case p.Mass <= 0:
		return nil, fmt.Errorf("%w: mass %g", dynamo.ErrParameterBounds, p.Mass)
	case p.Gravity <= 0:
		return nil, fmt.Errorf("%w: gravity %g", dynamo.ErrParameterBounds, p.Gravity)
	case p.MatDepth <= 0:
		return nil, fmt.Errorf("%w: mat depth %g", dynamo.ErrParameterBounds, p.MatDepth)
	case p.DropHeight <= 0:
		return nil, fmt.Errorf("%w: drop height %g", dynamo.ErrParameterBounds, p.DropHeight)
	case p.Stiffness < 0:
		return nil, fmt.Errorf("%w: stiffness %g", dynamo.ErrParameterBounds, p.Stiffness)
	case p.Damping < 0:
		return nil, fmt.Errorf("%w: damping %g", dynamo.ErrParameterBounds, p.Damping)
	}

	if p.Stiffness == 0 {
		p.Stiffness = energy.DeriveStiffness(p.Mass, p.Gravity, p.MatDepth, p.DropHeight)
	}

	return &Trampoline{
		Mass:       p.Mass,
		Gravity:    p.Gravity,
		MatDepth:   p.MatDepth,
		DropHeight: p.DropHeight,
		Stiffness:  p.Stiffness,
		Damping:    p.Damping,
	}, nil
}

func (tr *Trampoline) StateDim() int   { return 2 }
func (tr *Trampoline) ControlDim() int { return 1 }

// DefaultState is at rest at the apex of the reference drop.
func (tr *Trampoline) DefaultState() dynamo.State {
	return dynamo.State{tr.DropHeight, 0}
}

// InContact reports whether the mat is deformed at height y.
func (tr *Trampoline) InContact(y float64) bool {
	return y < tr.MatDepth
}

// Compression returns mat deformation at height y, zero in flight.
func (tr *Trampoline) Compression(y float64) float64 {
	if y >= tr.MatDepth {
		return 0
	}
	return tr.MatDepth - y
}

// Derive switches between flight and contact. The spring force vanishes
// at the touch point, so acceleration is continuous across the boundary.
// Leg pushes only act while the mat is loaded, and only upward.
func (tr *Trampoline) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	y, v := x[0], x[1]

	a := -tr.Gravity
	if y < tr.MatDepth {
		push := 0.0
		if len(u) > 0 && u[0] > 0 {
			push = u[0]
		}
		a += (tr.Stiffness*(tr.MatDepth-y) - tr.Damping*v + push) / tr.Mass
	}

	return dynamo.State{v, a}
}

func (tr *Trampoline) Energy(x dynamo.State) float64 {
	return tr.Energies(x).Mechanical()
}

func (tr *Trampoline) Energies(x dynamo.State) dynamo.Partition {
	y, v := x[0], x[1]
	comp := tr.Compression(y)

	return dynamo.Partition{
		Kinetic:       0.5 * tr.Mass * v * v,
		Gravitational: tr.Mass * tr.Gravity * y,
		Elastic:       0.5 * tr.Stiffness * comp * comp,
	}
}

// Ledger returns the conservation bookkeeping for this mat and drop.
func (tr *Trampoline) Ledger() (*energy.Ledger, error) {
	return energy.NewLedger(tr.Mass, tr.Gravity, tr.MatDepth, tr.DropHeight, tr.Stiffness)
}

func (tr *Trampoline) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":        tr.Mass,
		"gravity":     tr.Gravity,
		"mat_depth":   tr.MatDepth,
		"drop_height": tr.DropHeight,
		"stiffness":   tr.Stiffness,
		"damping":     tr.Damping,
	}
}

func (tr *Trampoline) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		if value <= 0 {
			return fmt.Errorf("%w: mass %g", dynamo.ErrParameterBounds, value)
		}
		tr.Mass = value
	case "gravity":
		if value <= 0 {
			return fmt.Errorf("%w: gravity %g", dynamo.ErrParameterBounds, value)
		}
		tr.Gravity = value
	case "mat_depth":
		if value <= 0 {
			return fmt.Errorf("%w: mat depth %g", dynamo.ErrParameterBounds, value)
		}
		tr.MatDepth = value
	case "drop_height":
		if value <= 0 {
			return fmt.Errorf("%w: drop height %g", dynamo.ErrParameterBounds, value)
		}
		tr.DropHeight = value
	case "stiffness":
		if value <= 0 {
			return fmt.Errorf("%w: stiffness %g", dynamo.ErrParameterBounds, value)
		}
		tr.Stiffness = value
	case "damping":
		if value < 0 {
			return fmt.Errorf("%w: damping %g", dynamo.ErrParameterBounds, value)
		}
		tr.Damping = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
