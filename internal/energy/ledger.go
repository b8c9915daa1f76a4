package energy

import (
	"fmt"
	"math"

	"github.com/san-kum/jumpsim/internal/dynamo"
)

// SnapTolerance is the height band around zero treated as exactly the
// lowest point of the bounce.
const SnapTolerance = 1e-3

// DeriveStiffness returns the spring constant that makes a drop from
// dropHeight bottom out at height zero: the whole mass*gravity*dropHeight
// budget fits in the fully compressed mat.
func DeriveStiffness(mass, gravity, matDepth, dropHeight float64) float64 {
	return 2 * mass * gravity * dropHeight / (matDepth * matDepth)
}

// Sample is the energy picture at one instant of a jump. Velocity is
// signed for integrated runs; samples priced by the ledger carry the
// conservation speed, which is unsigned.
type Sample struct {
	Time          float64
	Height        float64
	Velocity      float64
	Compression   float64
	Kinetic       float64
	Gravitational float64
	Elastic       float64
	Mechanical    float64
}

// Ledger prices heights of a lossless bounce. Heights are measured from
// the lowest point of the reference bounce; the undeformed mat surface
// sits at matDepth.
type Ledger struct {
	mass       float64
	gravity    float64
	matDepth   float64
	dropHeight float64
	stiffness  float64
	total      float64
}

// NewLedger builds a ledger for the given jump. Stiffness zero means
// derive it so the drop bottoms out exactly at height zero.
func NewLedger(mass, gravity, matDepth, dropHeight, stiffness float64) (*Ledger, error) {
	switch {
	case mass <= 0:
		return nil, fmt.Errorf("%w: mass %g", dynamo.ErrParameterBounds, mass)
	case gravity <= 0:
		return nil, fmt.Errorf("%w: gravity %g", dynamo.ErrParameterBounds, gravity)
	case matDepth <= 0:
		return nil, fmt.Errorf("%w: mat depth %g", dynamo.ErrParameterBounds, matDepth)
	case dropHeight <= 0:
		return nil, fmt.Errorf("%w: drop height %g", dynamo.ErrParameterBounds, dropHeight)
	case stiffness < 0:
		return nil, fmt.Errorf("%w: stiffness %g", dynamo.ErrParameterBounds, stiffness)
	}

	if stiffness == 0 {
		stiffness = DeriveStiffness(mass, gravity, matDepth, dropHeight)
	}

	return &Ledger{
		mass:       mass,
		gravity:    gravity,
		matDepth:   matDepth,
		dropHeight: dropHeight,
		stiffness:  stiffness,
		total:      mass * gravity * dropHeight,
	}, nil
}

func (l *Ledger) Mass() float64       { return l.mass }
func (l *Ledger) Gravity() float64    { return l.gravity }
func (l *Ledger) MatDepth() float64   { return l.matDepth }
func (l *Ledger) DropHeight() float64 { return l.dropHeight }
func (l *Ledger) Stiffness() float64  { return l.stiffness }

// Total returns the mechanical energy budget of the jump.
func (l *Ledger) Total() float64 { return l.total }

// Compression returns mat deformation at height y, zero in flight.
func (l *Ledger) Compression(y float64) float64 {
	if y >= l.matDepth {
		return 0
	}
	return l.matDepth - y
}

// SpeedAt returns the conservation speed at height y. The residual
// kinetic energy clamps at zero, so heights marginally outside the bounce
// envelope price to zero speed instead of NaN.
func (l *Ledger) SpeedAt(y float64) float64 {
	return math.Sqrt(2 * l.kineticAt(y) / l.mass)
}

func (l *Ledger) kineticAt(y float64) float64 {
	comp := l.Compression(y)
	k := l.total - l.mass*l.gravity*y - 0.5*l.stiffness*comp*comp
	if k < 0 {
		k = 0
	}
	return k
}

// At prices height y into its stores. Heights within SnapTolerance of
// zero snap to zero first.
func (l *Ledger) At(y float64) Sample {
	if math.Abs(y) <= SnapTolerance {
		y = 0
	}

	comp := l.Compression(y)
	ug := l.mass * l.gravity * y
	uel := 0.5 * l.stiffness * comp * comp
	k := l.total - ug - uel
	if k < 0 {
		k = 0
	}

	return Sample{
		Height:        y,
		Velocity:      math.Sqrt(2 * k / l.mass),
		Compression:   comp,
		Kinetic:       k,
		Gravitational: ug,
		Elastic:       uel,
		Mechanical:    k + ug + uel,
	}
}

// Partition returns the energy split at height y as a dynamo partition.
func (l *Ledger) Partition(y float64) dynamo.Partition {
	s := l.At(y)
	return dynamo.Partition{
		Kinetic:       s.Kinetic,
		Gravitational: s.Gravitational,
		Elastic:       s.Elastic,
	}
}

// Sweep prices a whole trajectory: heightAt(t) sampled every dt over the
// given duration, end inclusive.
func (l *Ledger) Sweep(heightAt func(t float64) float64, dt, duration float64) *Series {
	if dt <= 0 || duration <= 0 {
		return &Series{}
	}

	n := int(duration/dt) + 1
	series := &Series{Samples: make([]Sample, 0, n)}
	for i := 0; i < n; i++ {
		t := float64(i) * dt
		s := l.At(heightAt(t))
		s.Time = t
		series.Samples = append(series.Samples, s)
	}
	return series
}
