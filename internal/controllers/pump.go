package controllers

import (
	"github.com/san-kum/jumpsim/internal/dynamo"
)

// Pump pushes with the legs during mat contact to reach a target apex.
// The error signal is the shortfall between the apex the current state
// would coast to and the target; a PID law shapes it into a push force.
// Pushing only works against a loaded mat, so output is zero in flight
// and never negative: legs cannot pull.
type Pump struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Target   float64
	MaxForce float64

	matDepth float64
	gravity  float64

	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

// NewPump builds a pump controller for a mat whose undeformed surface
// sits at matDepth. MaxForce caps the push; zero or negative means
// uncapped.
func NewPump(kp, ki, kd, target, maxForce, matDepth, gravity float64) *Pump {
	return &Pump{
		Kp:       kp,
		Ki:       ki,
		Kd:       kd,
		Target:   target,
		MaxForce: maxForce,
		matDepth: matDepth,
		gravity:  gravity,
		first:    true,
	}
}

// coastApex estimates the apex the jumper would reach ballistically from
// the current height and velocity, ignoring the mat.
func (p *Pump) coastApex(y, v float64) float64 {
	if v <= 0 {
		return y
	}
	return y + v*v/(2*p.gravity)
}

func (p *Pump) Compute(x dynamo.State, t float64) dynamo.Control {
	if len(x) < 2 {
		return dynamo.Control{0}
	}

	y, v := x[0], x[1]

	if y >= p.matDepth {
		// Airborne: nothing to push against. Freeze the derivative
		// chain so re-entry does not see a stale timestamp.
		p.first = true
		return dynamo.Control{0}
	}

	err := p.Target - p.coastApex(y, v)

	var u float64
	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		u = p.Kp * err
	} else if dt := t - p.prevT; dt > 0 {
		p.integral += err * dt
		derivative := (err - p.prevErr) / dt
		u = p.Kp*err + p.Ki*p.integral + p.Kd*derivative
		p.prevErr = err
		p.prevT = t
	} else {
		u = p.Kp * err
	}

	if u < 0 {
		u = 0
	}
	if p.MaxForce > 0 && u > p.MaxForce {
		u = p.MaxForce
	}
	return dynamo.Control{u}
}

// Reset clears integral and derivative state.
func (p *Pump) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}

// GetParams returns tunable parameters for live adjustment.
func (p *Pump) GetParams() map[string]float64 {
	return map[string]float64{
		"kp":        p.Kp,
		"ki":        p.Ki,
		"kd":        p.Kd,
		"target":    p.Target,
		"max_force": p.MaxForce,
	}
}

// SetParam adjusts a pump parameter.
func (p *Pump) SetParam(name string, value float64) {
	switch name {
	case "kp":
		p.Kp = value
	case "ki":
		p.Ki = value
	case "kd":
		p.Kd = value
	case "target":
		p.Target = value
	case "max_force":
		p.MaxForce = value
	}
}
