package dynamo

import (
	"math"
)

// State is a system state vector. Jump models use two components,
// [height, velocity], with height in meters above the lowest point of
// the bounce and velocity positive upward.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Control is a control input vector. Jump controllers use one component,
// the upward leg-push force in newtons, effective only during mat contact.
type Control []float64

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Hamiltonian is implemented by systems that can report total
// mechanical energy for a state.
type Hamiltonian interface {
	Energy(x State) float64
}

// Partition is mechanical energy split into its three stores, in joules.
type Partition struct {
	Kinetic       float64
	Gravitational float64
	Elastic       float64
}

func (p Partition) Mechanical() float64 {
	return p.Kinetic + p.Gravitational + p.Elastic
}

// Partitioned is implemented by systems that can split mechanical energy
// into kinetic, gravitational and elastic stores.
type Partitioned interface {
	Energies(x State) Partition
}

// Kinematic is implemented by systems with a closed-form trajectory.
// Used for integrator accuracy checks and animation without integration.
type Kinematic interface {
	HeightAt(t float64) float64
	VelocityAt(t float64) float64
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

// AdaptiveIntegrator takes one accepted step, shrinking dt internally
// until the local error passes tol. It returns the new state, the step
// size actually taken, and the proposed size for the next step.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(dyn System, x State, u Control, t, dt, tol float64) (State, float64, float64, error)
}

type Controller interface {
	Compute(x State, t float64) Control
}

type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, u Control, t float64)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Config struct {
	Dt       float64
	Duration float64
	// Seed tags the run in stored metadata and gives ensemble members
	// distinct identities. The current models are deterministic; it is
	// reserved for stochastic inputs such as noisy pushes.
	Seed          int64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
}

// DefaultConfig returns settings suited to bounce dynamics: the contact
// phase with a stiff mat is the fastest timescale, so the default step
// stays well below its period.
func DefaultConfig() Config {
	return Config{
		Dt:            0.002,
		Duration:      12.0,
		Tolerance:     1e-6,
		MaxDt:         0.05,
		MinDt:         1e-8,
		Adaptive:      false,
		ValidateState: true,
	}
}

type Result struct {
	States      []State
	Controls    []Control
	Times       []float64
	Energies    []Partition
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}

// Heights extracts the height component of every recorded state.
func (r *Result) Heights() []float64 {
	hs := make([]float64, len(r.States))
	for i, s := range r.States {
		if len(s) > 0 {
			hs[i] = s[0]
		}
	}
	return hs
}

// Velocities extracts the velocity component of every recorded state.
func (r *Result) Velocities() []float64 {
	vs := make([]float64, len(r.States))
	for i, s := range r.States {
		if len(s) > 1 {
			vs[i] = s[1]
		}
	}
	return vs
}
