package integrators

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/jumpsim/internal/dynamo"
)

// bounceOscillator is the classroom jump trajectory as an ODE: simple
// harmonic motion about half the apex. Started at the apex at rest it
// follows y(t) = apex*(1+cos(omega*t))/2 exactly.
type bounceOscillator struct {
	apex  float64
	omega float64
}

func (b *bounceOscillator) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -b.omega * b.omega * (x[0] - b.apex/2)}
}

func (b *bounceOscillator) StateDim() int   { return 2 }
func (b *bounceOscillator) ControlDim() int { return 0 }

func (b *bounceOscillator) heightAt(t float64) float64 {
	return b.apex * (1 + math.Cos(b.omega*t)) / 2
}

func (b *bounceOscillator) velocityAt(t float64) float64 {
	return -b.apex * b.omega / 2 * math.Sin(b.omega*t)
}

func (b *bounceOscillator) energy(x dynamo.State) float64 {
	d := x[0] - b.apex/2
	return 0.5*x[1]*x[1] + 0.5*b.omega*b.omega*d*d
}

type freeFall struct{}

func (freeFall) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -9.81}
}

func (freeFall) StateDim() int   { return 2 }
func (freeFall) ControlDim() int { return 0 }

func runFor(integ dynamo.Integrator, dyn dynamo.System, x0 dynamo.State, dt float64, steps int) dynamo.State {
	x := x0.Clone()
	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, nil, float64(i)*dt, dt)
	}
	return x
}

func TestRK4Accuracy(t *testing.T) {
	dyn := &bounceOscillator{apex: 1.0, omega: 1.0}
	x := runFor(NewRK4(), dyn, dynamo.State{1.0, 0.0}, 0.01, 100)

	if math.Abs(x[0]-dyn.heightAt(1.0)) > 1e-6 {
		t.Errorf("height error too large: got %.8f, want %.8f", x[0], dyn.heightAt(1.0))
	}
	if math.Abs(x[1]-dyn.velocityAt(1.0)) > 1e-6 {
		t.Errorf("velocity error too large: got %.8f, want %.8f", x[1], dyn.velocityAt(1.0))
	}
}

func TestRK4ExactOnFreeFall(t *testing.T) {
	x := runFor(NewRK4(), freeFall{}, dynamo.State{1.0, 0.0}, 0.1, 10)

	if math.Abs(x[0]-(1.0-4.905)) > 1e-10 {
		t.Errorf("free-fall height = %.12f, want %.12f", x[0], 1.0-4.905)
	}
	if math.Abs(x[1]-(-9.81)) > 1e-10 {
		t.Errorf("free-fall velocity = %.12f, want -9.81", x[1])
	}
}

func TestEulerGainsEnergyOnABounce(t *testing.T) {
	dyn := &bounceOscillator{apex: 1.0, omega: 1.0}
	x0 := dynamo.State{1.0, 0.0}

	euler := runFor(NewEuler(), dyn, x0, 0.01, 100)
	rk4 := runFor(NewRK4(), dyn, x0, 0.01, 100)

	eulerErr := math.Abs(euler[0] - dyn.heightAt(1.0))
	rk4Err := math.Abs(rk4[0] - dyn.heightAt(1.0))

	if eulerErr < 100*rk4Err {
		t.Errorf("expected Euler to be far worse than RK4: %.2e vs %.2e", eulerErr, rk4Err)
	}
	if dyn.energy(euler) <= dyn.energy(x0) {
		t.Errorf("Euler should pump energy into the oscillation: %f -> %f",
			dyn.energy(x0), dyn.energy(euler))
	}
}

func TestSymplecticEnergyBounded(t *testing.T) {
	dyn := &bounceOscillator{apex: 1.0, omega: 1.0}
	x0 := dynamo.State{1.0, 0.0}
	e0 := dyn.energy(x0)

	integs := map[string]dynamo.Integrator{
		"verlet":   NewVerlet(),
		"leapfrog": NewLeapfrog(),
	}

	for name, integ := range integs {
		t.Run(name, func(t *testing.T) {
			dt := 0.05
			steps := int(20 * 2 * math.Pi / dt)

			x := x0.Clone()
			for i := 0; i < steps; i++ {
				x = integ.Step(dyn, x, nil, float64(i)*dt, dt)

				drift := math.Abs(dyn.energy(x)-e0) / e0
				if drift > 0.01 {
					t.Fatalf("energy drift %.4f after %d steps", drift, i+1)
				}
			}
		})
	}
}

func TestVerletTracksOnePeriod(t *testing.T) {
	dyn := &bounceOscillator{apex: 1.0, omega: 1.0}
	dt := 0.01
	steps := int(2 * math.Pi / dt)

	x := runFor(NewVerlet(), dyn, dynamo.State{1.0, 0.0}, dt, steps)

	want := dyn.heightAt(float64(steps) * dt)
	if math.Abs(x[0]-want) > 5e-3 {
		t.Errorf("height after one period = %f, want %f", x[0], want)
	}
}

func TestRK45AgreesWithClosedForm(t *testing.T) {
	dyn := &bounceOscillator{apex: 1.0, omega: 1.0}
	x := runFor(NewRK45(), dyn, dynamo.State{1.0, 0.0}, 0.01, 100)

	if math.Abs(x[0]-dyn.heightAt(1.0)) > 1e-6 {
		t.Errorf("height error too large: got %.8f, want %.8f", x[0], dyn.heightAt(1.0))
	}
}

func TestRK45AdaptiveRunTracksClosedForm(t *testing.T) {
	dyn := &bounceOscillator{apex: 1.0, omega: 2 * math.Pi}
	sim := dynamo.New(dyn, NewRK45(), nil)

	cfg := dynamo.DefaultConfig()
	cfg.Dt = 0.002
	cfg.Duration = 6.0
	cfg.Adaptive = true

	result, err := sim.Run(context.Background(), dynamo.State{1.0, 0.0}, cfg)
	if err != nil {
		t.Fatalf("adaptive run failed: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("run recorded errors: %v", result.Errors)
	}

	last := result.Times[len(result.Times)-1]
	if math.Abs(last-cfg.Duration) > 1e-9 {
		t.Fatalf("run ended at t=%g, want %g", last, cfg.Duration)
	}

	// Every recorded state must sit on the trajectory at its recorded
	// time, six full periods in.
	worst := 0.0
	for i, ti := range result.Times {
		worst = math.Max(worst, math.Abs(result.States[i][0]-dyn.heightAt(ti)))
	}
	if worst > 5e-3 {
		t.Errorf("worst height error %g against closed form", worst)
	}
}

func TestRK45StepControl(t *testing.T) {
	integ := NewRK45()

	// Flight is essentially exact for the pair: the requested step is
	// accepted as is and the proposal for the next one stretches.
	_, used, next, err := integ.StepAdaptive(freeFall{}, dynamo.State{10, 0}, nil, 0, 0.001, 1e-6)
	if err != nil {
		t.Fatalf("adaptive step: %v", err)
	}
	if used != 0.001 {
		t.Errorf("flight step should be accepted at the requested size, used dt=%g", used)
	}
	if next <= 0.001 {
		t.Errorf("expected step growth in flight, got next dt=%g", next)
	}

	// A stiff mat at a coarse step forces a shrink before acceptance.
	stiff := &bounceOscillator{apex: 1.0, omega: 50.0}
	x0 := dynamo.State{0.2, -3.0}
	xNew, used, _, err := integ.StepAdaptive(stiff, x0, nil, 0, 0.1, 1e-6)
	if err != nil {
		t.Fatalf("adaptive step: %v", err)
	}
	if used >= 0.1 {
		t.Errorf("expected step shrink in stiff contact, used dt=%g", used)
	}

	// The returned state must correspond to the used step, not the
	// requested one. Check against a finely resolved RK4 run over the
	// same span.
	ref := runFor(NewRK4(), stiff, x0, used/2000, 2000)
	if diff := xNew.Sub(ref).Norm(); diff > 1e-5 {
		t.Errorf("accepted state disagrees with reference over used dt: |diff|=%g", diff)
	}
}
