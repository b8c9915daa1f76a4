// Package experiment wires models, integrators, controllers and metrics
// together into runnable simulations.
package experiment

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/jumpsim/internal/controllers"
	"github.com/san-kum/jumpsim/internal/dynamo"
	"github.com/san-kum/jumpsim/internal/energy"
	"github.com/san-kum/jumpsim/internal/integrators"
	"github.com/san-kum/jumpsim/internal/physics"
)

// Registry maps names to factories. Model and controller factories take
// the flattened parameter maps produced by the config package.
type Registry struct {
	models      map[string]func(params map[string]float64) (dynamo.System, error)
	integrators map[string]func() dynamo.Integrator
	controllers map[string]func(params map[string]float64) dynamo.Controller
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]func(map[string]float64) (dynamo.System, error)),
		integrators: make(map[string]func() dynamo.Integrator),
		controllers: make(map[string]func(map[string]float64) dynamo.Controller),
	}

	r.models["trampoline"] = func(params map[string]float64) (dynamo.System, error) {
		p := physics.DefaultTrampolineParams()
		if v, ok := params["mass"]; ok && v != 0 {
			p.Mass = v
		}
		if v, ok := params["gravity"]; ok && v != 0 {
			p.Gravity = v
		}
		if v, ok := params["mat_depth"]; ok && v != 0 {
			p.MatDepth = v
		}
		if v, ok := params["drop_height"]; ok && v != 0 {
			p.DropHeight = v
		}
		p.Stiffness = params["stiffness"]
		p.Damping = params["damping"]
		return physics.NewTrampoline(p)
	}
	r.models["harmonic"] = func(params map[string]float64) (dynamo.System, error) {
		p := physics.DefaultTrampolineParams()
		if v, ok := params["mass"]; ok && v != 0 {
			p.Mass = v
		}
		if v, ok := params["gravity"]; ok && v != 0 {
			p.Gravity = v
		}
		if v, ok := params["mat_depth"]; ok && v != 0 {
			p.MatDepth = v
		}
		if v, ok := params["drop_height"]; ok && v != 0 {
			p.DropHeight = v
		}
		led, err := energy.NewLedger(p.Mass, p.Gravity, p.MatDepth, p.DropHeight, params["stiffness"])
		if err != nil {
			return nil, err
		}
		omega := params["omega"]
		if omega == 0 {
			omega = physics.DefaultOmega
		}
		return physics.NewHarmonic(led, omega)
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["verlet"] = func() dynamo.Integrator { return integrators.NewVerlet() }
	r.integrators["leapfrog"] = func() dynamo.Integrator { return integrators.NewLeapfrog() }
	r.integrators["rk45"] = func() dynamo.Integrator { return integrators.NewRK45() }

	r.controllers["none"] = func(params map[string]float64) dynamo.Controller {
		return controllers.NewNone(1)
	}
	r.controllers["pump"] = func(params map[string]float64) dynamo.Controller {
		matDepth := params["mat_depth"]
		if matDepth == 0 {
			matDepth = physics.DefaultMatDepth
		}
		gravity := params["gravity"]
		if gravity == 0 {
			gravity = physics.DefaultGravity
		}
		return controllers.NewPump(
			params["kp"], params["ki"], params["kd"],
			params["target"], params["max_force"],
			matDepth, gravity,
		)
	}

	return r
}

func (r *Registry) GetModel(name string, params map[string]float64) (dynamo.System, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s (available: %s)", name, strings.Join(r.ListModels(), ", "))
	}
	return fn(params)
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %s)", name, strings.Join(r.ListIntegrators(), ", "))
	}
	return fn(), nil
}

func (r *Registry) GetController(name string, params map[string]float64) (dynamo.Controller, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s (available: %s)", name, strings.Join(r.ListControllers(), ", "))
	}
	return fn(params), nil
}

func (r *Registry) ListModels() []string      { return sortedKeys(r.models) }
func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }
func (r *Registry) ListControllers() []string { return sortedKeys(r.controllers) }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns the standard jump bookkeeping for a model.
func DefaultMetrics(dyn dynamo.System) []dynamo.Metric {
	ms := []dynamo.Metric{
		energy.NewDrift(dyn),
		energy.NewApex(),
	}

	if part, ok := dyn.(dynamo.Partitioned); ok {
		ms = append(ms,
			energy.NewShare(part, energy.StoreKinetic),
			energy.NewShare(part, energy.StoreGravitational),
			energy.NewShare(part, energy.StoreElastic),
		)
	}

	switch m := dyn.(type) {
	case *physics.Trampoline:
		ms = append(ms,
			energy.NewPeakCompression(m.Compression),
			energy.NewContactFraction(m.MatDepth),
			energy.NewEffort(),
		)
	case *physics.Harmonic:
		ms = append(ms,
			energy.NewPeakCompression(m.Compression),
			energy.NewContactFraction(m.Ledger().MatDepth()),
		)
	}

	return ms
}
