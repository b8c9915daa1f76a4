package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/jumpsim/internal/config"
	"github.com/san-kum/jumpsim/internal/dynamo"
	"github.com/san-kum/jumpsim/internal/energy"
	"github.com/san-kum/jumpsim/internal/physics"
)

// Experiment is one configured simulation: model, integrator, controller
// and metrics resolved from a config, ready to run.
type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	dyn       dynamo.System
	simulator *dynamo.Simulator
}

// New resolves the config against the registry. A nil registry uses the
// default one.
func New(cfg *config.Config, registry *Registry) (*Experiment, error) {
	if registry == nil {
		registry = NewRegistry()
	}

	dyn, err := registry.GetModel(cfg.Model, cfg.ModelParams())
	if err != nil {
		return nil, err
	}

	integ, err := registry.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	ctrlName := cfg.Controller
	if ctrlName == "" {
		ctrlName = "none"
	}
	ctrl, err := registry.GetController(ctrlName, cfg.ControllerParams())
	if err != nil {
		return nil, err
	}

	sim := dynamo.New(dyn, integ, ctrl)
	for _, m := range DefaultMetrics(dyn) {
		sim.AddMetric(m)
	}

	return &Experiment{
		cfg:       cfg,
		registry:  registry,
		dyn:       dyn,
		simulator: sim,
	}, nil
}

// System returns the resolved model.
func (e *Experiment) System() dynamo.System { return e.dyn }

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *dynamo.Simulator { return e.simulator }

// SimConfig translates the experiment config into simulator settings.
func (e *Experiment) SimConfig() dynamo.Config {
	simCfg := dynamo.DefaultConfig()
	simCfg.Dt = e.cfg.Dt
	simCfg.Duration = e.cfg.Duration
	simCfg.Seed = e.cfg.Seed
	simCfg.Adaptive = e.cfg.Integrator == "rk45"
	return simCfg
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not set up")
	}
	return e.simulator.Run(ctx, e.cfg.InitState(), e.SimConfig())
}

// Compression returns the height-to-deformation map of the resolved
// model, nil when the model has no mat.
func (e *Experiment) Compression() func(y float64) float64 {
	switch m := e.dyn.(type) {
	case *physics.Trampoline:
		return m.Compression
	case *physics.Harmonic:
		return m.Compression
	}
	return nil
}

// Series prices a finished run into energy samples.
func (e *Experiment) Series(result *dynamo.Result) *energy.Series {
	return energy.FromResult(result, e.Compression())
}

// PushColumn extracts the push force trace from a run, aligned to the
// state samples. Returns nil when every push is zero, so passive runs
// persist without the column.
func PushColumn(result *dynamo.Result) []float64 {
	if len(result.Controls) == 0 {
		return nil
	}

	pushes := make([]float64, 0, len(result.Controls)+1)
	pushes = append(pushes, 0) // states lead controls by one sample
	active := false
	for _, u := range result.Controls {
		v := 0.0
		if len(u) > 0 {
			v = u[0]
		}
		if v != 0 {
			active = true
		}
		pushes = append(pushes, v)
	}
	if !active {
		return nil
	}
	return pushes
}
