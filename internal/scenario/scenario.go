// Package scenario runs scripted batches of jump simulations described
// in YAML: a shared base config plus per-run overrides, executed
// sequentially or fanned out in parallel.
package scenario

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/jumpsim/internal/config"
	"github.com/san-kum/jumpsim/internal/dynamo"
	"github.com/san-kum/jumpsim/internal/experiment"
	"github.com/san-kum/jumpsim/internal/storage"
)

// Script is one scenario file.
type Script struct {
	Name     string         `yaml:"name"`
	Base     *config.Config `yaml:"base"`
	Parallel bool           `yaml:"parallel"`
	Limit    int            `yaml:"limit"`
	Runs     []Run          `yaml:"runs"`
}

// Run is one entry of a script: a label plus --set style overrides on
// the base config.
type Run struct {
	Name      string   `yaml:"name"`
	Overrides []string `yaml:"set"`
}

// Outcome pairs a finished run with its storage ID.
type Outcome struct {
	Run    Run
	RunID  string
	Result *dynamo.Result
}

func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	script := &Script{}
	if err := yaml.Unmarshal(data, script); err != nil {
		return nil, err
	}

	if script.Base == nil {
		script.Base = config.DefaultConfig()
	} else {
		// Re-decode on top of defaults so partial base sections keep them.
		base := config.DefaultConfig()
		raw, err := yaml.Marshal(script.Base)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, base); err != nil {
			return nil, err
		}
		script.Base = base
	}

	if len(script.Runs) == 0 {
		return nil, fmt.Errorf("scenario %q has no runs", script.Name)
	}
	return script, nil
}

// Execute runs every entry of the script. A non-nil store persists each
// run as it finishes. Outcomes keep script order regardless of the
// execution mode.
func Execute(ctx context.Context, script *Script, store *storage.Store) ([]Outcome, error) {
	outcomes := make([]Outcome, len(script.Runs))

	g, ctx := errgroup.WithContext(ctx)
	if !script.Parallel {
		g.SetLimit(1)
	} else if script.Limit > 0 {
		g.SetLimit(script.Limit)
	}

	for i, run := range script.Runs {
		g.Go(func() error {
			cfg := *script.Base
			if err := config.ApplyOverrides(&cfg, run.Overrides); err != nil {
				return fmt.Errorf("run %q: %w", run.Name, err)
			}

			exp, err := experiment.New(&cfg, nil)
			if err != nil {
				return fmt.Errorf("run %q: %w", run.Name, err)
			}

			result, err := exp.Run(ctx)
			if err != nil {
				return fmt.Errorf("run %q: %w", run.Name, err)
			}

			outcome := Outcome{Run: run, Result: result}
			if store != nil {
				series := exp.Series(result)
				runID, err := store.Save(storage.RunMetadata{
					Model:      cfg.Model,
					Seed:       cfg.Seed,
					Dt:         cfg.Dt,
					Duration:   cfg.Duration,
					Integrator: cfg.Integrator,
					Controller: cfg.Controller,
					Metrics:    result.Metrics,
				}, series, experiment.PushColumn(result))
				if err != nil {
					return fmt.Errorf("run %q: save: %w", run.Name, err)
				}
				outcome.RunID = runID
			}

			outcomes[i] = outcome
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
