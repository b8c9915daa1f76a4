package dynamo

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs many realizations of an experiment in parallel. Simulators
// are not safe for concurrent use, so each run gets a fresh one from the
// build function, which also supplies that run's initial state.
type Ensemble struct {
	build     func(run int) (*Simulator, State, error)
	numRuns   int
	seedStart int64
	limit     int
}

func NewEnsemble(build func(run int) (*Simulator, State, error), numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// SetLimit bounds the number of simulations running at once.
// Zero or negative means unbounded.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(i)

			s, x0, err := e.build(i)
			if err != nil {
				return err
			}

			r, err := s.Run(ctx, x0, cfgCopy)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
