// Package optim tunes jump parameters by exhaustive grid search over a
// run metric, e.g. pump gains that land the apex on target.
package optim

import (
	"context"
	"math"
	"strconv"

	"github.com/san-kum/jumpsim/internal/config"
	"github.com/san-kum/jumpsim/internal/experiment"
)

// Objective scores a finished run; lower is better.
type Objective func(metrics map[string]float64) float64

// TargetApex penalizes the squared distance between the reached apex and
// the wanted one.
func TargetApex(target float64) Objective {
	return func(metrics map[string]float64) float64 {
		d := metrics["apex_height"] - target
		return d * d
	}
}

// GridSearch enumerates the cartesian product of candidate values for a
// set of override keys (config --set syntax, e.g. "pump.kp").
type GridSearch struct {
	keys   []string
	ranges [][]float64
}

func NewGridSearch(keys []string, ranges [][]float64) *GridSearch {
	return &GridSearch{keys: keys, ranges: ranges}
}

// Result is the best point found and its score.
type Result struct {
	Params map[string]float64
	Score  float64
	Runs   int
}

// Search runs one experiment per grid point, all derived from the base
// config. The base is never mutated.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, objective Objective) (*Result, error) {
	best := &Result{Score: math.Inf(1)}

	point := make(map[string]float64, len(g.keys))
	if err := g.walk(ctx, 0, point, base, objective, best); err != nil {
		return nil, err
	}
	return best, nil
}

func (g *GridSearch) walk(ctx context.Context, depth int, point map[string]float64, base *config.Config, objective Objective, best *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.keys) {
		cfg := *base
		overrides := make([]string, 0, len(point))
		for k, v := range point {
			overrides = append(overrides, k+"="+formatValue(v))
		}
		if err := config.ApplyOverrides(&cfg, overrides); err != nil {
			return err
		}

		exp, err := experiment.New(&cfg, nil)
		if err != nil {
			return err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		best.Runs++
		if score := objective(result.Metrics); score < best.Score {
			best.Score = score
			best.Params = make(map[string]float64, len(point))
			for k, v := range point {
				best.Params[k] = v
			}
		}
		return nil
	}

	for _, v := range g.ranges[depth] {
		point[g.keys[depth]] = v
		if err := g.walk(ctx, depth+1, point, base, objective, best); err != nil {
			return err
		}
	}
	delete(point, g.keys[depth])
	return nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
