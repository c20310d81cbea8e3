// Package optim evaluates a scenario at every point of a parameter grid.
package optim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/libration/internal/dynamo"
)

// Objective measures one parameter combination.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

// Evaluation is one measured grid point.
type Evaluation struct {
	Params map[string]float64
	Value  float64
}

type Grid struct {
	paramNames []string
	ranges     [][]float64
	workers    int
}

func NewGrid(params []string, ranges [][]float64) *Grid {
	return &Grid{paramNames: params, ranges: ranges, workers: runtime.GOMAXPROCS(0)}
}

// WithWorkers bounds how many objectives run at once.
func (g *Grid) WithWorkers(n int) *Grid {
	if n > 0 {
		g.workers = n
	}
	return g
}

func (g *Grid) points() []map[string]float64 {
	var out []map[string]float64
	g.expand(0, make(map[string]float64), &out)
	return out
}

func (g *Grid) expand(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.expand(depth+1, newParams, out)
	}
}

// Evaluate measures every grid point and returns them in grid order. The
// first objective error cancels the rest.
func (g *Grid) Evaluate(ctx context.Context, objective Objective) ([]Evaluation, error) {
	if len(g.paramNames) == 0 || len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("%d names for %d ranges: %w", len(g.paramNames), len(g.ranges), dynamo.ErrParameterBounds)
	}

	pts := g.points()
	if len(pts) == 0 {
		return nil, fmt.Errorf("empty grid: %w", dynamo.ErrParameterBounds)
	}

	evals := make([]Evaluation, len(pts))
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(g.workers)
	for i, p := range pts {
		grp.Go(func() error {
			v, err := objective(gctx, p)
			if err != nil {
				return fmt.Errorf("evaluate %v: %w", p, err)
			}
			evals[i] = Evaluation{Params: p, Value: v}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return evals, nil
}
