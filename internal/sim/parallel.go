package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/libration/internal/dynamo"
)

// Job is one propagation request in a batch.
type Job struct {
	X0   dynamo.State
	Grid []float64
}

// RunBatch propagates every job concurrently. Results keep the job order.
// The first failure cancels the remaining runs and is returned alone; no
// partial results are handed back.
func (p *Propagator) RunBatch(ctx context.Context, jobs []Job) ([]*dynamo.Trajectory, error) {
	results := make([]*dynamo.Trajectory, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		g.Go(func() error {
			traj, err := p.Run(gctx, job.X0, job.Grid)
			if err != nil {
				return err
			}
			results[i] = traj
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
