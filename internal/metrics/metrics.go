// Package metrics evaluates caller-side observers over finished
// trajectories. Nothing here feeds back into the numeric core.
package metrics

import (
	"math"

	"github.com/san-kum/libration/internal/dynamo"
)

// Apply resets each metric, feeds it every sample of traj and returns the
// values by name.
func Apply(traj *dynamo.Trajectory, ms ...dynamo.Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
	}
	for i, x := range traj.States {
		for _, m := range ms {
			m.Observe(x, traj.Times[i])
		}
	}
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Breaches reports whether traj ever gets farther than radius from the
// origin, and the time of the first sample that does.
func Breaches(traj *dynamo.Trajectory, radius float64) (bool, float64) {
	for i, x := range traj.States {
		if math.Hypot(x[0], x[1]) > radius {
			return true, traj.Times[i]
		}
	}
	return false, 0
}
