package analysis

import (
	"github.com/san-kum/libration/internal/dynamo"
)

// Crossing is one intersection of a trajectory with a section plane. Time
// and State are linearly interpolated between the bracketing samples.
type Crossing struct {
	Time  float64
	State dynamo.State
	// Up is true when the coordinate was increasing through the plane.
	Up bool
}

// Section returns every crossing of x[idx] = value along traj, in sample
// order. A sample lying on the plane belongs to the upper side.
func Section(traj *dynamo.Trajectory, idx int, value float64) []Crossing {
	if traj == nil || traj.Len() < 2 || idx < 0 || idx >= len(traj.States[0]) {
		return nil
	}

	var out []Crossing
	prev := traj.States[0][idx] - value
	for i := 1; i < traj.Len(); i++ {
		curr := traj.States[i][idx] - value
		if (prev >= 0) == (curr >= 0) {
			prev = curr
			continue
		}

		frac := prev / (prev - curr)
		a, b := traj.States[i-1], traj.States[i]
		x := make(dynamo.State, len(a))
		for j := range a {
			x[j] = a[j] + frac*(b[j]-a[j])
		}

		out = append(out, Crossing{
			Time:  traj.Times[i-1] + frac*(traj.Times[i]-traj.Times[i-1]),
			State: x,
			Up:    curr > prev,
		})
		prev = curr
	}
	return out
}
