package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/libration/internal/dynamo"
)

// SeparationRate estimates the exponential growth rate of the position
// distance between a and b over [t0, t0+window]:
//
//	λ ≈ ln(d(t1)/d(t0)) / (t1 - t0)
//
// Both trajectories must share a time grid. The window is measured along
// the direction of the grid, so backward trajectories work too.
func SeparationRate(a, b *dynamo.Trajectory, window float64) (float64, error) {
	if a.Len() != b.Len() || a.Len() < 2 {
		return 0, fmt.Errorf("trajectories have %d and %d samples: %w", a.Len(), b.Len(), dynamo.ErrDimensionMismatch)
	}
	if window <= 0 {
		return 0, fmt.Errorf("window %g must be positive: %w", window, dynamo.ErrParameterBounds)
	}

	t0 := a.Times[0]
	end := 0
	for i := 0; i < a.Len(); i++ {
		if a.Times[i] != b.Times[i] {
			return 0, fmt.Errorf("sample %d at t=%g and t=%g: %w", i, a.Times[i], b.Times[i], dynamo.ErrInvalidGrid)
		}
		if i == 0 {
			continue
		}
		if math.Abs(a.Times[i]-t0) > window {
			break
		}
		end = i
	}
	if end == 0 {
		return 0, fmt.Errorf("window %g shorter than one sample: %w", window, dynamo.ErrInvalidGrid)
	}

	d0 := math.Hypot(a.States[0][0]-b.States[0][0], a.States[0][1]-b.States[0][1])
	d1 := math.Hypot(a.States[end][0]-b.States[end][0], a.States[end][1]-b.States[end][1])
	if d0 == 0 || d1 == 0 {
		return 0, fmt.Errorf("coincident trajectories: %w", dynamo.ErrParameterBounds)
	}

	return math.Log(d1/d0) / math.Abs(a.Times[end]-t0), nil
}
