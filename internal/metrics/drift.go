package metrics

import (
	"math"

	"github.com/san-kum/libration/internal/dynamo"
)

// JacobiDrift tracks the largest relative change of the system invariant
// (the Jacobi constant for the CR3BP) from its first observed value.
type JacobiDrift struct {
	name    string
	inv     dynamo.Invariant
	initial float64
	max     float64
	samples int
}

func NewJacobiDrift(inv dynamo.Invariant) *JacobiDrift {
	return &JacobiDrift{
		name: "jacobi_drift",
		inv:  inv,
	}
}

func (j *JacobiDrift) Name() string { return j.name }

func (j *JacobiDrift) Observe(x dynamo.State, t float64) {
	c := j.inv.Integral(x)

	if j.samples == 0 {
		j.initial = c
	}
	j.samples++

	if j.initial != 0 {
		drift := math.Abs(c-j.initial) / math.Abs(j.initial)
		j.max = math.Max(j.max, drift)
	}
}

func (j *JacobiDrift) Value() float64 {
	return j.max
}

// Initial is the invariant at the first sample.
func (j *JacobiDrift) Initial() float64 {
	return j.initial
}

func (j *JacobiDrift) Reset() {
	j.initial = 0
	j.max = 0
	j.samples = 0
}
