package linearize

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/libration/internal/dynamo"
)

// DefaultImagTolerance decides when an eigenvalue counts as real.
const DefaultImagTolerance = 1e-9

type Stability int

const (
	Unstable Stability = iota + 1
	Stable
)

func (s Stability) String() string {
	switch s {
	case Unstable:
		return "unstable"
	case Stable:
		return "stable"
	default:
		return fmt.Sprintf("Stability(%d)", int(s))
	}
}

// Direction is a unit-norm real eigenvector tagged with its stability.
type Direction struct {
	Kind   Stability
	Value  float64
	Vector dynamo.State
}

// IsReal reports whether |Im λ| <= tol * max(1, |λ|).
func IsReal(v complex128, tol float64) bool {
	return math.Abs(imag(v)) <= tol*math.Max(1, cmplx.Abs(v))
}

// SelectDirections picks the single real positive eigenvalue (unstable) and
// the single real negative one (stable). Anything other than exactly one
// candidate per class is an error; the caller never gets an arbitrary pick.
func SelectDirections(pairs []EigenPair, tol float64) (unstable, stable Direction, err error) {
	if tol < 0 {
		return Direction{}, Direction{}, fmt.Errorf("negative tolerance %g: %w", tol, dynamo.ErrParameterBounds)
	}

	var pos, neg []int
	for i, p := range pairs {
		if !IsReal(p.Value, tol) {
			continue
		}
		switch re := real(p.Value); {
		case re > 0:
			pos = append(pos, i)
		case re < 0:
			neg = append(neg, i)
		}
	}

	if len(pos) != 1 {
		return Direction{}, Direction{}, fmt.Errorf("%d real positive eigenvalues, want 1: %w", len(pos), dynamo.ErrEigenSelection)
	}
	if len(neg) != 1 {
		return Direction{}, Direction{}, fmt.Errorf("%d real negative eigenvalues, want 1: %w", len(neg), dynamo.ErrEigenSelection)
	}

	unstable, err = direction(pairs[pos[0]], Unstable)
	if err != nil {
		return Direction{}, Direction{}, err
	}
	stable, err = direction(pairs[neg[0]], Stable)
	if err != nil {
		return Direction{}, Direction{}, err
	}
	return unstable, stable, nil
}

func direction(p EigenPair, kind Stability) (Direction, error) {
	v := make([]float64, len(p.Vector))
	for i, c := range p.Vector {
		v[i] = real(c)
	}
	n := floats.Norm(v, 2)
	if n == 0 || math.IsNaN(n) {
		return Direction{}, fmt.Errorf("%v eigenvector has no real part: %w", kind, dynamo.ErrEigenSelection)
	}
	floats.Scale(1/n, v)
	return Direction{Kind: kind, Value: real(p.Value), Vector: dynamo.State(v)}, nil
}
