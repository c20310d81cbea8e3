// Package libration locates the collinear equilibrium points of the planar
// CR3BP.
package libration

import (
	"fmt"
	"math"

	"github.com/san-kum/libration/internal/dynamo"
)

type Point int

const (
	L1 Point = iota + 1 // between the primaries
	L2                  // beyond the secondary
	L3                  // beyond the primary
)

func (p Point) String() string {
	switch p {
	case L1:
		return "L1"
	case L2:
		return "L2"
	case L3:
		return "L3"
	default:
		return fmt.Sprintf("Point(%d)", int(p))
	}
}

// ParsePoint accepts "L1", "l2", "3" and the like.
func ParsePoint(s string) (Point, error) {
	switch s {
	case "L1", "l1", "1":
		return L1, nil
	case "L2", "l2", "2":
		return L2, nil
	case "L3", "l3", "3":
		return L3, nil
	}
	return 0, fmt.Errorf("unknown libration point %q: %w", s, dynamo.ErrParameterBounds)
}

const (
	DefaultTolerance     = 1e-12
	DefaultMaxIterations = 100
)

type options struct {
	tol      float64
	maxIter  int
	guess    float64
	hasGuess bool
}

type Option func(*options)

// WithTolerance sets the convergence tolerance on the Newton step.
func WithTolerance(tol float64) Option {
	return func(o *options) { o.tol = tol }
}

func WithMaxIterations(n int) Option {
	return func(o *options) { o.maxIter = n }
}

// WithInitialGuess replaces the Hill-radius starting point. A guess outside
// the point's bracket is pulled back inside by the first bisection step.
func WithInitialGuess(x float64) Option {
	return func(o *options) {
		o.guess = x
		o.hasGuess = true
	}
}

// Residual is the x-acceleration of a particle at rest on the x axis:
//
//	f(x) = x - (1-μ)(x+μ)/|x+μ|³ - μ(x-1+μ)/|x-1+μ|³
//
// Beyond the secondary it reduces to x - (1-μ)/(x+μ)² - μ/(x-1+μ)².
func Residual(mu, x float64) float64 {
	d1 := x + mu
	d2 := x - 1 + mu
	return x - (1-mu)*d1/math.Pow(math.Abs(d1), 3) - mu*d2/math.Pow(math.Abs(d2), 3)
}

// slope is df/dx, which equals the Oxx coefficient and is positive
// everywhere off the primaries.
func slope(mu, x float64) float64 {
	return 1 + 2*(1-mu)/math.Pow(math.Abs(x+mu), 3) + 2*mu/math.Pow(math.Abs(x-1+mu), 3)
}

// HillGuess is the asymptotic starting point for the iteration.
func HillGuess(mu float64, p Point) float64 {
	h := math.Cbrt(mu / 3)
	switch p {
	case L1:
		return 1 - h
	case L2:
		return 1 + h
	default:
		return -1 - 5*mu/12
	}
}

// bracket returns an interval on which f is monotonic and changes sign
// exactly once. The singular ends are never evaluated.
func bracket(mu float64, p Point) (lo, hi float64) {
	switch p {
	case L1:
		return -mu, 1 - mu
	case L2:
		return 1 - mu, 2
	default:
		return -2, -mu
	}
}

// Solve returns the x coordinate of the requested collinear point for mass
// ratio mu. Newton steps that leave the bracket fall back to bisection.
func Solve(mu float64, p Point, opts ...Option) (float64, error) {
	if !(mu > 0 && mu <= 0.5) {
		return 0, fmt.Errorf("mass ratio %g not in (0, 0.5]: %w", mu, dynamo.ErrParameterBounds)
	}
	if p < L1 || p > L3 {
		return 0, fmt.Errorf("libration point %v: %w", p, dynamo.ErrParameterBounds)
	}

	o := options{tol: DefaultTolerance, maxIter: DefaultMaxIterations}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tol <= 0 || o.maxIter <= 0 {
		return 0, fmt.Errorf("tolerance %g, iterations %d: %w", o.tol, o.maxIter, dynamo.ErrParameterBounds)
	}

	lo, hi := bracket(mu, p)
	x := HillGuess(mu, p)
	if o.hasGuess {
		x = o.guess
	}
	if !(x > lo && x < hi) {
		x = 0.5 * (lo + hi)
	}

	for i := 0; i < o.maxIter; i++ {
		f := Residual(mu, x)
		if f == 0 {
			return x, nil
		}
		if f < 0 {
			lo = x
		} else {
			hi = x
		}

		next := x - f/slope(mu, x)
		if !(next > lo && next < hi) {
			next = 0.5 * (lo + hi)
		}

		if math.Abs(next-x) <= o.tol*math.Max(1, math.Abs(x)) {
			return next, nil
		}
		x = next
	}

	return 0, fmt.Errorf("%v for mu=%g after %d iterations (last x=%.15f): %w",
		p, mu, o.maxIter, x, dynamo.ErrRootFinding)
}
