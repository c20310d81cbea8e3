package physics

import (
	"math"

	"github.com/san-kum/libration/internal/dynamo"
)

// Mass ratios of common primary pairs, μ = m2 / (m1 + m2).
const (
	MuEarthMoon = 0.0121505856
	MuSunEarth  = 3.0034806e-6
	MuSunMars   = 3.227154e-7
)

// CR3BP implements the planar circular restricted three-body problem in the
// rotating, normalized frame: the primaries sit at (-μ, 0) and (1-μ, 0), their
// separation and the mean motion are both unity.
// State: [x, y, vx, vy]
//
// There is no softening. As r1 or r2 approaches zero the derivative grows
// without bound; that is the physical collision singularity and it is left to
// the propagator to detect.
type CR3BP struct {
	Mu float64
}

func NewCR3BP(mu float64) *CR3BP {
	return &CR3BP{Mu: mu}
}

func (c *CR3BP) StateDim() int { return 4 }

// Distances returns the distance to the primary and to the secondary.
func (c *CR3BP) Distances(x, y float64) (r1, r2 float64) {
	mu := c.Mu
	r1 = math.Sqrt((x+mu)*(x+mu) + y*y)
	r2 = math.Sqrt((x-1+mu)*(x-1+mu) + y*y)
	return r1, r2
}

func (c *CR3BP) Derive(state dynamo.State, _ float64) dynamo.State {
	x, y, vx, vy := state[0], state[1], state[2], state[3]
	mu := c.Mu

	r1, r2 := c.Distances(x, y)
	r13 := r1 * r1 * r1
	r23 := r2 * r2 * r2

	ax := x + 2*vy - (1-mu)*(x+mu)/r13 - mu*(x-1+mu)/r23
	ay := y - 2*vx - (1-mu)*y/r13 - mu*y/r23

	return dynamo.State{vx, vy, ax, ay}
}

// Potential is the effective (pseudo-)potential Ω of the rotating frame.
func (c *CR3BP) Potential(x, y float64) float64 {
	r1, r2 := c.Distances(x, y)
	return 0.5*(x*x+y*y) + (1-c.Mu)/r1 + c.Mu/r2
}

// Jacobi returns the Jacobi constant C = 2Ω - v².
func (c *CR3BP) Jacobi(state dynamo.State) float64 {
	vx, vy := state[2], state[3]
	return 2*c.Potential(state[0], state[1]) - (vx*vx + vy*vy)
}

// Integral implements dynamo.Invariant
func (c *CR3BP) Integral(state dynamo.State) float64 {
	return c.Jacobi(state)
}

func (c *CR3BP) Primary() (x, y float64)   { return -c.Mu, 0 }
func (c *CR3BP) Secondary() (x, y float64) { return 1 - c.Mu, 0 }
