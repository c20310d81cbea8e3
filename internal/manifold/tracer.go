package manifold

import (
	"context"
	"fmt"

	"github.com/san-kum/libration/internal/dynamo"
	"github.com/san-kum/libration/internal/libration"
	"github.com/san-kum/libration/internal/linearize"
	"github.com/san-kum/libration/internal/physics"
	"github.com/san-kum/libration/internal/sim"
)

const (
	DefaultEpsilon = 1e-4
	DefaultHorizon = 15.0
	DefaultSamples = 10000
)

type Config struct {
	Mu            float64
	Point         libration.Point
	Epsilon       float64
	Horizon       float64
	Samples       int
	ImagTolerance float64
	Propagator    []sim.Option
}

func DefaultConfig(mu float64) Config {
	return Config{
		Mu:            mu,
		Point:         libration.L1,
		Epsilon:       DefaultEpsilon,
		Horizon:       DefaultHorizon,
		Samples:       DefaultSamples,
		ImagTolerance: linearize.DefaultImagTolerance,
	}
}

func (c Config) validate() error {
	if c.Epsilon < 0 {
		return fmt.Errorf("epsilon %g must not be negative: %w", c.Epsilon, dynamo.ErrParameterBounds)
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon %g must be positive: %w", c.Horizon, dynamo.ErrParameterBounds)
	}
	if c.Samples < 2 {
		return fmt.Errorf("need at least 2 samples, got %d: %w", c.Samples, dynamo.ErrParameterBounds)
	}
	return nil
}

type Classification int

const (
	TowardPrimary Classification = iota + 1
	TowardSecondary
)

func (c Classification) String() string {
	switch c {
	case TowardPrimary:
		return "toward-primary"
	case TowardSecondary:
		return "toward-secondary"
	default:
		return fmt.Sprintf("Classification(%d)", int(c))
	}
}

// Classify compares the final x of traj with the libration x.
func Classify(traj *dynamo.Trajectory, xL float64) Classification {
	if final := traj.Final(); final != nil && final[0]-xL > 0 {
		return TowardSecondary
	}
	return TowardPrimary
}

// Perturbation displaces the libration state by Sign·Epsilon along a
// direction.
type Perturbation struct {
	Epsilon float64
	Sign    int
}

// Apply returns (xL, 0, 0, 0) + Sign·Epsilon·dir.
func (p Perturbation) Apply(xL float64, dir dynamo.State) dynamo.State {
	base := dynamo.State{xL, 0, 0, 0}
	return base.Add(dir.Scale(float64(p.Sign) * p.Epsilon))
}

type Branch struct {
	Kind           linearize.Stability
	Sign           int
	Classification Classification
	Trajectory     *dynamo.Trajectory
}

// Role is "drop" for unstable (forward) branches and "lift" for stable
// (backward) ones.
func (b Branch) Role() string {
	if b.Kind == linearize.Unstable {
		return "drop"
	}
	return "lift"
}

func (b Branch) Name() string {
	sign := "+"
	if b.Sign < 0 {
		sign = "-"
	}
	return b.Kind.String() + sign
}

type Result struct {
	Mu          float64
	Point       libration.Point
	X           float64
	Unstable    linearize.Direction
	Stable      linearize.Direction
	Eigenvalues []complex128
	Branches    []Branch
}

// Count returns how many branches carry the classification.
func (r *Result) Count(c Classification) int {
	n := 0
	for _, b := range r.Branches {
		if b.Classification == c {
			n++
		}
	}
	return n
}

type Tracer struct {
	cfg Config
}

func NewTracer(cfg Config) *Tracer {
	return &Tracer{cfg: cfg}
}

// Trace computes the libration point and its directions once, then
// propagates the four branches concurrently in the order unstable+,
// unstable-, stable+, stable-.
func (tr *Tracer) Trace(ctx context.Context) (*Result, error) {
	cfg := tr.cfg
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	xL, err := libration.Solve(cfg.Mu, cfg.Point)
	if err != nil {
		return nil, fmt.Errorf("locate %v: %w", cfg.Point, err)
	}

	pairs, err := linearize.Linearize(cfg.Mu, xL)
	if err != nil {
		return nil, fmt.Errorf("linearize %v: %w", cfg.Point, err)
	}
	unstable, stable, err := linearize.SelectDirections(pairs, cfg.ImagTolerance)
	if err != nil {
		return nil, fmt.Errorf("select directions at %v: %w", cfg.Point, err)
	}

	res := &Result{
		Mu:          cfg.Mu,
		Point:       cfg.Point,
		X:           xL,
		Unstable:    unstable,
		Stable:      stable,
		Eigenvalues: make([]complex128, len(pairs)),
	}
	for i, p := range pairs {
		res.Eigenvalues[i] = p.Value
	}

	forward := sim.Linspace(0, cfg.Horizon, cfg.Samples)
	backward := sim.Linspace(0, -cfg.Horizon, cfg.Samples)

	var jobs []sim.Job
	for _, dir := range []linearize.Direction{unstable, stable} {
		grid := forward
		if dir.Kind == linearize.Stable {
			grid = backward
		}
		for _, sign := range []int{1, -1} {
			x0 := Perturbation{Epsilon: cfg.Epsilon, Sign: sign}.Apply(xL, dir.Vector)
			jobs = append(jobs, sim.Job{X0: x0, Grid: grid})
			res.Branches = append(res.Branches, Branch{Kind: dir.Kind, Sign: sign})
		}
	}

	prop := sim.NewPropagator(physics.NewCR3BP(cfg.Mu), cfg.Propagator...)
	trajs, err := prop.RunBatch(ctx, jobs)
	if err != nil {
		return nil, fmt.Errorf("propagate branches: %w", err)
	}

	for i := range res.Branches {
		res.Branches[i].Trajectory = trajs[i]
		res.Branches[i].Classification = Classify(trajs[i], xL)
	}
	return res, nil
}
