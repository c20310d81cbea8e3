package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/libration/internal/dynamo"
	"github.com/san-kum/libration/internal/integrators"
)

const (
	DefaultTolerance    = 1e-10
	DefaultInitialStep  = 1e-3
	DefaultMaxStep      = 0.5
	DefaultMinStep      = 1e-10
	DefaultMaxSteps     = 1_000_000
	DefaultEscapeRadius = 1e6
	DefaultMaxDrift     = 1e-6
)

// Propagator integrates a system over an explicit time grid and samples the
// state at every grid point. A descending grid integrates backward in time
// with negative steps; the dynamics are never negated.
//
// A Propagator holds only configuration and is safe for concurrent use.
type Propagator struct {
	dyn          dynamo.System
	tol          float64
	initialStep  float64
	maxStep      float64
	minStep      float64
	maxSteps     int
	escapeRadius float64
	fixedStep    float64
	maxDrift     float64
}

type Option func(*Propagator)

// WithTolerance sets the mixed absolute/relative error tolerance.
func WithTolerance(tol float64) Option {
	return func(p *Propagator) { p.tol = tol }
}

func WithInitialStep(h float64) Option {
	return func(p *Propagator) { p.initialStep = h }
}

func WithMaxStep(h float64) Option {
	return func(p *Propagator) { p.maxStep = h }
}

// WithMinStep sets the relative step size below which the run is declared
// divergent.
func WithMinStep(h float64) Option {
	return func(p *Propagator) { p.minStep = h }
}

func WithMaxSteps(n int) Option {
	return func(p *Propagator) { p.maxSteps = n }
}

func WithEscapeRadius(r float64) Option {
	return func(p *Propagator) { p.escapeRadius = r }
}

// WithMaxDrift bounds the relative change of the system invariant, for
// systems that implement dynamo.Invariant. Zero disables the check.
func WithMaxDrift(d float64) Option {
	return func(p *Propagator) { p.maxDrift = d }
}

// WithFixedStep switches to classic RK4 with step h (clipped to the grid).
// Error control and step-collapse detection are disabled in this mode.
func WithFixedStep(h float64) Option {
	return func(p *Propagator) { p.fixedStep = h }
}

func NewPropagator(dyn dynamo.System, opts ...Option) *Propagator {
	p := &Propagator{
		dyn:          dyn,
		tol:          DefaultTolerance,
		initialStep:  DefaultInitialStep,
		maxStep:      DefaultMaxStep,
		minStep:      DefaultMinStep,
		maxSteps:     DefaultMaxSteps,
		escapeRadius: DefaultEscapeRadius,
		maxDrift:     DefaultMaxDrift,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Stats reports the work done by one run.
type Stats struct {
	Accepted int
	Rejected int
	MinStep  float64
}

// Linspace returns n evenly spaced points from start to end inclusive.
func Linspace(start, end float64, n int) []float64 {
	if n < 2 {
		return nil
	}
	return floats.Span(make([]float64, n), start, end)
}

func (p *Propagator) Run(ctx context.Context, x0 dynamo.State, grid []float64) (*dynamo.Trajectory, error) {
	traj, _, err := p.RunStats(ctx, x0, grid)
	return traj, err
}

// RunStats is Run plus step statistics. On error no trajectory is returned.
func (p *Propagator) RunStats(ctx context.Context, x0 dynamo.State, grid []float64) (*dynamo.Trajectory, Stats, error) {
	var stats Stats

	if err := p.validate(x0, grid); err != nil {
		return nil, stats, err
	}

	dir := 1.0
	if grid[1] < grid[0] {
		dir = -1.0
	}

	traj := &dynamo.Trajectory{
		Times:  make([]float64, len(grid)),
		States: make([]dynamo.State, 0, len(grid)),
	}
	copy(traj.Times, grid)

	x := x0.Clone()
	t := grid[0]
	traj.States = append(traj.States, x)

	st := &stepper{p: p, dir: dir, h: dir * p.initialStep, stats: &stats}
	if p.fixedStep > 0 {
		st.h = dir * p.fixedStep
		st.fixed = integrators.NewRK4()
	} else {
		st.adaptive = integrators.NewRK45()
	}
	if inv, ok := p.dyn.(dynamo.Invariant); ok && p.maxDrift > 0 {
		st.inv = inv
		st.c0 = inv.Integral(x0)
	}
	stats.MinStep = math.Abs(st.h)

	for i := 1; i < len(grid); i++ {
		var err error
		x, err = st.advance(ctx, x, t, grid[i])
		if err != nil {
			return nil, stats, err
		}
		t = grid[i]
		traj.States = append(traj.States, x)
	}

	return traj, stats, nil
}

func (p *Propagator) validate(x0 dynamo.State, grid []float64) error {
	if len(x0) != p.dyn.StateDim() {
		return fmt.Errorf("state has %d components, system wants %d: %w", len(x0), p.dyn.StateDim(), dynamo.ErrDimensionMismatch)
	}
	if !x0.IsValid() {
		return fmt.Errorf("initial state %v: %w", x0, dynamo.ErrInvalidState)
	}
	if p.tol <= 0 || p.initialStep <= 0 || p.maxStep <= 0 || p.maxSteps <= 0 {
		return fmt.Errorf("propagator settings must be positive: %w", dynamo.ErrParameterBounds)
	}
	if p.minStep < 0 || p.maxDrift < 0 {
		return fmt.Errorf("minimum step %g, drift bound %g must not be negative: %w", p.minStep, p.maxDrift, dynamo.ErrParameterBounds)
	}
	if len(grid) < 2 {
		return dynamo.ErrInvalidGrid
	}
	ascending := grid[1] > grid[0]
	for i := 1; i < len(grid); i++ {
		if math.IsNaN(grid[i]) || math.IsInf(grid[i], 0) {
			return fmt.Errorf("grid[%d] = %v: %w", i, grid[i], dynamo.ErrInvalidGrid)
		}
		if (ascending && grid[i] <= grid[i-1]) || (!ascending && grid[i] >= grid[i-1]) {
			return fmt.Errorf("grid[%d] = %v after %v: %w", i, grid[i], grid[i-1], dynamo.ErrInvalidGrid)
		}
	}
	return nil
}

type stepper struct {
	p     *Propagator
	dir   float64
	h     float64
	steps int
	stats *Stats

	fixed    dynamo.Integrator
	adaptive dynamo.AdaptiveIntegrator

	inv dynamo.Invariant
	c0  float64
}

// advance integrates from (x, t) to exactly target.
func (s *stepper) advance(ctx context.Context, x dynamo.State, t, target float64) (dynamo.State, error) {
	p := s.p
	for (target-t)*s.dir > 0 {
		if s.steps%256 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		if s.steps >= p.maxSteps {
			return nil, s.fail(t, x, dynamo.ErrStepLimit)
		}
		s.steps++

		if math.Abs(s.h) > p.maxStep {
			s.h = s.dir * p.maxStep
		}
		step := s.h
		clipped := false
		if (t+step-target)*s.dir >= 0 {
			step = target - t
			clipped = true
		}

		var next dynamo.State
		if s.fixed != nil {
			next = s.fixed.Step(p.dyn, x, t, step)
		} else {
			var dtNew float64
			var err error
			next, dtNew, err = s.adaptive.StepAdaptive(p.dyn, x, t, step, p.tol)
			if errors.Is(err, dynamo.ErrStepRejected) {
				s.stats.Rejected++
				s.h = dtNew
				if s.collapsed(t) {
					return nil, s.fail(t, x, dynamo.ErrStepTooSmall)
				}
				continue
			}
			if !clipped {
				s.h = dtNew
				if s.collapsed(t) {
					return nil, s.fail(t, x, dynamo.ErrStepTooSmall)
				}
			}
		}

		if !next.IsValid() {
			return nil, s.fail(t, x, dynamo.ErrInvalidState)
		}
		if next.Norm() > p.escapeRadius {
			return nil, s.fail(t, x, dynamo.ErrUnstable)
		}
		if s.inv != nil {
			drift := math.Abs(s.inv.Integral(next)-s.c0) / math.Max(1, math.Abs(s.c0))
			if drift > p.maxDrift {
				return nil, s.fail(t, x, dynamo.ErrInvariantDrift)
			}
		}

		s.stats.Accepted++
		if a := math.Abs(step); a < s.stats.MinStep {
			s.stats.MinStep = a
		}
		x = next
		if clipped {
			t = target
		} else {
			t += step
		}
	}
	return x, nil
}

// collapsed reports a proposed step below minStep relative to max(1, |t|).
// Steps shortened only to land on a grid point never count.
func (s *stepper) collapsed(t float64) bool {
	return math.Abs(s.h) < s.p.minStep*math.Max(1, math.Abs(t))
}

func (s *stepper) fail(t float64, x dynamo.State, cause error) error {
	return &dynamo.SimulationError{
		Step:    s.steps,
		Time:    t,
		State:   x.Clone(),
		Cause:   cause,
		Wrapped: dynamo.ErrDivergence,
	}
}
