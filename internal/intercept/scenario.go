// Package intercept propagates a kicked departure from the L2 point of a
// primary pair.
//
// The scenario only produces the trajectory. Deciding whether it reaches a
// target orbit is a geometric check left to the caller (see the metrics
// package).
package intercept

import (
	"context"
	"fmt"

	"github.com/san-kum/libration/internal/dynamo"
	"github.com/san-kum/libration/internal/libration"
	"github.com/san-kum/libration/internal/physics"
	"github.com/san-kum/libration/internal/sim"
)

const (
	DefaultOffset  = 1e-5
	DefaultKick    = 0.15
	DefaultHorizon = 15.0
	DefaultSamples = 5000

	// Heliocentric radii in Sun-Earth units, for callers comparing extents.
	MarsOrbitRadius = 1.524
	BarrierRadius   = 1.2
)

type Config struct {
	Mu      float64
	Offset  float64
	Kick    float64
	Horizon float64
	Samples int

	Propagator []sim.Option
}

func DefaultConfig(mu float64) Config {
	return Config{
		Mu:      mu,
		Offset:  DefaultOffset,
		Kick:    DefaultKick,
		Horizon: DefaultHorizon,
		Samples: DefaultSamples,
	}
}

func (c Config) validate() error {
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon %g must be positive: %w", c.Horizon, dynamo.ErrParameterBounds)
	}
	if c.Samples < 2 {
		return fmt.Errorf("need at least 2 samples, got %d: %w", c.Samples, dynamo.ErrParameterBounds)
	}
	return nil
}

// Departure describes the kicked initial state.
type Departure struct {
	L2     float64
	Offset float64
	Kick   float64
	State  dynamo.State
}

type Result struct {
	Mu         float64
	Departure  Departure
	Trajectory *dynamo.Trajectory
}

type Scenario struct {
	cfg Config
}

func NewScenario(cfg Config) *Scenario {
	return &Scenario{cfg: cfg}
}

// DepartureState is (xL2 + offset, 0, 0, kick): a prograde kick is +vy.
func DepartureState(xL2, offset, kick float64) dynamo.State {
	return dynamo.State{xL2 + offset, 0, 0, kick}
}

func (s *Scenario) Run(ctx context.Context) (*Result, error) {
	cfg := s.cfg
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	xL2, err := libration.Solve(cfg.Mu, libration.L2)
	if err != nil {
		return nil, fmt.Errorf("locate L2: %w", err)
	}

	dep := Departure{
		L2:     xL2,
		Offset: cfg.Offset,
		Kick:   cfg.Kick,
		State:  DepartureState(xL2, cfg.Offset, cfg.Kick),
	}

	prop := sim.NewPropagator(physics.NewCR3BP(cfg.Mu), cfg.Propagator...)
	traj, err := prop.Run(ctx, dep.State, sim.Linspace(0, cfg.Horizon, cfg.Samples))
	if err != nil {
		return nil, fmt.Errorf("propagate departure: %w", err)
	}

	return &Result{Mu: cfg.Mu, Departure: dep, Trajectory: traj}, nil
}
