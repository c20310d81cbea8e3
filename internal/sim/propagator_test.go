package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/libration/internal/dynamo"
	"github.com/san-kum/libration/internal/libration"
	"github.com/san-kum/libration/internal/physics"
)

// heliocentric near-circular orbit at r = 1.5 in the Sun-Earth frame; it never
// comes closer than 0.5 to either primary.
var farOrbit = dynamo.State{1.5, 0, 0, 1/math.Sqrt(1.5) - 1.5}

func TestLinspace(t *testing.T) {
	g := Linspace(0, -15, 4)
	want := []float64{0, -5, -10, -15}
	for i := range want {
		if math.Abs(g[i]-want[i]) > 1e-12 {
			t.Errorf("expected %v, got %v", want, g)
			break
		}
	}
	if Linspace(0, 1, 1) != nil {
		t.Error("expected nil grid for a single point")
	}
}

func TestPropagatorSamplesGrid(t *testing.T) {
	dyn := physics.NewCR3BP(physics.MuSunEarth)
	prop := NewPropagator(dyn)
	grid := Linspace(0, 3, 301)

	traj, err := prop.Run(context.Background(), farOrbit, grid)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if traj.Len() != len(grid) || len(traj.Times) != len(grid) {
		t.Fatalf("expected %d samples, got %d states and %d times", len(grid), traj.Len(), len(traj.Times))
	}
	for i := range grid {
		if traj.Times[i] != grid[i] {
			t.Fatalf("time %d = %f, want %f", i, traj.Times[i], grid[i])
		}
	}
	for i, v := range farOrbit {
		if traj.States[0][i] != v {
			t.Errorf("first sample should equal the initial state, got %v", traj.States[0])
			break
		}
	}
}

func TestPropagatorConservesJacobi(t *testing.T) {
	tests := []struct {
		name string
		mu   float64
		x0   dynamo.State
		end  float64
	}{
		{"sun-earth far orbit forward", physics.MuSunEarth, farOrbit, 20},
		{"sun-earth far orbit backward", physics.MuSunEarth, farOrbit, -20},
		{"earth-moon interior orbit", physics.MuEarthMoon, dynamo.State{0.3, 0, 0, 1.5}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dyn := physics.NewCR3BP(tt.mu)
			traj, err := NewPropagator(dyn).Run(context.Background(), tt.x0, Linspace(0, tt.end, 2000))
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}

			c0 := dyn.Jacobi(tt.x0)
			maxDrift := 0.0
			for _, s := range traj.States {
				maxDrift = math.Max(maxDrift, math.Abs(dyn.Jacobi(s)-c0)/math.Abs(c0))
			}
			if maxDrift > 1e-8 {
				t.Errorf("Jacobi drift too high: %e", maxDrift)
			}
		})
	}
}

func TestPropagatorIdempotent(t *testing.T) {
	dyn := physics.NewCR3BP(physics.MuEarthMoon)
	prop := NewPropagator(dyn)
	x0 := dynamo.State{0.3, 0, 0, 1.5}
	grid := Linspace(0, 5, 500)

	a, err := prop.Run(context.Background(), x0, grid)
	if err != nil {
		t.Fatal(err)
	}
	b, err := prop.Run(context.Background(), x0, grid)
	if err != nil {
		t.Fatal(err)
	}

	for i := range a.States {
		for j := range a.States[i] {
			if a.States[i][j] != b.States[i][j] {
				t.Fatalf("sample %d differs: %v vs %v", i, a.States[i], b.States[i])
			}
		}
	}
	if x0[0] != 0.3 || x0[3] != 1.5 || grid[499] != 5 {
		t.Error("inputs were mutated")
	}
}

func TestPropagatorTimeReversible(t *testing.T) {
	dyn := physics.NewCR3BP(physics.MuSunEarth)
	prop := NewPropagator(dyn)

	fwd, err := prop.Run(context.Background(), farOrbit, Linspace(0, 4, 100))
	if err != nil {
		t.Fatal(err)
	}
	bwd, err := prop.Run(context.Background(), fwd.Final(), Linspace(4, 0, 100))
	if err != nil {
		t.Fatal(err)
	}

	if d := bwd.Final().Sub(farOrbit).Norm(); d > 1e-7 {
		t.Errorf("expected to return to the initial state, off by %e", d)
	}
	if bwd.Times[1] >= bwd.Times[0] {
		t.Error("backward trajectory times should descend")
	}
}

func TestPropagatorEquilibriumStaysPut(t *testing.T) {
	mu := physics.MuEarthMoon
	xL1, err := libration.Solve(mu, libration.L1)
	if err != nil {
		t.Fatal(err)
	}

	x0 := dynamo.State{xL1, 0, 0, 0}
	for _, end := range []float64{2, -2} {
		traj, err := NewPropagator(physics.NewCR3BP(mu)).Run(context.Background(), x0, Linspace(0, end, 200))
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		for _, s := range traj.States {
			if d := s.Sub(x0).Norm(); d > 1e-8 {
				t.Fatalf("drifted %e away from L1 (end=%v)", d, end)
			}
		}
	}
}

func TestPropagatorFixedStepAgrees(t *testing.T) {
	dyn := physics.NewCR3BP(physics.MuSunEarth)
	grid := Linspace(0, 2, 21)

	adaptive, err := NewPropagator(dyn).Run(context.Background(), farOrbit, grid)
	if err != nil {
		t.Fatal(err)
	}
	fixed, err := NewPropagator(dyn, WithFixedStep(1e-3)).Run(context.Background(), farOrbit, grid)
	if err != nil {
		t.Fatal(err)
	}

	if d := adaptive.Final().Sub(fixed.Final()).Norm(); d > 1e-8 {
		t.Errorf("fixed-step RK4 disagrees with adaptive run by %e", d)
	}
}

func TestPropagatorStats(t *testing.T) {
	dyn := physics.NewCR3BP(physics.MuSunEarth)
	_, stats, err := NewPropagator(dyn).RunStats(context.Background(), farOrbit, Linspace(0, 1, 11))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Accepted < 10 {
		t.Errorf("expected at least one accepted step per interval, got %d", stats.Accepted)
	}
	if stats.MinStep <= 0 {
		t.Errorf("expected positive minimum step, got %e", stats.MinStep)
	}
}

func TestPropagatorInvalidInput(t *testing.T) {
	prop := NewPropagator(physics.NewCR3BP(physics.MuEarthMoon))
	x0 := dynamo.State{0.5, 0, 0, 0}

	tests := []struct {
		name string
		x0   dynamo.State
		grid []float64
		want error
	}{
		{"single point", x0, []float64{0}, dynamo.ErrInvalidGrid},
		{"not monotonic", x0, []float64{0, 1, 0.5}, dynamo.ErrInvalidGrid},
		{"repeated time", x0, []float64{0, 1, 1}, dynamo.ErrInvalidGrid},
		{"NaN time", x0, []float64{0, math.NaN()}, dynamo.ErrInvalidGrid},
		{"short state", dynamo.State{0.5, 0}, []float64{0, 1}, dynamo.ErrDimensionMismatch},
		{"NaN state", dynamo.State{math.NaN(), 0, 0, 0}, []float64{0, 1}, dynamo.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			traj, err := prop.Run(context.Background(), tt.x0, tt.grid)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if traj != nil {
				t.Error("expected no trajectory on error")
			}
		})
	}
}

func TestPropagatorSingularity(t *testing.T) {
	mu := physics.MuEarthMoon
	prop := NewPropagator(physics.NewCR3BP(mu))

	// Sitting exactly on the primary makes every derivative NaN.
	traj, err := prop.Run(context.Background(), dynamo.State{-mu, 0, 0, 0}, Linspace(0, 1, 10))
	if !errors.Is(err, dynamo.ErrDivergence) {
		t.Fatalf("expected ErrDivergence, got %v", err)
	}
	if !errors.Is(err, dynamo.ErrStepTooSmall) {
		t.Errorf("expected step collapse as cause, got %v", err)
	}
	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected *SimulationError, got %T", err)
	}
	if traj != nil {
		t.Error("expected no partial trajectory")
	}
}

func TestPropagatorNearCollision(t *testing.T) {
	mu := physics.MuEarthMoon
	dyn := physics.NewCR3BP(mu)
	grid := Linspace(0, 2, 200)

	// Released at rest 0.01 from the Moon, the particle falls in and whips
	// around it far closer than the tolerance can resolve.
	x0 := dynamo.State{1 - mu + 1e-2, 0, 0, 0}

	tests := []struct {
		name  string
		opts  []Option
		cause error
	}{
		{"default guards", nil, dynamo.ErrDivergence},
		{"step floor only", []Option{WithMaxDrift(0)}, dynamo.ErrStepTooSmall},
		{"drift bound only", []Option{WithMinStep(1e-14)}, dynamo.ErrInvariantDrift},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			traj, err := NewPropagator(dyn, tt.opts...).Run(context.Background(), x0, grid)
			if !errors.Is(err, dynamo.ErrDivergence) {
				t.Fatalf("expected ErrDivergence, got %v", err)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("expected cause %v, got %v", tt.cause, err)
			}
			if traj != nil {
				t.Error("expected no degraded trajectory")
			}
		})
	}
}

func TestPropagatorDriftBoundKeepsGoodRuns(t *testing.T) {
	dyn := physics.NewCR3BP(physics.MuSunEarth)

	_, err := NewPropagator(dyn, WithMaxDrift(1e-9)).Run(context.Background(), farOrbit, Linspace(0, 10, 100))
	if err != nil {
		t.Errorf("expected a well-resolved orbit to stay inside a tight drift bound, got %v", err)
	}

	if _, err := NewPropagator(dyn, WithMaxDrift(-1)).Run(context.Background(), farOrbit, Linspace(0, 1, 10)); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds for a negative drift bound, got %v", err)
	}
}

func TestPropagatorStepLimit(t *testing.T) {
	prop := NewPropagator(physics.NewCR3BP(physics.MuSunEarth), WithMaxSteps(5))

	_, err := prop.Run(context.Background(), farOrbit, Linspace(0, 10, 100))
	if !errors.Is(err, dynamo.ErrDivergence) || !errors.Is(err, dynamo.ErrStepLimit) {
		t.Errorf("expected step-limit divergence, got %v", err)
	}
}

func TestPropagatorEscapeRadius(t *testing.T) {
	prop := NewPropagator(physics.NewCR3BP(physics.MuSunEarth), WithEscapeRadius(1.4))

	_, err := prop.Run(context.Background(), farOrbit, Linspace(0, 1, 10))
	if !errors.Is(err, dynamo.ErrUnstable) {
		t.Errorf("expected ErrUnstable, got %v", err)
	}
}

func TestPropagatorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPropagator(physics.NewCR3BP(physics.MuSunEarth)).Run(ctx, farOrbit, Linspace(0, 1, 10))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunBatch(t *testing.T) {
	prop := NewPropagator(physics.NewCR3BP(physics.MuSunEarth))
	jobs := []Job{
		{X0: farOrbit, Grid: Linspace(0, 1, 10)},
		{X0: farOrbit, Grid: Linspace(0, -1, 20)},
	}

	results, err := prop.RunBatch(context.Background(), jobs)
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if results[0].Len() != 10 || results[1].Len() != 20 {
		t.Errorf("results out of order: %d, %d", results[0].Len(), results[1].Len())
	}

	jobs = append(jobs, Job{X0: farOrbit, Grid: []float64{0}})
	if _, err := prop.RunBatch(context.Background(), jobs); !errors.Is(err, dynamo.ErrInvalidGrid) {
		t.Errorf("expected batch to surface ErrInvalidGrid, got %v", err)
	}
}
