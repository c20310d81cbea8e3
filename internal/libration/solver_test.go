package libration

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/libration/internal/dynamo"
	"github.com/san-kum/libration/internal/physics"
)

func TestSolveKnownPoints(t *testing.T) {
	tests := []struct {
		name     string
		mu       float64
		point    Point
		expected float64
	}{
		{"earth-moon L1", physics.MuEarthMoon, L1, 0.8369151258},
		{"earth-moon L2", physics.MuEarthMoon, L2, 1.1556821654},
		{"earth-moon L3", physics.MuEarthMoon, L3, -1.0050626458},
		{"sun-earth L1", physics.MuSunEarth, L1, 0.9900265939},
		{"sun-earth L2", physics.MuSunEarth, L2, 1.0100341164},
		{"equal masses L1", 0.5, L1, 0.0},
		{"equal masses L2", 0.5, L2, 1.1984061446},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, err := Solve(tt.mu, tt.point)
			if err != nil {
				t.Fatalf("solve failed: %v", err)
			}
			if math.Abs(x-tt.expected) > 1e-9 {
				t.Errorf("expected x=%.10f, got %.10f", tt.expected, x)
			}
			if r := Residual(tt.mu, x); math.Abs(r) > 1e-10 {
				t.Errorf("equilibrium residual too large: %e", r)
			}
		})
	}
}

func TestSolveIsAnEquilibrium(t *testing.T) {
	mu := physics.MuEarthMoon
	dyn := physics.NewCR3BP(mu)

	for _, p := range []Point{L1, L2, L3} {
		x, err := Solve(mu, p)
		if err != nil {
			t.Fatalf("%v: %v", p, err)
		}
		dx := dyn.Derive(dynamo.State{x, 0, 0, 0}, 0)
		if math.Abs(dx[2]) > 1e-10 || dx[3] != 0 {
			t.Errorf("%v: expected zero acceleration, got %v", p, dx)
		}
	}
}

func TestSolveIndependentOfInitialGuess(t *testing.T) {
	mu := physics.MuEarthMoon
	ref, err := Solve(mu, L1)
	if err != nil {
		t.Fatal(err)
	}

	guesses := []float64{0.5, 0.7, 0.8369152, 0.95, 0.98, -5, 12}
	for _, g := range guesses {
		x, err := Solve(mu, L1, WithInitialGuess(g))
		if err != nil {
			t.Errorf("guess %f: %v", g, err)
			continue
		}
		if math.Abs(x-ref) > 1e-10 {
			t.Errorf("guess %f converged to %.12f, expected %.12f", g, x, ref)
		}
	}
}

func TestSolveOrdering(t *testing.T) {
	mu := physics.MuSunEarth
	l1, _ := Solve(mu, L1)
	l2, _ := Solve(mu, L2)
	l3, _ := Solve(mu, L3)

	if !(l3 < -mu && -mu < l1 && l1 < 1-mu && 1-mu < l2) {
		t.Errorf("unexpected ordering: L3=%f L1=%f L2=%f", l3, l1, l2)
	}
}

func TestSolveInvalidMassRatio(t *testing.T) {
	for _, mu := range []float64{0, -0.1, 0.6, math.NaN()} {
		_, err := Solve(mu, L1)
		if !errors.Is(err, dynamo.ErrParameterBounds) {
			t.Errorf("mu=%v: expected ErrParameterBounds, got %v", mu, err)
		}
	}
}

func TestSolveNonConvergence(t *testing.T) {
	_, err := Solve(physics.MuEarthMoon, L1, WithMaxIterations(1), WithInitialGuess(0.5))
	if !errors.Is(err, dynamo.ErrRootFinding) {
		t.Errorf("expected ErrRootFinding, got %v", err)
	}
}

func TestParsePoint(t *testing.T) {
	for in, want := range map[string]Point{"L1": L1, "l2": L2, "3": L3} {
		got, err := ParsePoint(in)
		if err != nil || got != want {
			t.Errorf("ParsePoint(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePoint("L4"); err == nil {
		t.Error("expected error for L4")
	}
	if L2.String() != "L2" {
		t.Errorf("unexpected name %s", L2)
	}
}

func TestHillGuess(t *testing.T) {
	mu := physics.MuSunEarth
	h := math.Cbrt(mu / 3)
	if HillGuess(mu, L1) != 1-h || HillGuess(mu, L2) != 1+h {
		t.Error("unexpected Hill-radius guesses")
	}
}
