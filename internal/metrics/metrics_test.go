package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/libration/internal/dynamo"
	"github.com/san-kum/libration/internal/physics"
)

func circle(r float64, n int) *dynamo.Trajectory {
	tr := &dynamo.Trajectory{}
	for i := 0; i < n; i++ {
		th := 2 * math.Pi * float64(i) / float64(n)
		rr := r * (1 + 0.1*float64(i)/float64(n))
		tr.Times = append(tr.Times, float64(i))
		tr.States = append(tr.States, dynamo.State{rr * math.Cos(th), rr * math.Sin(th), 0, 0})
	}
	return tr
}

func TestMaxRadius(t *testing.T) {
	m := NewMaxRadius()
	tr := circle(1.0, 100)

	vals := Apply(tr, m)
	want := 1.0 * (1 + 0.1*99/100)
	if math.Abs(vals["max_radius"]-want) > 1e-12 {
		t.Errorf("expected max radius %f, got %f", want, vals["max_radius"])
	}
	if m.Time() != 99 {
		t.Errorf("expected max at t=99, got %f", m.Time())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestMinDistance(t *testing.T) {
	m := NewMinDistance("closest_secondary", 1, 0)
	if !math.IsInf(m.Value(), 1) {
		t.Error("expected +Inf before any observation")
	}

	Apply(circle(1.0, 100), m)
	if m.Value() > 1e-12 {
		t.Errorf("expected the first sample to touch (1, 0), got %e", m.Value())
	}
}

func TestJacobiDrift(t *testing.T) {
	dyn := physics.NewCR3BP(physics.MuEarthMoon)
	d := NewJacobiDrift(dyn)

	x := dynamo.State{0.5, 0.1, 0.2, 0.3}
	d.Observe(x, 0)
	d.Observe(x, 1)
	if d.Value() != 0 {
		t.Errorf("expected zero drift for identical states, got %e", d.Value())
	}
	if d.Initial() != dyn.Jacobi(x) {
		t.Errorf("expected initial %f, got %f", dyn.Jacobi(x), d.Initial())
	}

	moved := dynamo.State{0.5, 0.1, 0.2, 0.4}
	d.Observe(moved, 2)
	want := math.Abs(dyn.Jacobi(moved)-dyn.Jacobi(x)) / math.Abs(dyn.Jacobi(x))
	if math.Abs(d.Value()-want) > 1e-15 {
		t.Errorf("expected drift %e, got %e", want, d.Value())
	}

	d.Reset()
	if d.Value() != 0 || d.Initial() != 0 {
		t.Error("expected reset to clear drift")
	}
}

func TestBreaches(t *testing.T) {
	tr := circle(1.1, 100)

	hit, at := Breaches(tr, 1.2)
	if !hit {
		t.Fatal("expected the spiral to cross 1.2")
	}
	if at <= 0 || at >= 99 {
		t.Errorf("unexpected crossing time %f", at)
	}

	if hit, _ := Breaches(tr, 1.3); hit {
		t.Error("did not expect a crossing of 1.3")
	}
}
