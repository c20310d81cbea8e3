package metrics

import (
	"math"

	"github.com/san-kum/libration/internal/dynamo"
)

// MaxRadius records the largest distance from a center point.
type MaxRadius struct {
	name    string
	cx, cy  float64
	max     float64
	atTime  float64
	samples int
}

// NewMaxRadius measures from the origin of the rotating frame (the
// barycenter).
func NewMaxRadius() *MaxRadius {
	return &MaxRadius{name: "max_radius"}
}

func (m *MaxRadius) Name() string { return m.name }

func (m *MaxRadius) Observe(x dynamo.State, t float64) {
	r := math.Hypot(x[0]-m.cx, x[1]-m.cy)
	if m.samples == 0 || r > m.max {
		m.max = r
		m.atTime = t
	}
	m.samples++
}

func (m *MaxRadius) Value() float64 { return m.max }

// Time is when the maximum was reached.
func (m *MaxRadius) Time() float64 { return m.atTime }

func (m *MaxRadius) Reset() {
	m.max = 0
	m.atTime = 0
	m.samples = 0
}

// MinDistance records the closest approach to a fixed point, such as the
// secondary body.
type MinDistance struct {
	name    string
	px, py  float64
	min     float64
	samples int
}

func NewMinDistance(name string, px, py float64) *MinDistance {
	return &MinDistance{name: name, px: px, py: py}
}

func (m *MinDistance) Name() string { return m.name }

func (m *MinDistance) Observe(x dynamo.State, t float64) {
	d := math.Hypot(x[0]-m.px, x[1]-m.py)
	if m.samples == 0 || d < m.min {
		m.min = d
	}
	m.samples++
}

func (m *MinDistance) Value() float64 {
	if m.samples == 0 {
		return math.Inf(1)
	}
	return m.min
}

func (m *MinDistance) Reset() {
	m.min = 0
	m.samples = 0
}
