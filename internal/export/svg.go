package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/libration/internal/dynamo"
)

// Palette for series that don't set their own color.
var Palette = []string{"#ff5f5f", "#ffaf00", "#5fafff", "#5fff87", "#d787ff", "#ffffff"}

type Series struct {
	Name       string
	Color      string
	Trajectory *dynamo.Trajectory
}

// Marker is a labelled point, e.g. a primary or a libration point.
type Marker struct {
	Label  string
	X, Y   float64
	Radius float64
	Color  string
}

// Circle is a reference orbit centered on the origin.
type Circle struct {
	Label  string
	Radius float64
	Color  string
}

type Scene struct {
	Width, Height int
	Series        []Series
	Markers       []Marker
	Circles       []Circle
}

type bounds struct {
	minX, maxX, minY, maxY float64
	empty                  bool
}

func (b *bounds) add(x, y float64) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return
	}
	if b.empty {
		b.minX, b.maxX, b.minY, b.maxY = x, x, y, y
		b.empty = false
		return
	}
	b.minX = math.Min(b.minX, x)
	b.maxX = math.Max(b.maxX, x)
	b.minY = math.Min(b.minY, y)
	b.maxY = math.Max(b.maxY, y)
}

func (s Scene) bounds() bounds {
	b := bounds{empty: true}
	for _, ser := range s.Series {
		if ser.Trajectory == nil {
			continue
		}
		for _, x := range ser.Trajectory.States {
			b.add(x[0], x[1])
		}
	}
	for _, m := range s.Markers {
		b.add(m.X, m.Y)
	}
	for _, c := range s.Circles {
		b.add(-c.Radius, -c.Radius)
		b.add(c.Radius, c.Radius)
	}
	return b
}

// TrajectoriesToSVG draws the x-y projection of every series on one
// canvas. Both axes share a scale so circular orbits stay circular.
func TrajectoriesToSVG(scene Scene) string {
	b := scene.bounds()
	if b.empty {
		return ""
	}

	width, height := scene.Width, scene.Height
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 800
	}

	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
	rangeX = b.maxX - b.minX
	rangeY = b.maxY - b.minY

	scale := math.Min(float64(width)/rangeX, float64(height)/rangeY)
	cx := (b.minX + b.maxX) / 2
	cy := (b.minY + b.maxY) / 2
	px := func(x float64) float64 { return float64(width)/2 + (x-cx)*scale }
	py := func(y float64) float64 { return float64(height)/2 - (y-cy)*scale }

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, c := range scene.Circles {
		color := c.Color
		if color == "" {
			color = "#444444"
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-dasharray="4 4"><title>%s</title></circle>
`, px(0), py(0), c.Radius*scale, color, c.Label))
	}

	for i, ser := range scene.Series {
		if ser.Trajectory == nil || ser.Trajectory.Len() < 2 {
			continue
		}
		color := ser.Color
		if color == "" {
			color = Palette[i%len(Palette)]
		}

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, color))
		move := true
		for _, x := range ser.Trajectory.States {
			if !x.IsValid() {
				move = true
				continue
			}
			if move {
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f", px(x[0]), py(x[1])))
				move = false
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px(x[0]), py(x[1])))
			}
		}
		sb.WriteString(fmt.Sprintf(`"><title>%s</title></path>
`, ser.Name))
	}

	for _, m := range scene.Markers {
		color := m.Color
		if color == "" {
			color = "#ffffff"
		}
		r := m.Radius
		if r <= 0 {
			r = 3
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="12">%s</text>
`, px(m.X), py(m.Y), r, color, px(m.X)+r+2, py(m.Y)-r-2, color, m.Label))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
