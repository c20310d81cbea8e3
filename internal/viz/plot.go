package viz

import (
	"math"
	"strings"

	"github.com/san-kum/libration/internal/dynamo"
)

// Glyphs assigned to series in order.
var Glyphs = []rune{'•', '+', 'o', 'x', '*', '#'}

type PlotSeries struct {
	Name       string
	Trajectory *dynamo.Trajectory
}

// PlotMarker is drawn on top of every series.
type PlotMarker struct {
	Glyph rune
	X, Y  float64
}

// PlotXY rasterizes the x-y projection of the series into a width x height
// character grid. Axes through the origin are drawn where visible.
func PlotXY(series []PlotSeries, markers []PlotMarker, width, height int) string {
	if width < 2 || height < 2 {
		return ""
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	extend := func(x, y float64) {
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			return
		}
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	for _, s := range series {
		if s.Trajectory == nil {
			continue
		}
		for _, x := range s.Trajectory.States {
			extend(x[0], x[1])
		}
	}
	for _, m := range markers {
		extend(m.X, m.Y)
	}
	if math.IsInf(minX, 1) {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	maxX += rangeX * 0.05
	minY -= rangeY * 0.05
	maxY += rangeY * 0.05
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	cell := func(x, y float64) (int, int, bool) {
		if math.IsNaN(x) || math.IsNaN(y) {
			return 0, 0, false
		}
		col := int((x - minX) / rangeX * float64(width-1))
		row := height - 1 - int((y-minY)/rangeY*float64(height-1))
		return row, col, row >= 0 && row < height && col >= 0 && col < width
	}

	if minX <= 0 && maxX >= 0 {
		_, col, _ := cell(0, minY)
		for row := 0; row < height; row++ {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row, _, _ := cell(minX, 0)
		for col := 0; col < width; col++ {
			if canvas[row][col] == '│' {
				canvas[row][col] = '┼'
			} else {
				canvas[row][col] = '─'
			}
		}
	}

	for i, s := range series {
		if s.Trajectory == nil {
			continue
		}
		g := Glyphs[i%len(Glyphs)]
		for _, x := range s.Trajectory.States {
			if row, col, ok := cell(x[0], x[1]); ok {
				canvas[row][col] = g
			}
		}
	}

	for _, m := range markers {
		if row, col, ok := cell(m.X, m.Y); ok {
			canvas[row][col] = m.Glyph
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Legend lists the glyph used for each series.
func Legend(series []PlotSeries) string {
	parts := make([]string, len(series))
	for i, s := range series {
		parts[i] = string(Glyphs[i%len(Glyphs)]) + " " + s.Name
	}
	return Subtle.Render(strings.Join(parts, "   "))
}
