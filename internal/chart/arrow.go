package chart

import (
	"math"

	"github.com/alexanderramin/roadmap/internal/schedule"
)

// arrowShape is a unit arrow pointing along +u: a shaft of half-width 0.1
// ending in a head that covers the last fifth of the length.
var arrowShape = [][2]float64{
	{0.0, 0.1}, {0.0, -0.1}, {0.8, -0.1}, {0.8, -0.3}, {1.0, 0.0}, {0.8, 0.3}, {0.8, 0.1},
}

// arrowPolygon returns the outline of a in pixel space. width scales the
// arrow across its direction, in data units.
func arrowPolygon(v viewport, a schedule.Arrow, width float64) (xs, ys []int) {
	length := math.Hypot(a.DX, a.DY)
	ux, uy := 0.0, 0.0
	if length > 0 {
		ux, uy = a.DX/length, a.DY/length
	}
	// Normal to the arrow direction.
	nx, ny := -uy, ux

	xs = make([]int, len(arrowShape))
	ys = make([]int, len(arrowShape))
	for i, p := range arrowShape {
		along := p[0] * length
		across := p[1] * width
		x := a.Start.X + along*ux + across*nx
		y := a.Start.Y + along*uy + across*ny
		xs[i] = v.px(x)
		ys[i] = v.py(y)
	}
	return xs, ys
}
