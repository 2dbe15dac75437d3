package schedule

// Point is a position in chart data units. Y grows upward.
type Point struct {
	X, Y float64
}

// Arrow is a straight arrow from Start along (DX, DY).
type Arrow struct {
	Start  Point
	DX, DY float64
}

// End returns the arrow tip.
func (a Arrow) End() Point {
	return Point{X: a.Start.X + a.DX, Y: a.Start.Y + a.DY}
}

// Center returns the arrow midpoint, where its tooltip is anchored.
func (a Arrow) Center() Point {
	return Point{X: a.Start.X + 0.5*a.DX, Y: a.Start.Y + 0.5*a.DY}
}

// arrowBetween connects two unit boxes placed at src and dst (lower-left
// corners). The arrow leaves the right edge of src and ends on the left
// edge of dst, or runs vertically along src's right edge when both share
// a column. Vertically it spans the gap between the boxes and always
// points at dst.
func arrowBetween(src, dst Point) Arrow {
	a := Arrow{Start: Point{X: src.X + 1, Y: src.Y}}
	if src.X != dst.X {
		a.DX = dst.X - (src.X + 1)
	}

	switch {
	case src.Y > dst.Y:
		a.DY = -(src.Y - dst.Y - 1)
	case src.Y < dst.Y:
		a.Start.Y = src.Y + 1
		a.DY = dst.Y - src.Y - 1
	}
	return a
}
