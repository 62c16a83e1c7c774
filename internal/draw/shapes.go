package draw

import "math"

// Point is a position in logical space.
type Point struct {
	X, Y float64
}

// Rotate turns p around (cx, cy) by deg degrees, clockwise on screen.
func Rotate(p Point, cx, cy, deg float64) Point {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	dx, dy := p.X-cx, p.Y-cy
	return Point{
		X: cx + dx*cos - dy*sin,
		Y: cy + dx*sin + dy*cos,
	}
}

// Ellipse fills dst with len(dst) points on an ellipse centred on (cx, cy)
// with radii rx, ry, rotated by deg degrees.
func Ellipse(dst []Point, cx, cy, rx, ry, deg float64) []Point {
	n := len(dst)
	for i := range dst {
		a := 2 * math.Pi * float64(i) / float64(n)
		p := Point{X: cx + rx*math.Cos(a), Y: cy + ry*math.Sin(a)}
		dst[i] = Rotate(p, cx, cy, deg)
	}
	return dst
}

// Diamond returns the four corners of a diamond inscribed in the square at
// (x, y) with the given side.
func Diamond(x, y, side float64) [4]Point {
	h := side / 2
	return [4]Point{
		{X: x + h, Y: y},
		{X: x + side, Y: y + h},
		{X: x + h, Y: y + side},
		{X: x, Y: y + h},
	}
}
