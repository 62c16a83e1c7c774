// Package physics provides hit-box, clamping and heading helpers shared by
// the beetle simulation and the frontends.
package physics

import "math"

// Clamp limits v to [lo, hi]. If hi < lo, lo wins.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// PointInSquare reports whether (px, py) lies in the square with top-left
// corner (x, y) and the given side. Edges are inclusive.
func PointInSquare(px, py, x, y, side float64) bool {
	return px >= x && px <= x+side && py >= y && py <= y+side
}

// SquaresOverlap reports whether two equally sized squares, given by their
// top-left corners, share any interior area.
func SquaresOverlap(x1, y1, x2, y2, side float64) bool {
	return math.Abs(x1-x2) < side && math.Abs(y1-y2) < side
}

// Velocity returns the (vx, vy) components of a speed along a heading in
// degrees, measured clockwise from the +x axis in screen space.
func Velocity(headingDeg, speed float64) (vx, vy float64) {
	rad := headingDeg * math.Pi / 180
	return math.Cos(rad) * speed, math.Sin(rad) * speed
}

// Rotation is the sprite rotation for a velocity: the heading in degrees
// plus 90, so an upward-facing sprite points along the motion.
func Rotation(vx, vy float64) float64 {
	return math.Atan2(vy, vx)*180/math.Pi + 90
}
