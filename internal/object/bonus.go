package object

import (
	"math/rand"

	"github.com/tomz197/beetles/internal/physics"
)

// BonusSize is the pickup hit-box side.
const BonusSize = 60.0

// Bonus is the tappable pickup that starts tilt mode.
type Bonus struct {
	X, Y    float64
	Visible bool
}

// Offer shows the pickup at a random spot inside bounds.
func (b *Bonus) Offer(bounds Bounds, rng *rand.Rand) {
	b.X, b.Y = bounds.RandomPosition(rng, BonusSize)
	b.Visible = true
}

// Hide removes the pickup from the field, keeping its last position.
func (b *Bonus) Hide() {
	b.Visible = false
}

// Contains reports whether a tap at (x, y) lands on a visible pickup.
func (b *Bonus) Contains(x, y float64) bool {
	return b.Visible && physics.PointInSquare(x, y, b.X, b.Y, BonusSize)
}
