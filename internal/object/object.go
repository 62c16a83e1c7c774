// Package object holds the entities of a round: beetles, the bonus pickup
// and the spawner that keeps the beetle population topped up.
package object

import (
	"math/rand"

	"github.com/tomz197/beetles/internal/physics"
)

// Layout defaults, in layout units.
const (
	DefaultTopInset    = 80.0 // HUD bar above the playfield
	DefaultBottomInset = 80.0 // control bar below the playfield
)

// Bounds describes the layout area of a round. Entities live in the
// playable rectangle: the full width, and the height between the insets.
type Bounds struct {
	Width       float64
	Height      float64
	TopInset    float64
	BottomInset float64
}

// NewBounds returns bounds of the given size with the default insets.
func NewBounds(width, height float64) Bounds {
	return Bounds{
		Width:       width,
		Height:      height,
		TopInset:    DefaultTopInset,
		BottomInset: DefaultBottomInset,
	}
}

// MaxX is the largest top-left x for an entity of the given size.
func (b Bounds) MaxX(size float64) float64 {
	return b.Width - size
}

// MinY is the smallest top-left y for any entity.
func (b Bounds) MinY() float64 {
	return b.TopInset
}

// MaxY is the largest top-left y for an entity of the given size.
func (b Bounds) MaxY(size float64) float64 {
	return b.Height - b.BottomInset - size
}

// Fits reports whether an entity of the given size can be placed at all.
func (b Bounds) Fits(size float64) bool {
	return b.MaxX(size) >= 0 && b.MaxY(size) >= b.MinY()
}

// Clamp moves a top-left corner into the playable rectangle.
func (b Bounds) Clamp(x, y, size float64) (float64, float64) {
	return physics.Clamp(x, 0, b.MaxX(size)), physics.Clamp(y, b.MinY(), b.MaxY(size))
}

// RandomPosition returns a uniformly random top-left corner for an entity
// of the given size.
func (b Bounds) RandomPosition(rng *rand.Rand, size float64) (x, y float64) {
	x = rng.Float64() * b.MaxX(size)
	y = b.MinY() + rng.Float64()*(b.MaxY(size)-b.MinY())
	return x, y
}

// Destructible is implemented by entities that can be marked for removal.
type Destructible interface {
	// MarkDestroyed marks the entity for removal at the end of the tick.
	MarkDestroyed()
	// IsDestroyed returns true if the entity is marked for removal.
	IsDestroyed() bool
}

// Compact removes destroyed entities in place, preserving order.
func Compact[T Destructible](items []T) []T {
	n := 0
	for _, it := range items {
		if !it.IsDestroyed() {
			items[n] = it
			n++
		}
	}
	var zero T
	for i := n; i < len(items); i++ {
		items[i] = zero
	}
	return items[:n]
}
