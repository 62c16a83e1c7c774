package object

import (
	"math/rand"

	"github.com/tomz197/beetles/internal/physics"
)

// spawnAttempts bounds the search for a free spot before the spawner
// settles for an overlapping one.
const spawnAttempts = 8

// SpawnParams carries the round tunables a new beetle is built from.
type SpawnParams struct {
	Bounds            Bounds
	GameSpeed         float64
	DirectionInterval float64
}

// BeetleSpawner keeps the beetle population at the round's cap and hands
// out monotonically increasing IDs.
type BeetleSpawner struct {
	rng    *rand.Rand
	nextID int
	grid   *physics.SpatialGrid
}

// NewBeetleSpawner creates a spawner drawing from rng.
func NewBeetleSpawner(rng *rand.Rand) *BeetleSpawner {
	return &BeetleSpawner{rng: rng}
}

// Reset restarts ID assignment for a new round.
func (s *BeetleSpawner) Reset() {
	s.nextID = 0
}

// MaybeSpawn creates one beetle when live < limit. It prefers a position
// whose hit-box overlaps no live beetle in existing and falls back to the
// last candidate when the field is crowded.
func (s *BeetleSpawner) MaybeSpawn(live, limit int, p SpawnParams, existing []*Beetle) (*Beetle, bool) {
	if live >= limit || !p.Bounds.Fits(BeetleSize) {
		return nil, false
	}

	s.index(p.Bounds, existing)

	var x, y float64
	for attempt := 0; attempt < spawnAttempts; attempt++ {
		x, y = p.Bounds.RandomPosition(s.rng, BeetleSize)
		if !s.occupied(x, y, existing) {
			break
		}
	}

	heading := s.rng.Float64() * 360
	b := NewBeetle(s.nextID, x, y, heading, Speed(p.GameSpeed), NextDirectionTimer(s.rng, p.DirectionInterval))
	s.nextID++
	return b, true
}

func (s *BeetleSpawner) index(bounds Bounds, existing []*Beetle) {
	w, h := bounds.Width, bounds.Height-bounds.TopInset
	if s.grid == nil || !s.grid.Covers(0, bounds.TopInset, w, h, BeetleSize) {
		s.grid = physics.NewSpatialGrid(0, bounds.TopInset, w, h, BeetleSize)
	} else {
		s.grid.Clear()
	}
	for i, b := range existing {
		if b.Alive {
			s.grid.Insert(b.X, b.Y, i)
		}
	}
}

func (s *BeetleSpawner) occupied(x, y float64, existing []*Beetle) bool {
	hit := false
	s.grid.QueryAround(x, y, func(i int) bool {
		b := existing[i]
		hit = physics.SquaresOverlap(x, y, b.X, b.Y, BeetleSize)
		return hit
	})
	return hit
}
