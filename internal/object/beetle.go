package object

import (
	"math/rand"

	"github.com/tomz197/beetles/internal/physics"
)

const (
	BeetleSize = 80.0 // hit-box side

	wallMargin         = 20.0 // free-roam turns only happen this far from every edge
	speedFactor        = 2.5  // beetle speed per unit of game speed
	directionJitter    = 2.0  // seconds added at random to the direction interval
	gravityStrength    = 15.0 // tilt sample to gravity scale
	gravityIntegration = 0.1  // share of the gravity added each tick
	gravityLimit       = 20.0 // per-axis clamp on gravity velocity
	gravityDecay       = 0.9  // per-tick gravity retention outside bonus mode
)

// Beetle is one tappable target.
type Beetle struct {
	ID             int
	X, Y           float64 // top-left corner
	VX, VY         float64 // free-roam velocity, units per tick
	GX, GY         float64 // gravity velocity from bonus tilt, units per tick
	Rotation       float64 // degrees
	DirectionTimer float64 // seconds until the next free-roam heading change
	Alive          bool
}

// StepContext is what a beetle needs to advance one tick.
type StepContext struct {
	Bounds            Bounds
	Dt                float64 // tick length in seconds
	GameSpeed         float64
	DirectionInterval float64
	WallDamping       float64
	BonusActive       bool
	TiltX, TiltY      float64
	Rand              *rand.Rand
}

// NewBeetle creates a live beetle heading along headingDeg.
func NewBeetle(id int, x, y, headingDeg, speed, directionTimer float64) *Beetle {
	vx, vy := physics.Velocity(headingDeg, speed)
	return &Beetle{
		ID:             id,
		X:              x,
		Y:              y,
		VX:             vx,
		VY:             vy,
		Rotation:       headingDeg + 90,
		DirectionTimer: directionTimer,
		Alive:          true,
	}
}

// Speed returns the free-roam speed for a game speed.
func Speed(gameSpeed float64) float64 {
	return gameSpeed * speedFactor
}

// NextDirectionTimer draws a fresh countdown in [interval, interval+2).
func NextDirectionTimer(rng *rand.Rand, interval float64) float64 {
	return rng.Float64()*directionJitter + interval
}

// MarkDestroyed kills the beetle.
func (b *Beetle) MarkDestroyed() {
	b.Alive = false
}

// IsDestroyed returns true once the beetle has been killed.
func (b *Beetle) IsDestroyed() bool {
	return !b.Alive
}

// Contains reports whether a tap at (x, y) hits the beetle.
func (b *Beetle) Contains(x, y float64) bool {
	return physics.PointInSquare(x, y, b.X, b.Y, BeetleSize)
}

// Velocity returns the combined free-roam and gravity velocity.
func (b *Beetle) Velocity() (float64, float64) {
	return b.VX + b.GX, b.VY + b.GY
}

// Step advances the beetle one tick: steering, integration, wall
// collision and rotation. Dead beetles are left untouched.
func (b *Beetle) Step(ctx StepContext) {
	if !b.Alive {
		return
	}

	if ctx.BonusActive {
		b.GX = physics.Clamp(b.GX+ctx.TiltX*gravityStrength*gravityIntegration, -gravityLimit, gravityLimit)
		b.GY = physics.Clamp(b.GY-ctx.TiltY*gravityStrength*gravityIntegration, -gravityLimit, gravityLimit)
		b.DirectionTimer = ctx.DirectionInterval
	} else {
		b.GX *= gravityDecay
		b.GY *= gravityDecay
		b.DirectionTimer -= ctx.Dt
		if b.DirectionTimer <= 0 && b.awayFromWalls(ctx.Bounds) {
			heading := ctx.Rand.Float64() * 360
			b.VX, b.VY = physics.Velocity(heading, Speed(ctx.GameSpeed))
			b.DirectionTimer = NextDirectionTimer(ctx.Rand, ctx.DirectionInterval)
		}
	}

	vx, vy := b.Velocity()
	nextX := b.X + vx
	nextY := b.Y + vy
	retain := 1 - ctx.WallDamping

	if nextX < 0 || nextX > ctx.Bounds.MaxX(BeetleSize) {
		b.VX = -b.VX
		b.GX = physics.Clamp(-b.GX*retain, -gravityLimit, gravityLimit)
		b.X = physics.Clamp(b.X, 0, ctx.Bounds.MaxX(BeetleSize))
	} else {
		b.X = nextX
	}

	if nextY < ctx.Bounds.MinY() || nextY > ctx.Bounds.MaxY(BeetleSize) {
		b.VY = -b.VY
		b.GY = physics.Clamp(-b.GY*retain, -gravityLimit, gravityLimit)
		b.Y = physics.Clamp(b.Y, ctx.Bounds.MinY(), ctx.Bounds.MaxY(BeetleSize))
	} else {
		b.Y = nextY
	}

	b.Rotation = physics.Rotation(vx, vy)
}

// ClampInto moves the beetle back inside bounds, e.g. after a resize.
func (b *Beetle) ClampInto(bounds Bounds) {
	b.X, b.Y = bounds.Clamp(b.X, b.Y, BeetleSize)
}

// ResetGravity drops any accumulated bonus-mode velocity.
func (b *Beetle) ResetGravity() {
	b.GX, b.GY = 0, 0
}

func (b *Beetle) awayFromWalls(bounds Bounds) bool {
	return b.X > wallMargin && b.X < bounds.MaxX(BeetleSize)-wallMargin &&
		b.Y > bounds.MinY()+wallMargin && b.Y < bounds.MaxY(BeetleSize)-wallMargin
}
