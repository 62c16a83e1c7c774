// Package config centralizes the fixed game parameters.
package config

import "time"

// View resolution for the terminal client, in layout units. The canvas
// scales this to the terminal size.
const (
	ViewWidth  = 1200
	ViewHeight = 800
)

// Scoring
const (
	ScoreHit   = 10
	ScoreMiss  = -5
	ScoreBonus = 20
)

// Round timing
const (
	CountdownSeconds = 3
	PhysicsTick      = 16 * time.Millisecond
	SecondTick       = time.Second
	SpawnRetryDelay  = 200 * time.Millisecond
	MaxFrameDelta    = 250 * time.Millisecond // wall-clock gap cap for Round.Run
)

// Bonus
const (
	BonusVisibleFor      = 5 * time.Second
	BonusDurationSeconds = 10
)

// Persistence
const (
	PersistTimeout = 5 * time.Second
)

// Player
const (
	MaxUsernameLength = 16
	LeaderboardSize   = 10
)

// Tilt from arrow keys, in the same units as an accelerometer sample.
const (
	KeyTiltStrength = 5.0
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 30
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxTermWidth          = 240
	MaxTermHeight         = 80
)

// Host housekeeping
const (
	LeaderboardRefresh = 5 * time.Second
)
