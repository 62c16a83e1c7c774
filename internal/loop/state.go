package loop

import (
	"time"

	"github.com/tomz197/beetles/internal/object"
)

// Phase is the coarse state of a round.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCountdown
	PhasePlaying
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCountdown:
		return "countdown"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// GameState is the externally visible state of a round.
type GameState struct {
	Phase         Phase
	Score         int
	TimeLeft      int // seconds
	MaxBeetles    int
	GameSpeed     float64
	RoundDuration int // seconds
	Started       bool
	GameOver      bool
	Countdown     int
	ShowBonus     bool
	BonusX        float64
	BonusY        float64
	BonusActive   bool
	BonusTimeLeft int // seconds
}

// Snapshot is an immutable copy of a round for rendering. Frontends must
// not modify it.
type Snapshot struct {
	State   GameState
	Beetles []object.Beetle
	Bounds  object.Bounds
	Tick    time.Duration // virtual time the snapshot was taken at
}

// TapResult tells a frontend what a tap did.
type TapResult int

const (
	TapIgnored TapResult = iota
	TapBonus
	TapHit
	TapMiss
)

func (r TapResult) String() string {
	switch r {
	case TapBonus:
		return "bonus"
	case TapHit:
		return "hit"
	case TapMiss:
		return "miss"
	default:
		return "ignored"
	}
}
