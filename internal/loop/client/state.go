package client

import (
	"time"

	"github.com/tomz197/beetles/internal/difficulty"
	"github.com/tomz197/beetles/internal/input"
	"github.com/tomz197/beetles/internal/loop"
	"github.com/tomz197/beetles/internal/tilt"
)

// Screen is the client-side screen. While ScreenRound is shown the round's
// own phase decides what is drawn.
type Screen int

const (
	ScreenStart    Screen = iota // Title screen with difficulty picker
	ScreenRound                  // Countdown, play and game over
	ScreenShutdown               // Server is shutting down
)

// ClientState holds per-connection state (input, selected tier, screen).
type ClientState struct {
	Input     input.Input
	Screen    Screen
	Tier      difficulty.Tier
	Running   bool
	delta     time.Duration
	snapshot  *loop.Snapshot
	tilt      tilt.Sample // last sample pushed to the round
	lastTap   loop.TapResult
	tapFlash  float64 // seconds the last tap result stays visible
	tapPoints int

	shutdownTimer float64 // Countdown before auto-disconnect on shutdown
	isInactive    bool

	prevScreen  Screen
	prevPhase   loop.Phase
	wasInactive bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Screen:     ScreenStart,
		Tier:       difficulty.TierMedium,
		Running:    true,
		prevScreen: -1,
	}
}
