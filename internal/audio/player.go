// Package audio plays the bonus-mode sound cue through the system speaker.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Player plays one looping cue at a time. Every method is safe to call
// before Init or after Init failed; the player is then silent.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	loop        *beep.Ctrl
	initialized bool
}

// NewPlayer creates a silent player. Call Init to open the speaker.
func NewPlayer() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

// Init opens the speaker. Safe to call more than once.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// PlayLoop starts the chirping cue unless it is already playing.
func (p *Player) PlayLoop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.loop != nil {
		return
	}
	ctrl := &beep.Ctrl{Streamer: NewChirpGenerator(sampleRate)}
	speaker.Lock()
	p.mixer.Add(ctrl)
	speaker.Unlock()
	p.loop = ctrl
}

// Stop ends the cue. The mixer drops the drained streamer on its next pass.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loop == nil {
		return
	}
	speaker.Lock()
	p.loop.Streamer = nil
	speaker.Unlock()
	p.loop = nil
}

// Close silences everything and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.loop = nil
	p.initialized = false
}

// Nop is a silent cue for sessions without a local speaker.
type Nop struct{}

func (Nop) PlayLoop() {}
func (Nop) Stop()     {}
