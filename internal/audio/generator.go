package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// ChirpGenerator makes an endless insect chirp: short bursts of a high
// tone with a fast vibrato, separated by silence.
type ChirpGenerator struct {
	sr     beep.SampleRate
	pos    int
	period int // samples per chirp cycle
	burst  int // audible samples at the start of each cycle
}

// NewChirpGenerator creates a chirp generator for the sample rate.
func NewChirpGenerator(sr beep.SampleRate) *ChirpGenerator {
	return &ChirpGenerator{
		sr:     sr,
		period: sr.N(250 * time.Millisecond),
		burst:  sr.N(90 * time.Millisecond),
	}
}

func (g *ChirpGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		cycle := g.pos % g.period
		sample := 0.0
		if cycle < g.burst {
			t := float64(g.pos) / float64(g.sr)
			progress := float64(cycle) / float64(g.burst)
			freq := 3200 + 400*math.Sin(2*math.Pi*40*t)
			envelope := math.Sin(progress * math.Pi)
			sample = 0.12 * envelope * math.Sin(2*math.Pi*freq*t)
		}
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ChirpGenerator) Err() error {
	return nil
}
