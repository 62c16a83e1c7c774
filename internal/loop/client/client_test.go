package client

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/beetles/internal/difficulty"
	"github.com/tomz197/beetles/internal/input"
	"github.com/tomz197/beetles/internal/loop"
	"github.com/tomz197/beetles/internal/loop/config"
	"github.com/tomz197/beetles/internal/loop/server"
	"github.com/tomz197/beetles/internal/tilt"
)

func newTestClient(t *testing.T) (*Client, *server.Server, *bytes.Buffer) {
	t.Helper()
	srv := server.NewServer(server.Options{Logger: log.New(io.Discard)})
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })
	var out bytes.Buffer
	c, err := NewClient(srv, bufio.NewReader(pr), &out, ClientOptions{
		Username:     "tester",
		TermSizeFunc: func() (int, int, error) { return 120, 40, nil },
		Logger:       log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, srv, &out
}

func TestClampTermSize(t *testing.T) {
	w, h, col, row := clampTermSize(300, 100)
	if w != config.MaxTermWidth || h != config.MaxTermHeight || col != 30 || row != 10 {
		t.Fatalf("got %d %d %d %d", w, h, col, row)
	}
	w, h, col, row = clampTermSize(80, 24)
	if w != 80 || h != 24 || col != 0 || row != 0 {
		t.Fatalf("got %d %d %d %d", w, h, col, row)
	}
}

func TestArrowTilt(t *testing.T) {
	got := arrowTilt(input.Input{Left: true, Up: true})
	want := tilt.Sample{X: -config.KeyTiltStrength, Y: config.KeyTiltStrength}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if got := arrowTilt(input.Input{Left: true, Right: true}); got != (tilt.Sample{}) {
		t.Fatalf("opposite keys = %+v, want zero", got)
	}
}

func TestStartRoundUsesSelectedTier(t *testing.T) {
	c, _, _ := newTestClient(t)

	c.state.Input = input.Input{Number: 3, Space: true}
	c.updateStartState()

	if c.state.Tier != difficulty.TierHard || c.state.Screen != ScreenRound {
		t.Fatalf("tier %v screen %v, want hard round", c.state.Tier, c.state.Screen)
	}
	snap := c.handle.Round.Snapshot()
	if snap.State.Phase != loop.PhaseCountdown || snap.State.RoundDuration != 60 || snap.State.MaxBeetles != 35 {
		t.Fatalf("state = %+v", snap.State)
	}
}

func TestTapReachesRound(t *testing.T) {
	c, _, _ := newTestClient(t)
	c.startRound()
	c.handle.Round.Advance(3 * time.Second)

	c.state.snapshot = c.handle.Round.Snapshot()
	// Top row of the terminal is inside the inset, so this can only miss.
	c.state.Input = input.Input{Number: -1, Taps: []input.Tap{{Col: 60, Row: 1}}}
	c.updateRoundState()

	if c.state.lastTap != loop.TapMiss || c.state.tapPoints != config.ScoreMiss {
		t.Fatalf("last tap %v %d, want miss", c.state.lastTap, c.state.tapPoints)
	}
	if got := c.handle.Round.Snapshot().State.Score; got != config.ScoreMiss {
		t.Fatalf("score = %d, want %d", got, config.ScoreMiss)
	}
}

func TestResetReturnsToMenu(t *testing.T) {
	c, _, _ := newTestClient(t)
	c.startRound()

	c.state.snapshot = c.handle.Round.Snapshot()
	c.state.Input = input.Input{Number: -1, Reset: true}
	c.updateRoundState()

	if c.state.Screen != ScreenStart {
		t.Fatalf("screen = %v, want start", c.state.Screen)
	}
	if phase := c.handle.Round.Snapshot().State.Phase; phase != loop.PhaseIdle {
		t.Fatalf("phase = %v, want idle", phase)
	}
}

func TestDrawFrameShowsHUD(t *testing.T) {
	c, _, out := newTestClient(t)
	c.startRound()
	c.handle.Round.Advance(3 * time.Second)
	c.state.snapshot = c.handle.Round.Snapshot()

	if err := c.drawFrame(); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	if !strings.Contains(out.String(), "Score: 0") || !strings.Contains(out.String(), "Time:") {
		t.Fatalf("HUD missing from %q", out.String())
	}
}

func TestShutdownEventEndsRound(t *testing.T) {
	c, srv, _ := newTestClient(t)
	c.startRound()

	go srv.Shutdown(50 * time.Millisecond)
	deadline := time.Now().Add(time.Second)
	for c.state.Screen != ScreenShutdown && time.Now().Before(deadline) {
		c.processServerEvents()
		time.Sleep(5 * time.Millisecond)
	}
	if c.state.Screen != ScreenShutdown {
		t.Fatal("shutdown event not handled")
	}
	if phase := c.handle.Round.Snapshot().State.Phase; phase != loop.PhaseGameOver {
		t.Fatalf("phase = %v, want game over", phase)
	}
}
