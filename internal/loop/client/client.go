package client

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/beetles/internal/difficulty"
	"github.com/tomz197/beetles/internal/draw"
	"github.com/tomz197/beetles/internal/input"
	"github.com/tomz197/beetles/internal/loop"
	"github.com/tomz197/beetles/internal/loop/config"
	"github.com/tomz197/beetles/internal/loop/server"
	"github.com/tomz197/beetles/internal/tilt"
)

// tapFlashSeconds is how long the "+10" / "-5" feedback stays on screen.
const tapFlashSeconds = 0.6

// Client handles rendering and input for a single terminal connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Tier         difficulty.Tier // preselected difficulty; zero means medium
	Logger       *log.Logger
}

// NewClient registers with the server and creates a client for the terminal
// behind r and w.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) (*Client, error) {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	handle, err := gs.RegisterClient(opts.Username)
	if err != nil {
		return nil, err
	}
	state := NewClientState()
	if opts.Tier != 0 {
		state.Tier = opts.Tier
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.ViewWidth, config.ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		server:       gs,
		handle:       handle,
		state:        state,
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		logger:       logger.With("client", handle.ID),
	}, nil
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
func (c *Client) Run() error {
	draw.EnterGameMode(c.writer)
	defer draw.LeaveGameMode(c.writer)

	// Unregister from server
	defer c.server.UnregisterClient(c.handle.ID)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.state.snapshot = c.handle.Round.Snapshot()

		c.processInput()
		c.processServerEvents()
		c.updateScreen()

		switch c.state.Screen {
		case ScreenStart:
			c.updateStartState()
		case ScreenRound:
			c.updateRoundState()
		case ScreenShutdown:
			c.updateShutdownState()
		}

		// Inputs above may have changed the round
		c.state.snapshot = c.handle.Round.Snapshot()

		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}
	return nil
}

// processInput reads input and tracks inactivity.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.logger.Info("disconnecting inactive client")
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.Input.Quit {
		c.state.Running = false
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			if event.Type == server.EventServerShutdown {
				c.handle.Round.EndRound()
				c.state.Screen = ScreenShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.Clear()
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateStartState handles the title screen: tier selection and start.
func (c *Client) updateStartState() {
	in := c.state.Input
	if in.Number >= 1 {
		if tier, err := difficulty.ParseTier(fmt.Sprint(in.Number)); err == nil {
			c.state.Tier = tier
		}
	}
	if in.Space || in.Enter {
		c.startRound()
	}
}

// updateRoundState forwards taps and tilt to the round and handles the
// game over prompt.
func (c *Client) updateRoundState() {
	in := c.state.Input
	round := c.handle.Round
	phase := c.state.snapshot.State.Phase

	switch {
	case in.Reset:
		round.ResetRound()
		c.pushTilt(tilt.Sample{})
		input.ResetKeyInput(c.inputStream)
		c.state.Screen = ScreenStart
		return
	case in.Escape && phase != loop.PhaseGameOver:
		round.EndRound()
		return
	case phase == loop.PhaseGameOver && (in.Space || in.Enter):
		c.startRound()
		return
	}

	for _, tap := range in.Taps {
		x, y, ok := c.canvas.TerminalToLogical(tap.Col, tap.Row)
		if !ok {
			continue
		}
		c.recordTap(round.OnTap(x, y))
	}
	if in.Bonus && round.OnBonusPickupTap() {
		c.recordTap(loop.TapBonus)
	}

	c.pushTilt(arrowTilt(in))

	if c.state.tapFlash > 0 {
		c.state.tapFlash -= c.state.delta.Seconds()
	}
}

// arrowTilt maps held arrow keys to a tilt sample. Up tilts the board so
// beetles slide towards the top of the screen.
func arrowTilt(in input.Input) tilt.Sample {
	var s tilt.Sample
	if in.Left {
		s.X -= config.KeyTiltStrength
	}
	if in.Right {
		s.X += config.KeyTiltStrength
	}
	if in.Up {
		s.Y += config.KeyTiltStrength
	}
	if in.Down {
		s.Y -= config.KeyTiltStrength
	}
	return s
}

// pushTilt forwards a tilt sample when it differs from the last one.
func (c *Client) pushTilt(s tilt.Sample) {
	if s == c.state.tilt {
		return
	}
	c.state.tilt = s
	c.handle.Tilt.Push(s)
}

func (c *Client) recordTap(result loop.TapResult) {
	switch result {
	case loop.TapHit:
		c.state.tapPoints = config.ScoreHit
	case loop.TapMiss:
		c.state.tapPoints = config.ScoreMiss
	case loop.TapBonus:
		c.state.tapPoints = config.ScoreBonus
	default:
		return
	}
	c.state.lastTap = result
	c.state.tapFlash = tapFlashSeconds
}

// startRound starts or restarts a round at the selected tier.
func (c *Client) startRound() {
	input.ResetKeyInput(c.inputStream)

	round := c.handle.Round
	round.ResetRound()
	round.SetPlayer(c.handle.PlayerID)
	profile := difficulty.Resolve(c.server.Tiers().Settings(c.state.Tier))
	if err := round.InitRound(config.ViewWidth, config.ViewHeight, profile); err != nil {
		c.logger.Error("start round", "tier", c.state.Tier, "err", err)
		return
	}
	c.logger.Debug("round started", "tier", c.state.Tier, "difficulty", profile.Difficulty)
	c.state.tapFlash = 0
	c.state.Screen = ScreenRound
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
