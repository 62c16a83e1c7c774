package client

import (
	"fmt"
	"time"

	"github.com/tomz197/beetles/internal/difficulty"
	"github.com/tomz197/beetles/internal/draw"
	"github.com/tomz197/beetles/internal/loop"
	"github.com/tomz197/beetles/internal/loop/config"
	"github.com/tomz197/beetles/internal/object"
)

// beetlePoints is the polygon resolution of a beetle body.
const beetlePoints = 14

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	snap := c.state.snapshot

	// On screen, phase or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	if c.state.Screen != c.state.prevScreen || snap.State.Phase != c.state.prevPhase ||
		c.state.isInactive != c.state.wasInactive {
		c.chunkWriter.Clear()
		c.canvas.ForceRedraw()
		c.state.prevScreen = c.state.Screen
		c.state.prevPhase = snap.State.Phase
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()
	if c.state.Screen == ScreenRound && !c.state.isInactive {
		c.drawField(snap)
	}
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI(snap)

	return c.chunkWriter.Flush()
}

// drawField draws the play area: inset lines, beetles and the pickup.
func (c *Client) drawField(snap *loop.Snapshot) {
	b := snap.Bounds
	if b.Width <= 0 {
		return
	}
	top := b.MinY()
	bottom := b.Height - b.BottomInset
	c.canvas.DrawLine(draw.Point{X: 0, Y: top}, draw.Point{X: b.Width, Y: top})
	c.canvas.DrawLine(draw.Point{X: 0, Y: bottom}, draw.Point{X: b.Width, Y: bottom})

	for i := range snap.Beetles {
		c.drawBeetle(&snap.Beetles[i])
	}

	if snap.State.ShowBonus {
		c.canvas.DrawRect(snap.State.BonusX, snap.State.BonusY, object.BonusSize, object.BonusSize)
		d := draw.Diamond(snap.State.BonusX, snap.State.BonusY, object.BonusSize)
		c.canvas.DrawPolygon(d[:], time.Now().UnixMilli()/250%2 == 0)
	}
}

// drawBeetle draws a beetle as an oval body with a small head, oriented
// along its direction of travel.
func (c *Client) drawBeetle(b *object.Beetle) {
	half := object.BeetleSize / 2
	cx, cy := b.X+half, b.Y+half

	body := draw.Ellipse(c.canvas.BorrowPoints(beetlePoints), cx, cy+half*0.15, half*0.6, half*0.75, 0)
	for i := range body {
		body[i] = draw.Rotate(body[i], cx, cy, b.Rotation)
	}
	c.canvas.DrawPolygon(body, true)

	head := draw.Rotate(draw.Point{X: cx, Y: cy - half*0.75}, cx, cy, b.Rotation)
	c.canvas.DrawPolygon(draw.Ellipse(c.canvas.BorrowPoints(8), head.X, head.Y, half*0.3, half*0.25, b.Rotation), true)
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI(snap *loop.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.Screen == ScreenShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.Screen {
	case ScreenStart:
		c.drawStartScreen(centerX, centerY)
	case ScreenRound:
		switch snap.State.Phase {
		case loop.PhaseCountdown:
			c.drawPlayingHUD(termWidth, termHeight, snap)
			c.drawCountdown(centerX, centerY, snap.State.Countdown)
		case loop.PhasePlaying:
			c.drawPlayingHUD(termWidth, termHeight, snap)
		case loop.PhaseGameOver:
			c.drawGameOverScreen(centerX, centerY, snap)
		}
	}
}

// writeCentered writes s centred on centerX and marks it dirty for the canvas.
func (c *Client) writeCentered(centerX, row int, s string) {
	col := max(centerX-len([]rune(s))/2, 1)
	c.chunkWriter.WriteAt(col, row, s)
	c.canvas.MarkTextDirty(col, row, len([]rune(s)))
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-2, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.writeCentered(centerX, centerY, msg)
	c.writeCentered(centerX, centerY+2, "Press any key to continue")
}

// drawStartScreen draws the title screen with the tier picker and leaderboard.
func (c *Client) drawStartScreen(centerX, centerY int) {
	// ASCII art title (figlet "small" font)
	titleArt := []string{
		` ___ ___ ___ _____ _    ___ ___ `,
		`| _ ) __| __|_   _| |  | __/ __|`,
		`| _ \ _|| _|  | | | |__| _|\__ \`,
		`|___/___|___| |_| |____|___|___/`,
	}

	row := max(centerY-12, 1)
	for i, line := range titleArt {
		c.writeCentered(centerX, row+i, line)
	}
	row += len(titleArt) + 1
	c.writeCentered(centerX, row, "~ Tap the beetles before the clock runs out ~")
	row += 2

	c.writeCentered(centerX, row, "Difficulty")
	tiers := c.server.Tiers()
	for i, tier := range difficulty.Tiers {
		s := tiers.Settings(tier)
		marker := "  "
		if tier == c.state.Tier {
			marker = "> "
		}
		line := fmt.Sprintf("%s%d  %-6s  speed %d  beetles %2d  %3ds", marker, tier, tier, int(s.GameSpeed), s.MaxBeetles, s.RoundDuration)
		c.writeCentered(centerX, row+1+i, line)
	}
	row += len(difficulty.Tiers) + 2

	board := c.server.Leaderboard()
	if len(board) > 0 {
		c.writeCentered(centerX, row, "Best beetle hunters")
		for i, entry := range board[:min(len(board), 5)] {
			line := fmt.Sprintf("%d. %-16s %6d  %3d games  %-11s", i+1, entry.Username, entry.Score, entry.Games, entry.ZodiacSign)
			c.writeCentered(centerX, row+1+i, line)
		}
		row += min(len(board), 5) + 2
	}

	controlLines := []string{
		"Click  . . . . . Tap a beetle",
		"Arrows . . . . . Tilt in bonus",
		"B  . . . . Grab the bonus box",
		"ESC  . . . . . End the round",
		"Q  . . . . . . . . . . . Quit",
	}
	for i, line := range controlLines {
		c.writeCentered(centerX, row+i, line)
	}
	row += len(controlLines) + 1

	// Blinking start prompt
	if time.Now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerX, row, ">>  Press SPACE to Start  <<")
	} else {
		c.writeCentered(centerX, row, "                            ")
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth, termHeight int, snap *loop.Snapshot) {
	cw := c.chunkWriter
	st := snap.State

	scoreText := fmt.Sprintf("Score: %-6d", st.Score)
	cw.WriteAt(2, 1, scoreText)

	timeText := fmt.Sprintf("Time: %3ds", st.TimeLeft)
	cw.WriteAt(termWidth-len(timeText)-1, 1, timeText)

	bonusText := "                  "
	if st.BonusActive {
		bonusText = fmt.Sprintf("TILT MODE %2ds     ", st.BonusTimeLeft)
		cw.WriteAt(termWidth/2-len(bonusText)/2, 1, draw.ColorBrightYellow+bonusText+draw.ColorReset)
	} else {
		cw.WriteAt(termWidth/2-len(bonusText)/2, 1, bonusText)
	}

	flash := "     "
	if c.state.tapFlash > 0 {
		color := draw.ColorGreen
		if c.state.lastTap == loop.TapMiss {
			color = draw.ColorRed
		}
		flash = color + fmt.Sprintf("%+-5d", c.state.tapPoints) + draw.ColorReset
	}
	cw.WriteAt(2, termHeight, flash)

	beetlesText := fmt.Sprintf("Beetles: %2d/%-2d", len(snap.Beetles), st.MaxBeetles)
	cw.WriteAt(termWidth-len(beetlesText)-1, termHeight, beetlesText)
}

// drawCountdown draws the pre-round countdown in the middle of the field.
func (c *Client) drawCountdown(centerX, centerY, n int) {
	c.writeCentered(centerX, centerY-1, "Get ready")
	c.writeCentered(centerX, centerY+1, fmt.Sprintf(">>  %d  <<", n))
}

// drawGameOverScreen draws the round result.
func (c *Client) drawGameOverScreen(centerX, centerY int, snap *loop.Snapshot) {
	titleArt := []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
	}

	row := centerY - 6
	for i, line := range titleArt {
		c.writeCentered(centerX, row+i, line)
	}
	row += len(titleArt) + 1

	c.writeCentered(centerX, row, fmt.Sprintf("Score: %d", snap.State.Score))
	c.writeCentered(centerX, row+1, fmt.Sprintf("%s, %d seconds", c.state.Tier, snap.State.RoundDuration))

	if time.Now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerX, row+3, ">>  Press SPACE to play again  <<")
	} else {
		c.writeCentered(centerX, row+3, "                                 ")
	}
	c.writeCentered(centerX, row+4, "R for the menu, Q to quit")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	c.writeCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	c.writeCentered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	c.writeCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %2d seconds...", remaining))
	c.writeCentered(centerX, centerY+4, "Press Q to disconnect now")
}
