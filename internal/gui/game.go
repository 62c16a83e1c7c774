// Package gui is the windowed frontend, built on ebiten. It drives one
// client round of the host with mouse clicks, touches and arrow keys.
package gui

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/beetles/internal/difficulty"
	"github.com/tomz197/beetles/internal/draw"
	"github.com/tomz197/beetles/internal/loop"
	"github.com/tomz197/beetles/internal/loop/config"
	"github.com/tomz197/beetles/internal/loop/server"
	"github.com/tomz197/beetles/internal/object"
	"github.com/tomz197/beetles/internal/tilt"
)

// Default window size, portrait like a phone.
const (
	WindowWidth  = 540
	WindowHeight = 960
)

var (
	colorGrass  = color.RGBA{0x4b, 0x6b, 0x25, 0xff}
	colorInset  = color.RGBA{0x1d, 0x2b, 0x12, 0xff}
	colorBeetle = color.RGBA{0x2a, 0x1a, 0x0a, 0xff}
	colorHead   = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorStripe = color.RGBA{0xc8, 0xa0, 0x40, 0xff}
	colorBonusA = color.RGBA{0xff, 0xd2, 0x3f, 0xff}
	colorBonusB = color.RGBA{0xff, 0x9f, 0x1c, 0xff}
	colorTilt   = color.RGBA{0xff, 0xd2, 0x3f, 0x40}
)

// Game implements ebiten.Game over a registered host client.
type Game struct {
	server server.GameServer
	handle *server.ClientHandle
	logger *log.Logger

	tier     difficulty.Tier
	width    int
	height   int
	lastTilt tilt.Sample
	flash    string
	flashFor int // frames

	fillImg *ebiten.Image
	vs      []ebiten.Vertex
	is      []uint16
	points  []draw.Point
	frame   int
}

// NewGame creates the window game for a client handle.
func NewGame(gs server.GameServer, handle *server.ClientHandle, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.Default()
	}
	fillImg := ebiten.NewImage(1, 1)
	fillImg.Fill(color.White)
	return &Game{
		server:  gs,
		handle:  handle,
		logger:  logger,
		tier:    difficulty.TierMedium,
		width:   WindowWidth,
		height:  WindowHeight,
		fillImg: fillImg,
		points:  make([]draw.Point, 16),
	}
}

// Update handles input once per tick.
func (g *Game) Update() error {
	g.frame++
	if g.flashFor > 0 {
		g.flashFor--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	round := g.handle.Round
	snap := round.Snapshot()

	switch snap.State.Phase {
	case loop.PhaseIdle:
		for i, key := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3} {
			if inpututil.IsKeyJustPressed(key) {
				g.tier = difficulty.Tiers[i]
			}
		}
		if g.startPressed() {
			g.start()
		}
	case loop.PhaseGameOver:
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			round.ResetRound()
		} else if g.startPressed() {
			g.start()
		}
	default:
		for _, p := range g.justTapped() {
			g.showTap(round.OnTap(p.X, p.Y))
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyB) && round.OnBonusPickupTap() {
			g.showTap(loop.TapBonus)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			round.EndRound()
		}
		g.pushTilt()
	}
	return nil
}

func (g *Game) startPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
		len(g.justTapped()) > 0
}

// justTapped returns clicks and new touches this tick, in layout coordinates.
func (g *Game) justTapped() []draw.Point {
	var taps []draw.Point
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		taps = append(taps, draw.Point{X: float64(x), Y: float64(y)})
	}
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		taps = append(taps, draw.Point{X: float64(x), Y: float64(y)})
	}
	return taps
}

// pushTilt maps held arrow keys to a tilt sample, sending only changes.
func (g *Game) pushTilt() {
	var s tilt.Sample
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		s.X -= config.KeyTiltStrength
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		s.X += config.KeyTiltStrength
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		s.Y += config.KeyTiltStrength
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		s.Y -= config.KeyTiltStrength
	}
	if s != g.lastTilt {
		g.lastTilt = s
		g.handle.Tilt.Push(s)
	}
}

func (g *Game) showTap(result loop.TapResult) {
	switch result {
	case loop.TapHit:
		g.flash = fmt.Sprintf("%+d", config.ScoreHit)
	case loop.TapMiss:
		g.flash = fmt.Sprintf("%+d", config.ScoreMiss)
	case loop.TapBonus:
		g.flash = fmt.Sprintf("%+d bonus", config.ScoreBonus)
	default:
		return
	}
	g.flashFor = 20
}

func (g *Game) start() {
	round := g.handle.Round
	round.ResetRound()
	round.SetPlayer(g.handle.PlayerID)
	g.lastTilt = tilt.Sample{}
	g.handle.Tilt.Push(g.lastTilt)
	profile := difficulty.Resolve(g.server.Tiers().Settings(g.tier))
	if err := round.InitRound(float64(g.width), float64(g.height), profile); err != nil {
		g.logger.Error("start round", "tier", g.tier, "err", err)
	}
}

// Layout follows the window size and keeps the round's layout in step.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		if err := g.handle.Round.UpdateBounds(float64(outsideWidth), float64(outsideHeight)); err != nil {
			g.logger.Debug("window too small for the round", "width", outsideWidth, "height", outsideHeight)
		} else {
			g.width, g.height = outsideWidth, outsideHeight
		}
	}
	return g.width, g.height
}

// Draw renders the latest snapshot.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorGrass)
	snap := g.handle.Round.Snapshot()
	st := snap.State

	switch st.Phase {
	case loop.PhaseIdle:
		g.drawMenu(screen)
		return
	case loop.PhaseGameOver:
		g.drawGameOver(screen, st)
		return
	}

	w := float32(g.width)
	b := snap.Bounds
	vector.DrawFilledRect(screen, 0, 0, w, float32(b.TopInset), colorInset, false)
	vector.DrawFilledRect(screen, 0, float32(b.Height-b.BottomInset), w, float32(b.BottomInset), colorInset, false)
	if st.BonusActive {
		vector.DrawFilledRect(screen, 0, float32(b.TopInset), w, float32(b.Height-b.TopInset-b.BottomInset), colorTilt, false)
	}

	for i := range snap.Beetles {
		g.drawBeetle(screen, &snap.Beetles[i])
	}

	if st.ShowBonus {
		c := colorBonusA
		if g.frame/15%2 == 1 {
			c = colorBonusB
		}
		vector.DrawFilledRect(screen, float32(st.BonusX), float32(st.BonusY), object.BonusSize, object.BonusSize, c, true)
		ebitenutil.DebugPrintAt(screen, "?", int(st.BonusX+object.BonusSize/2)-3, int(st.BonusY+object.BonusSize/2)-8)
	}

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score: %d", st.Score), 12, 12)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Time: %ds", st.TimeLeft), g.width-90, 12)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Beetles: %d/%d", len(snap.Beetles), st.MaxBeetles), 12, 32)
	if st.BonusActive {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TILT MODE %ds  (arrow keys)", st.BonusTimeLeft), g.width/2-90, 32)
	}
	if st.Phase == loop.PhaseCountdown {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Get ready... %d", st.Countdown), g.width/2-50, g.height/2)
	}
	if g.flashFor > 0 {
		ebitenutil.DebugPrintAt(screen, g.flash, 12, g.height-40)
	}
}

// drawBeetle draws an oval body, a wing seam and a head, oriented along the
// direction of travel.
func (g *Game) drawBeetle(screen *ebiten.Image, b *object.Beetle) {
	half := object.BeetleSize / 2
	cx, cy := b.X+half, b.Y+half

	body := draw.Ellipse(g.points, cx, cy+half*0.15, half*0.6, half*0.75, 0)
	for i := range body {
		body[i] = draw.Rotate(body[i], cx, cy, b.Rotation)
	}
	g.fillPolygon(screen, body, colorBeetle)

	tail := draw.Rotate(draw.Point{X: cx, Y: cy + half*0.85}, cx, cy, b.Rotation)
	neck := draw.Rotate(draw.Point{X: cx, Y: cy - half*0.5}, cx, cy, b.Rotation)
	vector.StrokeLine(screen, float32(neck.X), float32(neck.Y), float32(tail.X), float32(tail.Y), 2, colorStripe, true)

	head := draw.Rotate(draw.Point{X: cx, Y: cy - half*0.75}, cx, cy, b.Rotation)
	g.fillPolygon(screen, draw.Ellipse(g.points[:10], head.X, head.Y, half*0.3, half*0.25, b.Rotation), colorHead)
}

func (g *Game) fillPolygon(screen *ebiten.Image, points []draw.Point, c color.RGBA) {
	var path vector.Path
	for i, p := range points {
		if i == 0 {
			path.MoveTo(float32(p.X), float32(p.Y))
		} else {
			path.LineTo(float32(p.X), float32(p.Y))
		}
	}
	path.Close()

	g.vs, g.is = path.AppendVerticesAndIndicesForFilling(g.vs[:0], g.is[:0])
	for i := range g.vs {
		g.vs[i].ColorR = float32(c.R) / 255
		g.vs[i].ColorG = float32(c.G) / 255
		g.vs[i].ColorB = float32(c.B) / 255
		g.vs[i].ColorA = float32(c.A) / 255
	}
	screen.DrawTriangles(g.vs, g.is, g.fillImg, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func (g *Game) drawMenu(screen *ebiten.Image) {
	x := g.width/2 - 120
	y := g.height / 3
	ebitenutil.DebugPrintAt(screen, "B E E T L E S", x+70, y)
	ebitenutil.DebugPrintAt(screen, "Tap the beetles before the clock runs out", x-10, y+24)

	tiers := g.server.Tiers()
	for i, tier := range difficulty.Tiers {
		s := tiers.Settings(tier)
		marker := "  "
		if tier == g.tier {
			marker = "> "
		}
		line := fmt.Sprintf("%s%d %-6s speed %d, %d beetles, %ds", marker, tier, tier, int(s.GameSpeed), s.MaxBeetles, s.RoundDuration)
		ebitenutil.DebugPrintAt(screen, line, x, y+64+i*20)
	}

	board := g.server.Leaderboard()
	for i, e := range board[:min(len(board), 5)] {
		line := fmt.Sprintf("%d. %-16s %5d %s", i+1, e.Username, e.Score, e.ZodiacSign)
		ebitenutil.DebugPrintAt(screen, line, x, y+150+i*20)
	}

	if g.frame/30%2 == 0 {
		ebitenutil.DebugPrintAt(screen, "Click or press SPACE to start", x+20, y+270)
	}
}

func (g *Game) drawGameOver(screen *ebiten.Image, st loop.GameState) {
	x := g.width/2 - 100
	y := g.height / 3
	ebitenutil.DebugPrintAt(screen, "G A M E   O V E R", x+30, y)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score: %d", st.Score), x+60, y+40)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s, %d seconds", g.tier, st.RoundDuration), x+40, y+60)
	ebitenutil.DebugPrintAt(screen, "Click or SPACE to play again", x, y+100)
	ebitenutil.DebugPrintAt(screen, "R for the menu, Q to quit", x+10, y+120)
}
