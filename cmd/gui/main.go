package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/beetles/internal/audio"
	"github.com/tomz197/beetles/internal/config"
	"github.com/tomz197/beetles/internal/gui"
	"github.com/tomz197/beetles/internal/loop"
	"github.com/tomz197/beetles/internal/loop/server"
	"github.com/tomz197/beetles/internal/store"
)

func main() {
	logger := config.NewLogger(os.Stderr, "gui")
	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal("load .env", "err", err)
	}

	name := flag.String("name", config.GetEnv("USER", "player"), "player name")
	dbPath := flag.String("db", config.GetEnv("BEETLES_DB", "beetles.db"), "sqlite database file")
	settings := flag.String("settings", config.GetEnv("BEETLES_SETTINGS", "beetles.toml"), "difficulty settings file")
	flag.Parse()

	tiers, err := config.LoadSettings(*settings)
	if err != nil {
		logger.Fatal("load settings", "err", err)
	}
	st, err := store.Open(*dbPath)
	if err != nil {
		logger.Fatal("open store", "err", err)
	}
	defer st.Close()

	var cue loop.Cue = audio.Nop{}
	player := audio.NewPlayer()
	if err := player.Init(); err != nil {
		logger.Warn("audio unavailable, playing silently", "err", err)
	} else {
		defer player.Close()
		cue = player
	}

	gameServer := server.NewServer(server.Options{
		Store:  st,
		Tiers:  tiers,
		Logger: logger,
		NewCue: func() loop.Cue { return cue },
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go gameServer.Run(ctx)

	handle, err := gameServer.RegisterClient(*name)
	if err != nil {
		logger.Fatal("register player", "err", err)
	}
	defer gameServer.UnregisterClient(handle.ID)

	width := config.GetEnvInt("BEETLES_WINDOW_WIDTH", gui.WindowWidth)
	height := config.GetEnvInt("BEETLES_WINDOW_HEIGHT", gui.WindowHeight)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("Beetles")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gui.NewGame(gameServer, handle, logger)); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game error", "err", err)
	}
}
