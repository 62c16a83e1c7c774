package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/user"

	"golang.org/x/term"

	"github.com/tomz197/beetles/internal/audio"
	"github.com/tomz197/beetles/internal/config"
	"github.com/tomz197/beetles/internal/difficulty"
	"github.com/tomz197/beetles/internal/loop"
	"github.com/tomz197/beetles/internal/loop/client"
	"github.com/tomz197/beetles/internal/loop/server"
	"github.com/tomz197/beetles/internal/store"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	name := flag.String("name", defaultName(), "player name")
	tierName := flag.String("tier", config.GetEnv("BEETLES_TIER", "medium"), "difficulty: easy, medium or hard")
	dbPath := flag.String("db", config.GetEnv("BEETLES_DB", "beetles.db"), "sqlite database file")
	settings := flag.String("settings", config.GetEnv("BEETLES_SETTINGS", "beetles.toml"), "difficulty settings file")
	mute := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	if err := run(*name, *tierName, *dbPath, *settings, *mute); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run(name, tierName, dbPath, settings string, mute bool) error {
	logger, closeLog, err := config.NewFileLogger("game")
	if err != nil {
		return err
	}
	defer closeLog()

	tier, err := difficulty.ParseTier(tierName)
	if err != nil {
		return err
	}
	tiers, err := config.LoadSettings(settings)
	if err != nil {
		return err
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	var cue loop.Cue = audio.Nop{}
	if !mute {
		player := audio.NewPlayer()
		if err := player.Init(); err != nil {
			logger.Warn("audio unavailable, playing silently", "err", err)
		} else {
			defer player.Close()
			cue = player
		}
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

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	c, err := client.NewClient(gameServer, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Username: name,
		Tier:     tier,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	return c.Run()
}

func defaultName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return config.GetEnv("USER", "player")
}
