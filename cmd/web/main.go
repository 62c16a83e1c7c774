package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomz197/beetles/internal/config"
	"github.com/tomz197/beetles/internal/loop/server"
	"github.com/tomz197/beetles/internal/store"
	"github.com/tomz197/beetles/internal/web"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

func main() {
	logger := config.NewLogger(os.Stderr, "web")
	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal("load .env", "err", err)
	}

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	dbPath := config.GetEnv("BEETLES_DB", "beetles.db")
	grace := config.GetEnvDuration("BEETLES_SHUTDOWN_GRACE", 15*time.Second)

	tiers, err := config.LoadSettings(config.GetEnv("BEETLES_SETTINGS", "beetles.toml"))
	if err != nil {
		logger.Fatal("load settings", "err", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		logger.Fatal("open store", "err", err)
	}
	defer st.Close()

	ctx, cancelServer := context.WithCancel(context.Background())
	gameServer := server.NewServer(server.Options{
		Store:  st,
		Tiers:  tiers,
		Logger: logger.WithPrefix("host"),
	})
	go gameServer.Run(ctx)

	frontend := web.NewServer(web.Options{
		Host:          gameServer,
		Store:         st,
		Logger:        logger,
		AllowedOrigin: config.GetEnv("WEB_ALLOWED_ORIGIN", ""),
	})
	addr := net.JoinHostPort(host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           frontend.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting web server", "url", "http://"+addr)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	// Websocket sessions are hijacked, so Shutdown does not wait for them;
	// the game server tells them to leave first.
	gameServer.Shutdown(grace)
	cancelServer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
