package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/beetles/internal/config"
	"github.com/tomz197/beetles/internal/difficulty"
	"github.com/tomz197/beetles/internal/draw"
	"github.com/tomz197/beetles/internal/loop/client"
	"github.com/tomz197/beetles/internal/loop/server"
	"github.com/tomz197/beetles/internal/store"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultDBPath      = "beetles.db"
	defaultSettings    = "beetles.toml"
)

func main() {
	logger := config.NewLogger(os.Stderr, "ssh")
	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal("load .env", "err", err)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	dbPath := config.GetEnv("BEETLES_DB", defaultDBPath)
	grace := config.GetEnvDuration("BEETLES_SHUTDOWN_GRACE", 15*time.Second)
	logger.Info("ssh config", "host", host, "port", port, "hostKey", hostKeyPath, "db", dbPath)

	tiers, err := config.LoadSettings(config.GetEnv("BEETLES_SETTINGS", defaultSettings))
	if err != nil {
		logger.Fatal("load settings", "err", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		logger.Fatal("open store", "err", err)
	}
	defer st.Close()

	// Shared game server for all SSH clients
	ctx, cancelServer := context.WithCancel(context.Background())
	gameServer := server.NewServer(server.Options{
		Store:  st,
		Tiers:  tiers,
		Logger: logger.WithPrefix("host"),
	})
	go gameServer.Run(ctx)
	logger.Info("game server started")

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			gameMiddleware(gameServer, logger),
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for taps
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	// Notify players and wait for them to disconnect
	gameServer.Shutdown(grace)
	cancelServer()
	logger.Info("game server stopped")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}

// gameMiddleware runs a terminal client for each SSH session.
func gameMiddleware(gs server.GameServer, logger *log.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			logger.Info("new game session", "user", sess.User(), "term", pty.Term,
				"width", pty.Window.Width, "height", pty.Window.Height)

			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			// "ssh -t host hard" preselects a tier
			tier := difficulty.TierMedium
			if cmd := sess.Command(); len(cmd) > 0 {
				if t, err := difficulty.ParseTier(cmd[0]); err == nil {
					tier = t
				}
			}

			c, err := client.NewClient(gs, bufio.NewReader(sess), sess, client.ClientOptions{
				TermSizeFunc: sizeTracker.getSize,
				Username:     sess.User(),
				Tier:         tier,
				Logger:       logger,
			})
			if err != nil {
				logger.Error("register client", "user", sess.User(), "err", err)
				fmt.Fprintln(sess, "Sorry, the game is unavailable right now.")
				return
			}
			if err := c.Run(); err != nil {
				logger.Error("game error", "user", sess.User(), "err", err)
			}

			logger.Info("session ended", "user", sess.User())
			next(sess)
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
