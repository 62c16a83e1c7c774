package server

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/beetles/internal/difficulty"
	"github.com/tomz197/beetles/internal/loop"
	"github.com/tomz197/beetles/internal/loop/config"
	"github.com/tomz197/beetles/internal/store"
	"github.com/tomz197/beetles/internal/tilt"
)

// GameServer is the interface clients use to communicate with the game server.
// Decouples the Client from the concrete Server implementation, enabling
// testing and other frontends.
type GameServer interface {
	RegisterClient(username string) (*ClientHandle, error)
	UnregisterClient(clientID int)
	Leaderboard() []TopScoreEntry
	Tiers() difficulty.Table
	Players() int
}

// PlayerStore is the persistence the server needs: player lookup for
// usernames, the leaderboard, and recording finished rounds.
type PlayerStore interface {
	loop.Recorder
	EnsurePlayer(ctx context.Context, name string, difficulty int) (store.Player, error)
	TopPlayers(ctx context.Context, limit int) ([]store.Player, error)
}

// Options configures a Server. Store may be nil, in which case nothing is
// recorded and the leaderboard stays empty.
type Options struct {
	Store  PlayerStore
	Tiers  difficulty.Table
	Logger *log.Logger
	// NewCue returns the sound cue for a new client's round. Nil means silent.
	NewCue func() loop.Cue
}

// Server hosts one round per connected client and ticks them all from a
// single loop.
type Server struct {
	store  PlayerStore
	tiers  difficulty.Table
	logger *log.Logger
	newCue func() loop.Cue

	clients      map[int]*ClientHandle
	nextClientID int
	mu           sync.RWMutex

	leaderboard atomic.Pointer[[]TopScoreEntry]
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string // Display name for this client
	PlayerID int64  // 0 when the server has no store
	Round    *loop.Round
	Tilt     *tilt.Manual     // feeds the round's bonus-mode tilt
	EventsCh chan ClientEvent // Events sent to client
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
)

// NewServer creates a new game server.
func NewServer(opts Options) *Server {
	s := &Server{
		store:        opts.Store,
		tiers:        opts.Tiers,
		logger:       opts.Logger,
		newCue:       opts.NewCue,
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
	}
	if s.tiers == nil {
		s.tiers = difficulty.DefaultTable()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.leaderboard.Store(&[]TopScoreEntry{})
	return s
}

// Run ticks every client's round and periodically refreshes the
// leaderboard. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	lastTime := time.Now()
	var nextRefresh time.Time

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()
		delta := min(frameStart.Sub(lastTime), config.MaxFrameDelta)
		lastTime = frameStart

		for _, round := range s.rounds() {
			round.Advance(delta)
		}

		if !frameStart.Before(nextRefresh) {
			if err := s.RefreshLeaderboard(ctx); err != nil {
				s.logger.Warn("refresh leaderboard", "err", err)
			}
			nextRefresh = frameStart.Add(config.LeaderboardRefresh)
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.PhysicsTick {
			time.Sleep(config.PhysicsTick - elapsed)
		}
	}
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	// Notify all connected clients about the shutdown
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			if s.Players() == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns
// its handle. The username is looked up (or created) in the player store.
func (s *Server) RegisterClient(username string) (*ClientHandle, error) {
	username = TruncateUsername(username)

	var playerID int64
	if s.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), config.PersistTimeout)
		defer cancel()
		p, err := s.store.EnsurePlayer(ctx, username, 0)
		if err != nil {
			return nil, fmt.Errorf("register %q: %w", username, err)
		}
		playerID = p.ID
	}

	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	manual := tilt.NewManual()
	opts := loop.Options{
		Tilt:   manual,
		Logger: s.logger.With("client", id, "user", username),
	}
	if s.store != nil {
		opts.Recorder = s.store
	}
	if s.newCue != nil {
		opts.Cue = s.newCue()
	}

	handle := &ClientHandle{
		ID:       id,
		Username: username,
		PlayerID: playerID,
		Round:    loop.NewRound(opts),
		Tilt:     manual,
		EventsCh: make(chan ClientEvent, 16),
	}

	s.mu.Lock()
	s.clients[id] = handle
	s.mu.Unlock()

	s.logger.Info("client registered", "client", id, "user", username, "player", playerID)
	return handle, nil
}

// UnregisterClient removes a client from the server. A round still in
// progress is abandoned without being recorded.
func (s *Server) UnregisterClient(clientID int) {
	s.mu.Lock()
	handle, ok := s.clients[clientID]
	if ok {
		delete(s.clients, clientID)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	if snap := handle.Round.Snapshot(); snap.State.Phase != loop.PhaseGameOver {
		handle.Round.ResetRound()
	}
	handle.Round.Close()
	close(handle.EventsCh)
	s.logger.Info("client left", "client", clientID, "user", handle.Username)
}

// Players returns the number of connected clients.
func (s *Server) Players() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Tiers returns the difficulty table clients pick from.
func (s *Server) Tiers() difficulty.Table {
	return s.tiers
}

// Leaderboard returns the latest leaderboard. Never nil.
func (s *Server) Leaderboard() []TopScoreEntry {
	return *s.leaderboard.Load()
}

// RefreshLeaderboard reloads the leaderboard from the store.
func (s *Server) RefreshLeaderboard(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, config.PersistTimeout)
	defer cancel()

	players, err := s.store.TopPlayers(ctx, config.LeaderboardSize)
	if err != nil {
		return err
	}
	entries := make([]TopScoreEntry, 0, len(players))
	for _, p := range players {
		entries = append(entries, TopScoreEntry{
			Username:   p.FullName,
			Score:      p.BestScore,
			Games:      p.TotalGames,
			ZodiacSign: p.ZodiacSign,
			playerID:   p.ID,
		})
	}
	sortLeaderboard(entries)
	s.leaderboard.Store(&entries)
	return nil
}

// rounds returns the rounds of all connected clients.
func (s *Server) rounds() []*loop.Round {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rounds := make([]*loop.Round, 0, len(s.clients))
	for _, handle := range s.clients {
		rounds = append(rounds, handle.Round)
	}
	return rounds
}
