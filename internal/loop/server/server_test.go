package server

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/beetles/internal/difficulty"
	"github.com/tomz197/beetles/internal/loop"
	"github.com/tomz197/beetles/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "beetles.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewServer(Options{Store: st, Logger: log.New(io.Discard)}), st
}

func TestRegisterClientCreatesPlayer(t *testing.T) {
	s, st := newTestServer(t)

	h, err := s.RegisterClient("a-very-long-username-indeed")
	if err != nil {
		t.Fatalf("RegisterClient: %v", err)
	}
	if h.Username != "a-very-long-user" {
		t.Fatalf("username = %q, want truncated to 16", h.Username)
	}
	p, err := st.PlayerByID(context.Background(), h.PlayerID)
	if err != nil || p.FullName != h.Username {
		t.Fatalf("player %d = %+v, %v", h.PlayerID, p, err)
	}
	if s.Players() != 1 {
		t.Fatalf("Players() = %d, want 1", s.Players())
	}

	again, err := s.RegisterClient("a-very-long-username-indeed")
	if err != nil {
		t.Fatalf("second RegisterClient: %v", err)
	}
	if again.PlayerID != h.PlayerID || again.ID == h.ID {
		t.Fatalf("second client: id %d player %d; first: id %d player %d", again.ID, again.PlayerID, h.ID, h.PlayerID)
	}
}

func TestRoundResultReachesLeaderboard(t *testing.T) {
	s, _ := newTestServer(t)
	h, err := s.RegisterClient("ann")
	if err != nil {
		t.Fatalf("RegisterClient: %v", err)
	}

	p := difficulty.Resolve(difficulty.Settings{GameSpeed: 2, MaxBeetles: 3, RoundDuration: 5, BonusInterval: 60})
	h.Round.SetPlayer(h.PlayerID)
	if err := h.Round.InitRound(1200, 800, p); err != nil {
		t.Fatalf("InitRound: %v", err)
	}
	h.Round.Advance(3 * time.Second)
	snap := h.Round.Snapshot()
	b := snap.Beetles[0]
	if got := h.Round.OnTap(b.X, b.Y); got != loop.TapHit {
		t.Fatalf("tap = %v, want hit", got)
	}
	h.Round.Advance(5 * time.Second)
	h.Round.Close()

	if err := s.RefreshLeaderboard(context.Background()); err != nil {
		t.Fatalf("RefreshLeaderboard: %v", err)
	}
	board := s.Leaderboard()
	if len(board) != 1 || board[0].Username != "ann" || board[0].Score != 10 || board[0].Games != 1 {
		t.Fatalf("leaderboard = %+v", board)
	}
}

func TestUnregisterClosesEvents(t *testing.T) {
	s, _ := newTestServer(t)
	h, _ := s.RegisterClient("bob")
	h.Round.InitRound(1200, 800, difficulty.ForTier(difficulty.TierEasy))

	s.UnregisterClient(h.ID)
	if _, ok := <-h.EventsCh; ok {
		t.Fatal("EventsCh still open after unregister")
	}
	if s.Players() != 0 {
		t.Fatalf("Players() = %d, want 0", s.Players())
	}
	if phase := h.Round.Snapshot().State.Phase; phase != loop.PhaseIdle {
		t.Fatalf("abandoned round phase = %v, want idle", phase)
	}
	s.UnregisterClient(h.ID)
}

func TestShutdownNotifiesClients(t *testing.T) {
	s, _ := newTestServer(t)
	h, _ := s.RegisterClient("carol")

	go func() {
		ev := <-h.EventsCh
		if ev.Type == EventServerShutdown {
			s.UnregisterClient(h.ID)
		}
	}()

	start := time.Now()
	s.Shutdown(5 * time.Second)
	if time.Since(start) > 2*time.Second {
		t.Fatal("Shutdown waited for the timeout although the client left")
	}
}

func TestServerRunAdvancesRounds(t *testing.T) {
	s, _ := newTestServer(t)
	h, _ := s.RegisterClient("dave")
	h.Round.InitRound(1200, 800, difficulty.ForTier(difficulty.TierMedium))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	if h.Round.Snapshot().Tick == 0 {
		t.Fatal("server loop did not advance the client's round")
	}
}

func TestLeaderboardTieBreak(t *testing.T) {
	entries := []TopScoreEntry{
		{Username: "late", Score: 50, playerID: 9},
		{Username: "top", Score: 80, playerID: 5},
		{Username: "early", Score: 50, playerID: 2},
	}
	sortLeaderboard(entries)
	if entries[0].Username != "top" || entries[1].Username != "early" || entries[2].Username != "late" {
		t.Fatalf("order = %+v", entries)
	}
}

func TestServerWithoutStore(t *testing.T) {
	s := NewServer(Options{Logger: log.New(io.Discard)})
	h, err := s.RegisterClient("")
	if err != nil {
		t.Fatalf("RegisterClient: %v", err)
	}
	if h.Username != "player" || h.PlayerID != 0 {
		t.Fatalf("handle = %+v", h)
	}
	if err := s.RefreshLeaderboard(context.Background()); err != nil {
		t.Fatalf("RefreshLeaderboard: %v", err)
	}
	if s.Leaderboard() == nil {
		t.Fatal("Leaderboard() = nil")
	}
}
