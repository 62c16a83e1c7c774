package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "beetles.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRegisterPlayerDerivesZodiac(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.RegisterPlayer(ctx, Player{FullName: "Ann Lee", Gender: "f", Course: "2", Difficulty: 5, BirthDate: "2001-03-21"})
	if err != nil {
		t.Fatalf("RegisterPlayer: %v", err)
	}
	p, err := s.PlayerByID(ctx, id)
	if err != nil {
		t.Fatalf("PlayerByID: %v", err)
	}
	if p.ZodiacSign != "Aries" {
		t.Fatalf("zodiac = %q, want Aries", p.ZodiacSign)
	}
	if p.FullName != "Ann Lee" || p.Difficulty != 5 || p.BestScore != 0 || p.TotalGames != 0 {
		t.Fatalf("unexpected player %+v", p)
	}

	if _, err := s.RegisterPlayer(ctx, Player{FullName: "x", BirthDate: "not-a-date"}); err == nil {
		t.Fatal("RegisterPlayer accepted a bad birth date")
	}
}

func TestPlayerNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.PlayerByID(context.Background(), 42); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("PlayerByID(42) err = %v, want ErrPlayerNotFound", err)
	}
	if _, err := s.PlayerByName(context.Background(), "ghost"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("PlayerByName err = %v, want ErrPlayerNotFound", err)
	}
}

func TestEnsurePlayerIsStable(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, err := s.EnsurePlayer(ctx, "ssh-user", 2)
	if err != nil {
		t.Fatalf("EnsurePlayer: %v", err)
	}
	b, err := s.EnsurePlayer(ctx, "ssh-user", 9)
	if err != nil {
		t.Fatalf("EnsurePlayer again: %v", err)
	}
	if a.ID != b.ID {
		t.Fatalf("EnsurePlayer returned IDs %d and %d, want the same", a.ID, b.ID)
	}
}

func TestBestScoreAndPlayCount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id, _ := s.RegisterPlayer(ctx, Player{FullName: "p"})

	n, err := s.UpdateBestScoreIfHigher(ctx, id, 50)
	if err != nil || n != 1 {
		t.Fatalf("first best = %d, %v; want 1 row", n, err)
	}
	n, err = s.UpdateBestScoreIfHigher(ctx, id, 30)
	if err != nil || n != 0 {
		t.Fatalf("lower score updated %d rows, %v; want 0", n, err)
	}
	if err := s.IncrementPlayCount(ctx, id); err != nil {
		t.Fatalf("IncrementPlayCount: %v", err)
	}

	p, _ := s.PlayerByID(ctx, id)
	if p.BestScore != 50 || p.TotalGames != 2 {
		t.Fatalf("best=%d games=%d, want 50 and 2", p.BestScore, p.TotalGames)
	}
}

func TestRecordsQueries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	alice, _ := s.RegisterPlayer(ctx, Player{FullName: "alice"})
	bob, _ := s.RegisterPlayer(ctx, Player{FullName: "bob"})

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	inserts := []GameRecord{
		{PlayerID: alice, Score: 40, Difficulty: 5, GameSpeed: 5, MaxBeetles: 20, RoundDuration: 90, PlayedAt: base},
		{PlayerID: bob, Score: 120, Difficulty: 9, GameSpeed: 9, MaxBeetles: 35, RoundDuration: 60, PlayedAt: base.Add(time.Minute)},
		{PlayerID: alice, Score: -15, Difficulty: 2, GameSpeed: 2, MaxBeetles: 10, RoundDuration: 120, PlayedAt: base.Add(2 * time.Minute)},
	}
	for _, rec := range inserts {
		if _, err := s.InsertGameRecord(ctx, rec); err != nil {
			t.Fatalf("InsertGameRecord: %v", err)
		}
	}

	top, err := s.TopRecords(ctx, 10)
	if err != nil {
		t.Fatalf("TopRecords: %v", err)
	}
	if len(top) != 3 || top[0].Score != 120 || top[0].PlayerName != "bob" || top[2].Score != -15 {
		t.Fatalf("TopRecords = %+v", top)
	}

	recent, _ := s.RecentRecords(ctx, 1)
	if len(recent) != 1 || recent[0].Score != -15 {
		t.Fatalf("RecentRecords(1) = %+v", recent)
	}

	mine, _ := s.PlayerRecords(ctx, alice)
	if len(mine) != 2 || !mine[0].PlayedAt.Equal(base.Add(2*time.Minute)) {
		t.Fatalf("PlayerRecords = %+v", mine)
	}
	if mine[1].GameSpeed != 5 || mine[1].RoundDuration != 90 {
		t.Fatalf("record fields not round-tripped: %+v", mine[1])
	}
}

func TestDeletePlayerCascades(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id, _ := s.RegisterPlayer(ctx, Player{FullName: "gone"})
	s.InsertGameRecord(ctx, GameRecord{PlayerID: id, Score: 10})

	if err := s.DeletePlayer(ctx, id); err != nil {
		t.Fatalf("DeletePlayer: %v", err)
	}
	recs, _ := s.PlayerRecords(ctx, id)
	if len(recs) != 0 {
		t.Fatalf("%d records survived their player", len(recs))
	}
	if err := s.DeletePlayer(ctx, id); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("second DeletePlayer err = %v, want ErrPlayerNotFound", err)
	}
}

func TestTopPlayersOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for i, score := range []int{10, 90, 50} {
		id, _ := s.RegisterPlayer(ctx, Player{FullName: string(rune('a' + i))})
		s.UpdateBestScoreIfHigher(ctx, id, score)
	}
	top, err := s.TopPlayers(ctx, 2)
	if err != nil {
		t.Fatalf("TopPlayers: %v", err)
	}
	if len(top) != 2 || top[0].BestScore != 90 || top[1].BestScore != 50 {
		t.Fatalf("TopPlayers = %+v", top)
	}
}

func TestZodiacSign(t *testing.T) {
	tests := []struct {
		month time.Month
		day   int
		want  string
	}{
		{time.January, 19, "Capricorn"},
		{time.January, 20, "Aquarius"},
		{time.July, 23, "Leo"},
		{time.December, 22, "Capricorn"},
		{time.December, 21, "Sagittarius"},
	}
	for _, tt := range tests {
		if got := ZodiacSign(tt.month, tt.day); got != tt.want {
			t.Errorf("ZodiacSign(%v, %d) = %q, want %q", tt.month, tt.day, got, tt.want)
		}
	}
}

func TestUpdatePlayerRederivesZodiac(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id, _ := s.RegisterPlayer(ctx, Player{FullName: "eve", BirthDate: "2001-07-30"})

	err := s.UpdatePlayer(ctx, Player{ID: id, FullName: "eve", Course: "physics", BirthDate: "2001-02-01"})
	if err != nil {
		t.Fatalf("UpdatePlayer: %v", err)
	}
	p, _ := s.PlayerByID(ctx, id)
	if p.ZodiacSign != "Aquarius" || p.Course != "physics" {
		t.Fatalf("player = %+v", p)
	}
	if err := s.UpdatePlayer(ctx, Player{ID: 77, FullName: "nobody"}); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("UpdatePlayer(77) err = %v, want ErrPlayerNotFound", err)
	}
	all, err := s.AllPlayers(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("AllPlayers = %+v, %v", all, err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
