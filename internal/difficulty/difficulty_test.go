package difficulty

import (
	"testing"
	"time"
)

func TestResolveThresholds(t *testing.T) {
	tests := []struct {
		speed     float64
		spawn     time.Duration
		interval  float64
		damping   float64
		wantLevel int
	}{
		{speed: 1, spawn: 2500 * time.Millisecond, interval: 1.2, damping: 0.5, wantLevel: 1},
		{speed: 3, spawn: 2500 * time.Millisecond, interval: 1.2, damping: 0.5, wantLevel: 3},
		{speed: 3.01, spawn: 1500 * time.Millisecond, interval: 2.0, damping: 0.3, wantLevel: 3},
		{speed: 7, spawn: 1500 * time.Millisecond, interval: 2.0, damping: 0.3, wantLevel: 7},
		{speed: 7.5, spawn: 800 * time.Millisecond, interval: 3.5, damping: 0.15, wantLevel: 7},
		{speed: 10, spawn: 800 * time.Millisecond, interval: 3.5, damping: 0.15, wantLevel: 10},
	}

	for _, tt := range tests {
		p := Resolve(Settings{GameSpeed: tt.speed, MaxBeetles: 5, RoundDuration: 30, BonusInterval: 15})
		if p.SpawnDelay != tt.spawn {
			t.Errorf("speed %v: spawn delay = %v, want %v", tt.speed, p.SpawnDelay, tt.spawn)
		}
		if p.DirectionChangeInterval != tt.interval {
			t.Errorf("speed %v: interval = %v, want %v", tt.speed, p.DirectionChangeInterval, tt.interval)
		}
		if p.WallBounceDamping != tt.damping {
			t.Errorf("speed %v: damping = %v, want %v", tt.speed, p.WallBounceDamping, tt.damping)
		}
		if p.Difficulty != tt.wantLevel {
			t.Errorf("speed %v: difficulty = %d, want %d", tt.speed, p.Difficulty, tt.wantLevel)
		}
	}
}

func TestResolveCopiesSettings(t *testing.T) {
	p := Resolve(Settings{GameSpeed: 5, MaxBeetles: 20, RoundDuration: 60, BonusInterval: 25})
	if p.PopulationCap != 20 {
		t.Fatalf("cap = %d, want 20", p.PopulationCap)
	}
	if p.RoundDuration != 60*time.Second || p.RoundSeconds() != 60 {
		t.Fatalf("round duration = %v, want 60s", p.RoundDuration)
	}
	if p.BonusInterval != 25*time.Second {
		t.Fatalf("bonus interval = %v, want 25s", p.BonusInterval)
	}
}

func TestNormalize(t *testing.T) {
	got := Settings{GameSpeed: -1, MaxBeetles: 0, RoundDuration: -5}.Normalize()
	want := Settings{GameSpeed: 1, MaxBeetles: 1, RoundDuration: 1, BonusInterval: 1}
	if got != want {
		t.Fatalf("Normalize() = %+v, want %+v", got, want)
	}
}

func TestForTier(t *testing.T) {
	tests := []struct {
		tier  Tier
		cap   int
		round time.Duration
	}{
		{TierEasy, 10, 120 * time.Second},
		{TierMedium, 20, 90 * time.Second},
		{TierHard, 35, 60 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			p := ForTier(tt.tier)
			if p.PopulationCap != tt.cap {
				t.Errorf("cap = %d, want %d", p.PopulationCap, tt.cap)
			}
			if p.RoundDuration != tt.round {
				t.Errorf("round = %v, want %v", p.RoundDuration, tt.round)
			}
			if p.BonusInterval != 15*time.Second {
				t.Errorf("bonus interval = %v, want 15s", p.BonusInterval)
			}
		})
	}
}

func TestTableFallsBackToDefaults(t *testing.T) {
	table := Table{TierEasy: {GameSpeed: 1, MaxBeetles: 3, RoundDuration: 10, BonusInterval: 5}}
	if got := table.Settings(TierEasy).MaxBeetles; got != 3 {
		t.Fatalf("easy cap = %d, want 3", got)
	}
	if got := table.Settings(TierHard).MaxBeetles; got != 35 {
		t.Fatalf("hard cap = %d, want built-in 35", got)
	}
}

func TestParseTier(t *testing.T) {
	for in, want := range map[string]Tier{"easy": TierEasy, "2": TierMedium, " HARD ": TierHard} {
		got, err := ParseTier(in)
		if err != nil || got != want {
			t.Errorf("ParseTier(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseTier("nightmare"); err == nil {
		t.Fatal("ParseTier(nightmare) succeeded, want error")
	}
}
