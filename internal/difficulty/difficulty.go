// Package difficulty maps user-facing game settings to the tunables the
// round loop runs with.
package difficulty

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Tier is a named difficulty preset.
type Tier int

const (
	TierEasy Tier = iota + 1
	TierMedium
	TierHard
)

// Tiers lists the presets in menu order.
var Tiers = []Tier{TierEasy, TierMedium, TierHard}

func (t Tier) String() string {
	switch t {
	case TierEasy:
		return "easy"
	case TierMedium:
		return "medium"
	case TierHard:
		return "hard"
	default:
		return "tier(" + strconv.Itoa(int(t)) + ")"
	}
}

// ParseTier accepts a tier name ("easy") or its menu number ("1").
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "1":
		return TierEasy, nil
	case "medium", "normal", "2":
		return TierMedium, nil
	case "hard", "3":
		return TierHard, nil
	}
	return 0, fmt.Errorf("unknown difficulty tier %q", s)
}

// Settings is what a player picks on the settings screen.
// Durations are whole seconds.
type Settings struct {
	GameSpeed     float64 `toml:"game_speed"`
	MaxBeetles    int     `toml:"max_beetles"`
	RoundDuration int     `toml:"round_duration"`
	BonusInterval int     `toml:"bonus_interval"`
}

// Normalize returns s with every field forced into its valid range.
func (s Settings) Normalize() Settings {
	if s.GameSpeed <= 0 {
		s.GameSpeed = 1
	}
	if s.MaxBeetles < 1 {
		s.MaxBeetles = 1
	}
	if s.RoundDuration < 1 {
		s.RoundDuration = 1
	}
	if s.BonusInterval < 1 {
		s.BonusInterval = 1
	}
	return s
}

// Table holds the settings for each tier.
type Table map[Tier]Settings

// DefaultTable returns the built-in presets.
func DefaultTable() Table {
	return Table{
		TierEasy:   {GameSpeed: 2, MaxBeetles: 10, RoundDuration: 120, BonusInterval: 15},
		TierMedium: {GameSpeed: 5, MaxBeetles: 20, RoundDuration: 90, BonusInterval: 15},
		TierHard:   {GameSpeed: 9, MaxBeetles: 35, RoundDuration: 60, BonusInterval: 15},
	}
}

// Settings returns the normalized settings for tier, falling back to the
// built-in preset when the table has no entry for it.
func (t Table) Settings(tier Tier) Settings {
	if s, ok := t[tier]; ok {
		return s.Normalize()
	}
	if s, ok := DefaultTable()[tier]; ok {
		return s
	}
	return DefaultTable()[TierMedium]
}

// Profile is the immutable set of tunables a round runs with.
type Profile struct {
	SpawnDelay              time.Duration
	DirectionChangeInterval float64 // seconds
	WallBounceDamping       float64 // fraction of gravity velocity lost per bounce
	PopulationCap           int
	RoundDuration           time.Duration
	BonusInterval           time.Duration
	GameSpeed               float64
	Difficulty              int
}

// Resolve derives a profile from settings. Pure.
func Resolve(s Settings) Profile {
	s = s.Normalize()

	p := Profile{
		PopulationCap: s.MaxBeetles,
		RoundDuration: time.Duration(s.RoundDuration) * time.Second,
		BonusInterval: time.Duration(s.BonusInterval) * time.Second,
		GameSpeed:     s.GameSpeed,
		Difficulty:    int(s.GameSpeed),
	}

	switch {
	case s.GameSpeed <= 3:
		p.SpawnDelay = 2500 * time.Millisecond
		p.DirectionChangeInterval = 1.2
		p.WallBounceDamping = 0.5
	case s.GameSpeed <= 7:
		p.SpawnDelay = 1500 * time.Millisecond
		p.DirectionChangeInterval = 2.0
		p.WallBounceDamping = 0.3
	default:
		p.SpawnDelay = 800 * time.Millisecond
		p.DirectionChangeInterval = 3.5
		p.WallBounceDamping = 0.15
	}
	return p
}

// ForTier resolves one of the built-in presets.
func ForTier(t Tier) Profile {
	return Resolve(DefaultTable().Settings(t))
}

// RoundSeconds is the round length in whole seconds.
func (p Profile) RoundSeconds() int {
	return int(p.RoundDuration / time.Second)
}
