package server

import (
	"sort"

	"github.com/tomz197/beetles/internal/loop/config"
)

// TopScoreEntry represents a single entry on the leaderboard.
type TopScoreEntry struct {
	Username   string
	Score      int
	Games      int
	ZodiacSign string
	playerID   int64 // Used for deterministic tie-break when scores are equal
}

// sortLeaderboard orders entries by score, then by registration order.
func sortLeaderboard(entries []TopScoreEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].playerID < entries[j].playerID
	})
}

// TruncateUsername limits a display name to MaxUsernameLength runes and
// substitutes a placeholder for an empty one.
func TruncateUsername(name string) string {
	runes := []rune(name)
	if len(runes) == 0 {
		return "player"
	}
	if len(runes) > config.MaxUsernameLength {
		runes = runes[:config.MaxUsernameLength]
	}
	return string(runes)
}
