package store

import (
	"context"
	"fmt"
	"time"
)

// GameRecord is the result of one finished round.
type GameRecord struct {
	ID            int64     `json:"id"`
	PlayerID      int64     `json:"playerId"`
	Score         int       `json:"score"`
	Difficulty    int       `json:"difficulty"`
	GameSpeed     float64   `json:"gameSpeed"`
	MaxBeetles    int       `json:"maxBeetles"`
	RoundDuration int       `json:"roundDuration"`
	PlayedAt      time.Time `json:"playedAt"`
}

// RecordWithPlayer is a record joined with the name of its player.
type RecordWithPlayer struct {
	GameRecord
	PlayerName string `json:"playerName"`
	ZodiacSign string `json:"zodiacSign"`
}

const recordColumns = `r.id, r.player_id, r.score, r.difficulty, r.game_speed, r.max_beetles, r.round_duration, r.played_at`

func scanRecord(row scanner, extra ...any) (GameRecord, error) {
	var rec GameRecord
	var played int64
	dest := append([]any{&rec.ID, &rec.PlayerID, &rec.Score, &rec.Difficulty,
		&rec.GameSpeed, &rec.MaxBeetles, &rec.RoundDuration, &played}, extra...)
	if err := row.Scan(dest...); err != nil {
		return GameRecord{}, err
	}
	rec.PlayedAt = time.UnixMilli(played)
	return rec, nil
}

// InsertGameRecord stores a finished round and returns its ID.
func (s *Store) InsertGameRecord(ctx context.Context, rec GameRecord) (int64, error) {
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO game_records
		(player_id, score, difficulty, game_speed, max_beetles, round_duration, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.PlayerID, rec.Score, rec.Difficulty, rec.GameSpeed, rec.MaxBeetles,
		rec.RoundDuration, rec.PlayedAt.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("insert game record for %d: %w", rec.PlayerID, err)
	}
	return res.LastInsertId()
}

// PlayerRecords lists a player's rounds, newest first.
func (s *Store) PlayerRecords(ctx context.Context, playerID int64) ([]GameRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM game_records r
		WHERE r.player_id = ? ORDER BY r.played_at DESC, r.id DESC`, playerID)
	if err != nil {
		return nil, fmt.Errorf("records for %d: %w", playerID, err)
	}
	defer rows.Close()

	var out []GameRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// TopRecords lists the best rounds across all players.
func (s *Store) TopRecords(ctx context.Context, limit int) ([]RecordWithPlayer, error) {
	return s.queryWithPlayer(ctx, `ORDER BY r.score DESC, r.id ASC LIMIT ?`, limit)
}

// RecentRecords lists the latest rounds across all players.
func (s *Store) RecentRecords(ctx context.Context, limit int) ([]RecordWithPlayer, error) {
	return s.queryWithPlayer(ctx, `ORDER BY r.played_at DESC, r.id DESC LIMIT ?`, limit)
}

// DeletePlayerRecords removes every record of a player.
func (s *Store) DeletePlayerRecords(ctx context.Context, playerID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM game_records WHERE player_id = ?`, playerID); err != nil {
		return fmt.Errorf("delete records for %d: %w", playerID, err)
	}
	return nil
}

func (s *Store) queryWithPlayer(ctx context.Context, tail string, args ...any) ([]RecordWithPlayer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+`, p.full_name, p.zodiac_sign
		FROM game_records r JOIN players p ON p.id = r.player_id `+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []RecordWithPlayer
	for rows.Next() {
		var rp RecordWithPlayer
		rec, err := scanRecord(rows, &rp.PlayerName, &rp.ZodiacSign)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rp.GameRecord = rec
		out = append(out, rp)
	}
	return out, rows.Err()
}
