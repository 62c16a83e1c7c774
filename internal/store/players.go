package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Player is a registered player.
type Player struct {
	ID         int64     `json:"id"`
	FullName   string    `json:"fullName"`
	Gender     string    `json:"gender"`
	Course     string    `json:"course"`
	Difficulty int       `json:"difficulty"`
	BirthDate  string    `json:"birthDate"` // YYYY-MM-DD, may be empty
	ZodiacSign string    `json:"zodiacSign"`
	BestScore  int       `json:"bestScore"`
	TotalGames int       `json:"totalGames"`
	CreatedAt  time.Time `json:"createdAt"`
}

const playerColumns = `id, full_name, gender, course, difficulty, birth_date, zodiac_sign, best_score, total_games, created_at`

func scanPlayer(row scanner) (Player, error) {
	var p Player
	var created int64
	err := row.Scan(&p.ID, &p.FullName, &p.Gender, &p.Course, &p.Difficulty,
		&p.BirthDate, &p.ZodiacSign, &p.BestScore, &p.TotalGames, &created)
	if err != nil {
		return Player{}, err
	}
	p.CreatedAt = time.UnixMilli(created)
	return p, nil
}

// RegisterPlayer inserts a new player and returns its ID. The zodiac sign
// is derived from the birth date when one is given.
func (s *Store) RegisterPlayer(ctx context.Context, p Player) (int64, error) {
	if p.FullName == "" {
		return 0, errors.New("register player: empty name")
	}
	if p.BirthDate != "" {
		sign, err := ZodiacFromDate(p.BirthDate)
		if err != nil {
			return 0, fmt.Errorf("register player: %w", err)
		}
		p.ZodiacSign = sign
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO players
		(full_name, gender, course, difficulty, birth_date, zodiac_sign, best_score, total_games, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.FullName, p.Gender, p.Course, p.Difficulty, p.BirthDate, p.ZodiacSign,
		p.BestScore, p.TotalGames, p.CreatedAt.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("register player: %w", err)
	}
	return res.LastInsertId()
}

// UpdatePlayer overwrites the editable profile fields of p.
func (s *Store) UpdatePlayer(ctx context.Context, p Player) error {
	if p.BirthDate != "" {
		sign, err := ZodiacFromDate(p.BirthDate)
		if err != nil {
			return fmt.Errorf("update player %d: %w", p.ID, err)
		}
		p.ZodiacSign = sign
	}
	res, err := s.db.ExecContext(ctx, `UPDATE players
		SET full_name = ?, gender = ?, course = ?, difficulty = ?, birth_date = ?, zodiac_sign = ?
		WHERE id = ?`,
		p.FullName, p.Gender, p.Course, p.Difficulty, p.BirthDate, p.ZodiacSign, p.ID)
	if err != nil {
		return fmt.Errorf("update player %d: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

// DeletePlayer removes a player and, through the foreign key, their records.
func (s *Store) DeletePlayer(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete player %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

// PlayerByID looks up a player.
func (s *Store) PlayerByID(ctx context.Context, id int64) (Player, error) {
	p, err := scanPlayer(s.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Player{}, ErrPlayerNotFound
	}
	if err != nil {
		return Player{}, fmt.Errorf("player %d: %w", id, err)
	}
	return p, nil
}

// PlayerByName returns the most recently registered player with the name.
func (s *Store) PlayerByName(ctx context.Context, name string) (Player, error) {
	p, err := scanPlayer(s.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE full_name = ? ORDER BY id DESC LIMIT 1`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return Player{}, ErrPlayerNotFound
	}
	if err != nil {
		return Player{}, fmt.Errorf("player %q: %w", name, err)
	}
	return p, nil
}

// EnsurePlayer returns the player with the name, registering a bare
// profile for it first if needed. Used by frontends that only know a
// username.
func (s *Store) EnsurePlayer(ctx context.Context, name string, difficulty int) (Player, error) {
	p, err := s.PlayerByName(ctx, name)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrPlayerNotFound) {
		return Player{}, err
	}
	id, err := s.RegisterPlayer(ctx, Player{FullName: name, Difficulty: difficulty})
	if err != nil {
		return Player{}, err
	}
	return s.PlayerByID(ctx, id)
}

// AllPlayers lists every player, newest first.
func (s *Store) AllPlayers(ctx context.Context) ([]Player, error) {
	return s.queryPlayers(ctx, `SELECT `+playerColumns+` FROM players ORDER BY id DESC`)
}

// TopPlayers lists the players with the best scores.
func (s *Store) TopPlayers(ctx context.Context, limit int) ([]Player, error) {
	return s.queryPlayers(ctx, `SELECT `+playerColumns+` FROM players
		ORDER BY best_score DESC, id ASC LIMIT ?`, limit)
}

// UpdateBestScoreIfHigher raises the best score and counts the game when
// score beats the stored best. Returns the rows changed: 0 means the
// score was not a new best and the game was not counted.
func (s *Store) UpdateBestScoreIfHigher(ctx context.Context, playerID int64, score int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE players
		SET best_score = ?, total_games = total_games + 1
		WHERE id = ? AND best_score < ?`, score, playerID, score)
	if err != nil {
		return 0, fmt.Errorf("update best score for %d: %w", playerID, err)
	}
	return res.RowsAffected()
}

// IncrementPlayCount counts one more game for the player.
func (s *Store) IncrementPlayCount(ctx context.Context, playerID int64) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE players SET total_games = total_games + 1 WHERE id = ?`, playerID); err != nil {
		return fmt.Errorf("increment games for %d: %w", playerID, err)
	}
	return nil
}

func (s *Store) queryPlayers(ctx context.Context, query string, args ...any) ([]Player, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
