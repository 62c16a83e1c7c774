// Package store persists players and their game records in sqlite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ErrPlayerNotFound is returned when no player has the requested ID or name.
var ErrPlayerNotFound = errors.New("player not found")

const schema = `
CREATE TABLE IF NOT EXISTS players (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	full_name   TEXT    NOT NULL,
	gender      TEXT    NOT NULL DEFAULT '',
	course      TEXT    NOT NULL DEFAULT '',
	difficulty  INTEGER NOT NULL DEFAULT 0,
	birth_date  TEXT    NOT NULL DEFAULT '',
	zodiac_sign TEXT    NOT NULL DEFAULT '',
	best_score  INTEGER NOT NULL DEFAULT 0,
	total_games INTEGER NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS game_records (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	player_id      INTEGER NOT NULL REFERENCES players(id) ON DELETE CASCADE,
	score          INTEGER NOT NULL,
	difficulty     INTEGER NOT NULL,
	game_speed     REAL    NOT NULL,
	max_beetles    INTEGER NOT NULL,
	round_duration INTEGER NOT NULL,
	played_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_game_records_player ON game_records(player_id);
`

// Store is a sqlite-backed player and game record store. It is safe for
// concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// sqlite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}
