// Package archive stores finished games in a local SQLite database: one row
// per game, with its full move list, winner, and timestamps. This is a
// local record-keeping feature, not a reopening of networked play -- games
// are archived by whatever process finishes them (cmd/quoridor or
// cmd/battle), never transmitted.
//
// Grounded on virusgame's backend/storage.go (SQLite schema + insert), with
// uuid.NewString() replacing its string game IDs.
package archive

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/wrongu/QuoridorV2/internal/game"
)

// Record is one archived game.
type Record struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Moves     []string
	Winner    int
}

// Archive wraps a SQLite database of finished games.
type Archive struct {
	db *sql.DB
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	started_at DATETIME,
	ended_at DATETIME,
	move_list TEXT,
	winner INTEGER
);
`

// Open opens (creating if necessary) a SQLite database at path.
func Open(path string) (*Archive, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("archive: create dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("archive: open: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: create table: %w", err)
	}
	return &Archive{db: db}, nil
}

// Close releases the underlying database handle.
func (a *Archive) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// SaveGame archives g's full move history (from g.Save's format) along with
// its winner and a startedAt timestamp, generating a fresh UUID as its
// record ID. It returns the generated ID.
func (a *Archive) SaveGame(g *game.Game, startedAt time.Time) (string, error) {
	var sb strings.Builder
	if err := g.Save(&sb); err != nil {
		return "", fmt.Errorf("archive: serialize game: %w", err)
	}
	id := uuid.NewString()
	_, err := a.db.Exec(
		`INSERT INTO games (id, started_at, ended_at, move_list, winner) VALUES (?, ?, ?, ?, ?)`,
		id, startedAt, time.Now(), sb.String(), g.GetWinner(),
	)
	if err != nil {
		return "", fmt.Errorf("archive: insert: %w", err)
	}
	return id, nil
}

// Load reconstructs a Record by ID.
func (a *Archive) Load(id string) (Record, error) {
	var rec Record
	var moveList string
	row := a.db.QueryRow(`SELECT id, started_at, ended_at, move_list, winner FROM games WHERE id = ?`, id)
	if err := row.Scan(&rec.ID, &rec.StartedAt, &rec.EndedAt, &moveList, &rec.Winner); err != nil {
		return Record{}, fmt.Errorf("archive: load %s: %w", id, err)
	}

	lines := strings.Split(strings.TrimSpace(moveList), "\n")
	if len(lines) > 1 {
		rec.Moves = lines[1:]
	}
	return rec, nil
}

// LoadGame reconstructs the full replayed game.Game for a given record ID,
// by feeding its saved move list back through game.Load.
func (a *Archive) LoadGame(id string) (*game.Game, error) {
	var moveList string
	row := a.db.QueryRow(`SELECT move_list FROM games WHERE id = ?`, id)
	if err := row.Scan(&moveList); err != nil {
		return nil, fmt.Errorf("archive: load %s: %w", id, err)
	}
	return game.Load(strings.NewReader(moveList))
}

// Count returns the number of archived games.
func (a *Archive) Count() (int, error) {
	var n int
	row := a.db.QueryRow(`SELECT COUNT(*) FROM games`)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("archive: count: %w", err)
	}
	return n, nil
}
