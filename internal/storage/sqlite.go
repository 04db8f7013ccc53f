// Package storage provides SQLite-based persistence for race results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNoResults is returned when a level has no finished races yet.
var ErrNoResults = errors.New("storage: no results")

// Outcome is how a race ended.
type Outcome string

const (
	OutcomeFinished Outcome = "finished" // Crossed the finish line
	OutcomeCaught   Outcome = "caught"   // Caught by the chaser
)

// Store manages the SQLite database connection for result persistence.
type Store struct {
	db *sql.DB
}

// RaceResult represents a single race record.
type RaceResult struct {
	ID         int64
	LevelID    string
	Outcome    Outcome
	Place      int     // 1-4 when finished, 0 when caught
	Elapsed    float64 // Race time in seconds
	Distance   float64 // World units covered
	Difficulty string
	CreatedAt  time.Time
}

// LevelStats contains aggregated statistics for one level.
type LevelStats struct {
	LevelID     string
	Races       int
	Finished    int
	Wins        int // First place finishes
	BestTime    float64
	AverageTime float64
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS races (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_id TEXT NOT NULL,
			outcome TEXT NOT NULL,
			place INTEGER NOT NULL DEFAULT 0,
			elapsed REAL NOT NULL,
			distance REAL NOT NULL DEFAULT 0,
			difficulty TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_races_level_id ON races(level_id);
		CREATE INDEX IF NOT EXISTS idx_races_best ON races(level_id, outcome, place, elapsed);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveResult records a finished or failed race.
// Returns the ID of the inserted record.
func (s *Store) SaveResult(r RaceResult) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO races (level_id, outcome, place, elapsed, distance, difficulty)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.LevelID, string(r.Outcome), r.Place, r.Elapsed, r.Distance, r.Difficulty,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// BestTimes retrieves the best finished races for a level, ordered by place
// and then by race time.
func (s *Store) BestTimes(levelID string, limit int) ([]RaceResult, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, level_id, outcome, place, elapsed, distance, difficulty, created_at
		 FROM races
		 WHERE level_id = ? AND outcome = ?
		 ORDER BY place ASC, elapsed ASC
		 LIMIT ?`,
		levelID, string(OutcomeFinished), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best times: %w", err)
	}
	return scanResults(rows)
}

// BestTime returns the fastest first-place time for a level.
// Returns ErrNoResults if the level has never been won.
func (s *Store) BestTime(levelID string) (float64, error) {
	var best sql.NullFloat64
	err := s.db.QueryRow(
		"SELECT MIN(elapsed) FROM races WHERE level_id = ? AND outcome = ? AND place = 1",
		levelID, string(OutcomeFinished),
	).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get best time: %w", err)
	}
	if !best.Valid {
		return 0, ErrNoResults
	}
	return best.Float64, nil
}

// History retrieves the most recent races across all levels.
func (s *Store) History(limit int) ([]RaceResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, level_id, outcome, place, elapsed, distance, difficulty, created_at
		 FROM races
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query history: %w", err)
	}
	return scanResults(rows)
}

// Stats retrieves aggregated statistics for a level.
func (s *Store) Stats(levelID string) (*LevelStats, error) {
	stats := &LevelStats{LevelID: levelID}

	var best, avg sql.NullFloat64
	err := s.db.QueryRow(
		`SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN outcome = ? AND place = 1 THEN 1 ELSE 0 END), 0),
			MIN(CASE WHEN outcome = ? THEN elapsed END),
			AVG(elapsed)
		 FROM races
		 WHERE level_id = ?`,
		string(OutcomeFinished), string(OutcomeFinished), string(OutcomeFinished), levelID,
	).Scan(&stats.Races, &stats.Finished, &stats.Wins, &best, &avg)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	stats.BestTime = best.Float64
	stats.AverageTime = avg.Float64
	return stats, nil
}

// ClearResults deletes all races for the given level.
func (s *Store) ClearResults(levelID string) error {
	_, err := s.db.Exec("DELETE FROM races WHERE level_id = ?", levelID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// scanResults reads every row and closes rows.
func scanResults(rows *sql.Rows) ([]RaceResult, error) {
	defer rows.Close()

	var results []RaceResult
	for rows.Next() {
		var r RaceResult
		var outcome string
		var createdAt any
		if err := rows.Scan(&r.ID, &r.LevelID, &outcome, &r.Place, &r.Elapsed, &r.Distance, &r.Difficulty, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Outcome = Outcome(outcome)
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// parseTime handles the driver returning either time.Time or string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
