// Package storage keeps the run log for the current process in an in-memory
// SQLite database. Nothing is written to disk: runs last as long as the
// process that played them.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage: closed")

// Store manages the in-memory run log.
type Store struct {
	db *sql.DB
}

// Run is one finished session of the runner.
type Run struct {
	ID        int64
	SessionID string
	Score     int
	Collected int
	Duration  time.Duration
	MaxSpeed  float64
	CreatedAt time.Time
}

// Stats aggregates the runs of one session.
type Stats struct {
	SessionID string
	Runs      int
	Best      int
	AvgScore  float64
	Collected int
	LastRun   time.Time
}

// Open creates an empty in-memory run log.
func Open() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Every connection to :memory: is its own database; pin to one
	db.SetMaxOpenConns(1)

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

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			collected INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			max_speed REAL NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(session_id, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close releases the database. All runs are lost.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// SaveRun records a finished run. CreatedAt defaults to now.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(run Run) (int64, error) {
	if s == nil || s.db == nil {
		return 0, ErrClosed
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	result, err := s.db.Exec(
		`INSERT INTO runs (session_id, score, collected, duration_ms, max_speed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.SessionID, run.Score, run.Collected, run.Duration.Milliseconds(), run.MaxSpeed, run.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopRuns retrieves the best runs of a session, highest score first.
// Ties keep the order they were played in.
func (s *Store) TopRuns(sessionID string, limit int) ([]Run, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, score, collected, duration_ms, max_speed, created_at
		 FROM runs
		 WHERE session_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMs, createdAt int64
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Score, &r.Collected, &durationMs, &r.MaxSpeed, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.CreatedAt = time.UnixMilli(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// Best returns the highest score of a session, or 0 if it has no runs.
func (s *Store) Best(sessionID string) (int, error) {
	if s == nil || s.db == nil {
		return 0, ErrClosed
	}

	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM runs WHERE session_id = ?",
		sessionID,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// Count returns the number of runs across all sessions.
func (s *Store) Count() (int, error) {
	if s == nil || s.db == nil {
		return 0, ErrClosed
	}

	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count runs: %w", err)
	}
	return n, nil
}

// SessionStats retrieves aggregated statistics for one session.
func (s *Store) SessionStats(sessionID string) (*Stats, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}

	stats := &Stats{SessionID: sessionID}
	var lastRun int64
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(collected), 0), COALESCE(MAX(created_at), 0)
		 FROM runs WHERE session_id = ?`,
		sessionID,
	).Scan(&stats.Runs, &stats.Best, &stats.AvgScore, &stats.Collected, &lastRun)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get session stats: %w", err)
	}

	if lastRun > 0 {
		stats.LastRun = time.UnixMilli(lastRun)
	}
	return stats, nil
}
