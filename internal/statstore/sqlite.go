package statstore

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteDB implements the DB interface using SQLite.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) the run database at path.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate runs database migrations
func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			game TEXT NOT NULL,
			cycles INTEGER NOT NULL DEFAULT 0,
			actions_sent INTEGER NOT NULL DEFAULT 0,
			avg_latency_us INTEGER NOT NULL DEFAULT 0,
			max_latency_us INTEGER NOT NULL DEFAULT 0,
			last_score INTEGER NOT NULL DEFAULT -1,
			stop_reason TEXT NOT NULL DEFAULT '',
			started_at DATETIME NOT NULL,
			ended_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_game_score ON runs(game, last_score DESC)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveRun persists one completed run.
func (s *SQLiteDB) SaveRun(run *Run) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (id, game, cycles, actions_sent, avg_latency_us, max_latency_us, last_score, stop_reason, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Game, run.Cycles, run.ActionsSent,
		run.AvgLatencyUs, run.MaxLatencyUs, run.LastScore,
		run.StopReason, run.StartedAt, run.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteDB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, game, cycles, actions_sent, avg_latency_us, max_latency_us, last_score, stop_reason, started_at, ended_at
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Game, &r.Cycles, &r.ActionsSent,
			&r.AvgLatencyUs, &r.MaxLatencyUs, &r.LastScore,
			&r.StopReason, &r.StartedAt, &r.EndedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Leaderboard returns the best-scoring runs, optionally filtered by
// game. Runs that never observed a score are excluded.
func (s *SQLiteDB) Leaderboard(game string, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, game, last_score, started_at
		FROM runs WHERE last_score >= 0`
	args := []any{}
	if game != "" {
		query += ` AND game = ?`
		args = append(args, game)
	}
	query += ` ORDER BY last_score DESC, started_at ASC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.RunID, &e.Game, &e.Score, &e.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
