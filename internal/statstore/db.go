package statstore

import "time"

// DB is the persistence interface for finished runs.
type DB interface {
	Close() error
	Migrate() error
	SaveRun(run *Run) error
	ListRuns(limit int) ([]Run, error)
	Leaderboard(game string, limit int) ([]LeaderboardEntry, error)
}

// Run is one completed control-loop run.
type Run struct {
	ID           string    `json:"id" db:"id"`
	Game         string    `json:"game" db:"game"`
	Cycles       int       `json:"cycles" db:"cycles"`
	ActionsSent  int       `json:"actions_sent" db:"actions_sent"`
	AvgLatencyUs int64     `json:"avg_latency_us" db:"avg_latency_us"`
	MaxLatencyUs int64     `json:"max_latency_us" db:"max_latency_us"`
	LastScore    int       `json:"last_score" db:"last_score"`
	StopReason   string    `json:"stop_reason" db:"stop_reason"`
	StartedAt    time.Time `json:"started_at" db:"started_at"`
	EndedAt      time.Time `json:"ended_at" db:"ended_at"`
}

// LeaderboardEntry is one row of the per-game best-score table.
type LeaderboardEntry struct {
	RunID     string    `json:"run_id"`
	Game      string    `json:"game"`
	Score     int       `json:"score"`
	StartedAt time.Time `json:"started_at"`
}
