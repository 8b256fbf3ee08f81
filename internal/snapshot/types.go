package snapshot

import "time"

// GameKind identifies which minigame the monitored process is showing.
type GameKind string

const (
	GameRunner    GameKind = "runner"
	GameSnake     GameKind = "snake"
	GameTicTacToe GameKind = "tictactoe"
	GameUnknown   GameKind = "unknown"
)

// Phase is the lifecycle phase of the active minigame.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseCountdown  Phase = "countdown"
	PhaseRunning    Phase = "running"
	PhaseEnded      Phase = "ended"
	PhaseUnknown    Phase = ""
)

// RunnerState holds the fields the runner minigame exposes.
// Every field is best-effort: a zero ObstacleDistance means no obstacle
// was reported this cycle, not an obstacle at distance zero.
type RunnerState struct {
	ObstacleDistance  float64
	ObstacleType      string
	ObstacleElevation string
	PlayerY           float64
	PlayerVY          float64
	Airborne          bool
	Phase             Phase
}

// SnakeState holds the fields the snake minigame exposes.
type SnakeState struct {
	HeadX, HeadY int
	FoodX, FoodY int
	Direction    string
	Phase        Phase
}

// BoardState holds the fields the tic-tac-toe minigame exposes.
// Cells is a 9-character row-major string over 'X', 'O' and '.'.
type BoardState struct {
	Cells  string
	Turn   string
	Marker string
	Phase  Phase
}

// Snapshot is the typed reconstruction of one state dump from the
// monitored process. It is rebuilt on every poll and never mutated.
type Snapshot struct {
	Timestamp time.Time
	PID       int
	Live      bool
	Screen    string
	Status    string
	Score     int

	// Exactly one of these is set when the screen matches a known game.
	Runner *RunnerState
	Snake  *SnakeState
	Board  *BoardState

	Raw string
}

// Game returns the game kind detected from the populated sub-record.
func (s *Snapshot) Game() GameKind {
	switch {
	case s.Runner != nil:
		return GameRunner
	case s.Snake != nil:
		return GameSnake
	case s.Board != nil:
		return GameTicTacToe
	default:
		return GameUnknown
	}
}
