package control

import (
	"fmt"
	"time"

	"github.com/TayDa64/LikuBuddy/internal/snapshot"
)

// GameAuto selects the engine from the screen detected each cycle.
const GameAuto = "auto"

// Config holds the control loop settings. Values come straight from
// command-line flags and are validated once before the loop starts.
type Config struct {
	// Game forces a single engine, or GameAuto to follow the screen.
	Game string
	// SnapshotPath is the state file the game rewrites.
	SnapshotPath string
	// PollInterval is the target cycle cadence.
	PollInterval time.Duration
	// MaxCycles stops the run after this many cycles; 0 is unlimited.
	MaxCycles int
	// FailureThreshold is how many consecutive unparseable snapshots
	// count as a lost target.
	FailureThreshold int
	// DryRun computes decisions but skips injection.
	DryRun  bool
	Verbose bool
}

// DefaultFailureThreshold matches how many mid-write polls in a row are
// plausible before the only explanation left is that the game is gone.
const DefaultFailureThreshold = 5

var knownGames = map[string]snapshot.GameKind{
	GameAuto:                       snapshot.GameUnknown,
	string(snapshot.GameRunner):    snapshot.GameRunner,
	string(snapshot.GameSnake):     snapshot.GameSnake,
	string(snapshot.GameTicTacToe): snapshot.GameTicTacToe,
}

// Validate checks the configuration and fills defaults. Invalid values
// are reported, never silently coerced.
func (c *Config) Validate() error {
	if c.SnapshotPath == "" {
		return fmt.Errorf("%w: snapshot path must not be empty", ErrInvalidConfig)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive, got %v", ErrInvalidConfig, c.PollInterval)
	}
	if c.MaxCycles < 0 {
		return fmt.Errorf("%w: max cycles must not be negative, got %d", ErrInvalidConfig, c.MaxCycles)
	}
	if c.Game == "" {
		c.Game = GameAuto
	}
	if _, ok := knownGames[c.Game]; !ok {
		return fmt.Errorf("%w: unknown game %q", ErrInvalidConfig, c.Game)
	}
	if c.FailureThreshold == 0 {
		c.FailureThreshold = DefaultFailureThreshold
	}
	if c.FailureThreshold < 0 {
		return fmt.Errorf("%w: failure threshold must be positive, got %d", ErrInvalidConfig, c.FailureThreshold)
	}
	return nil
}

// forcedKind returns the forced game kind, or GameUnknown under auto
// detection.
func (c *Config) forcedKind() snapshot.GameKind {
	return knownGames[c.Game]
}
