package engines

import (
	"time"

	"github.com/TayDa64/LikuBuddy/internal/snapshot"
)

// RunnerConfig holds the tunable thresholds of the runner policy.
type RunnerConfig struct {
	// Obstacles between MinDistance and MaxDistance are jumpable.
	MinDistance float64
	MaxDistance float64
	// Cooldown is the minimum interval between two jumps.
	Cooldown time.Duration
}

// DefaultRunnerConfig returns thresholds tuned against the stock runner
// minigame at its default scroll speed.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		MinDistance: 2,
		MaxDistance: 7,
		Cooldown:    400 * time.Millisecond,
	}
}

// RunnerEngine plays the endless-runner minigame: jump over ground
// obstacles, let high ones pass underneath.
type RunnerEngine struct {
	cfg        RunnerConfig
	lastAction time.Time
	now        func() time.Time
}

// NewRunnerEngine creates a runner engine with default thresholds.
func NewRunnerEngine() Engine {
	return NewRunnerEngineWith(DefaultRunnerConfig())
}

// NewRunnerEngineWith creates a runner engine with explicit thresholds.
func NewRunnerEngineWith(cfg RunnerConfig) *RunnerEngine {
	return &RunnerEngine{cfg: cfg, now: time.Now}
}

func (e *RunnerEngine) Name() string { return "runner" }

func (e *RunnerEngine) Kind() snapshot.GameKind { return snapshot.GameRunner }

// Decide applies the runner policy in strict priority order: lifecycle
// phase, airborne, out of range, cooldown, pass-under obstacles, jump
// window, emergency jump.
func (e *RunnerEngine) Decide(snap *snapshot.Snapshot) Decision {
	rs := snap.Runner
	if rs == nil {
		return Decision{Action: ActionWait, Confidence: 0.1, Reason: "runner state missing from snapshot"}
	}

	switch rs.Phase {
	case snapshot.PhaseNotStarted:
		return Decision{Action: ActionStart, Confidence: 1.0, Reason: "game not started"}
	case snapshot.PhaseEnded:
		return Decision{Action: ActionRestart, Confidence: 1.0, Reason: "game over"}
	case snapshot.PhaseCountdown:
		return Decision{Action: ActionWait, Confidence: 1.0, Reason: "countdown in progress"}
	}

	if rs.Airborne {
		return Decision{Action: ActionWait, Confidence: 0.9, Reason: "already airborne"}
	}

	d := rs.ObstacleDistance
	if d <= 0 {
		return Decision{Action: ActionWait, Confidence: 0.7, Reason: "no obstacle reported"}
	}
	if d > e.cfg.MaxDistance {
		return Decision{Action: ActionWait, Confidence: 0.8, Reason: "obstacle beyond jump window"}
	}

	if e.onCooldown() {
		return Decision{Action: ActionWait, Confidence: 0.6, Reason: "jump cooldown active"}
	}

	if passesOverhead(rs) {
		return Decision{Action: ActionWait, Confidence: 0.85, Reason: "high obstacle, staying low"}
	}

	if d >= e.cfg.MinDistance {
		e.lastAction = e.now()
		return Decision{Action: ActionPrimary, Confidence: 0.95, Reason: "obstacle in jump window"}
	}

	// Inside the minimum distance the jump is probably too late, but
	// attempting it beats certain death.
	e.lastAction = e.now()
	return Decision{Action: ActionPrimary, Confidence: 0.5, Reason: "obstacle too close, emergency jump"}
}

func (e *RunnerEngine) onCooldown() bool {
	return !e.lastAction.IsZero() && e.now().Sub(e.lastAction) < e.cfg.Cooldown
}

// passesOverhead reports whether the obstacle should be ducked under
// rather than jumped over.
func passesOverhead(rs *snapshot.RunnerState) bool {
	if rs.ObstacleElevation == "high" {
		return true
	}
	return rs.ObstacleType == "bird" && rs.ObstacleElevation != "ground"
}
