package engines

import (
	"time"

	"github.com/TayDa64/LikuBuddy/internal/snapshot"
)

// SnakeConfig holds the tunable thresholds of the snake policy.
type SnakeConfig struct {
	// TurnCooldown is the minimum interval between direction changes,
	// so a laggy snapshot does not produce a flurry of turns.
	TurnCooldown time.Duration
}

// DefaultSnakeConfig returns thresholds tuned against the stock snake
// minigame tick rate.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{TurnCooldown: 120 * time.Millisecond}
}

// SnakeEngine steers the snake toward the food one axis at a time,
// never reversing into itself.
type SnakeEngine struct {
	cfg        SnakeConfig
	lastAction time.Time
	now        func() time.Time
}

// NewSnakeEngine creates a snake engine with default thresholds.
func NewSnakeEngine() Engine {
	return NewSnakeEngineWith(DefaultSnakeConfig())
}

// NewSnakeEngineWith creates a snake engine with explicit thresholds.
func NewSnakeEngineWith(cfg SnakeConfig) *SnakeEngine {
	return &SnakeEngine{cfg: cfg, now: time.Now}
}

func (e *SnakeEngine) Name() string { return "snake" }

func (e *SnakeEngine) Kind() snapshot.GameKind { return snapshot.GameSnake }

func (e *SnakeEngine) Decide(snap *snapshot.Snapshot) Decision {
	ss := snap.Snake
	if ss == nil {
		return Decision{Action: ActionWait, Confidence: 0.1, Reason: "snake state missing from snapshot"}
	}

	switch ss.Phase {
	case snapshot.PhaseNotStarted:
		return Decision{Action: ActionStart, Confidence: 1.0, Reason: "game not started"}
	case snapshot.PhaseEnded:
		return Decision{Action: ActionRestart, Confidence: 1.0, Reason: "game over"}
	case snapshot.PhaseCountdown:
		return Decision{Action: ActionWait, Confidence: 1.0, Reason: "countdown in progress"}
	}

	dx := ss.FoodX - ss.HeadX
	dy := ss.FoodY - ss.HeadY
	if dx == 0 && dy == 0 {
		return Decision{Action: ActionWait, Confidence: 0.5, Reason: "food position not distinct from head"}
	}

	want := pickDirection(dx, dy, ss.Direction)
	if want == "" {
		return Decision{Action: ActionWait, Confidence: 0.7, Reason: "no safe turn toward food"}
	}
	if want == ss.Direction {
		return Decision{Action: ActionWait, Confidence: 0.9, Reason: "already heading toward food"}
	}

	if !e.lastAction.IsZero() && e.now().Sub(e.lastAction) < e.cfg.TurnCooldown {
		return Decision{Action: ActionWait, Confidence: 0.6, Reason: "turn cooldown active"}
	}

	e.lastAction = e.now()
	return Decision{Action: directionAction(want), Confidence: 0.9, Reason: "turning toward food"}
}

// pickDirection orders the two candidate axes by remaining distance and
// returns the first direction that is not a reversal of the current
// heading. The board origin is top-left: y grows downward.
func pickDirection(dx, dy int, current string) string {
	var candidates []string
	horiz, vert := "", ""
	if dx > 0 {
		horiz = "right"
	} else if dx < 0 {
		horiz = "left"
	}
	if dy > 0 {
		vert = "down"
	} else if dy < 0 {
		vert = "up"
	}

	if abs(dx) >= abs(dy) {
		candidates = []string{horiz, vert}
	} else {
		candidates = []string{vert, horiz}
	}

	for _, c := range candidates {
		if c == "" || reverses(current, c) {
			continue
		}
		return c
	}
	return ""
}

func reverses(current, next string) bool {
	opposites := map[string]string{
		"up":    "down",
		"down":  "up",
		"left":  "right",
		"right": "left",
	}
	return opposites[current] == next
}

func directionAction(dir string) Action {
	switch dir {
	case "up":
		return ActionUp
	case "down":
		return ActionDown
	case "left":
		return ActionLeft
	case "right":
		return ActionRight
	}
	return ActionWait
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
