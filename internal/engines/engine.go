package engines

import "github.com/TayDa64/LikuBuddy/internal/snapshot"

// Action is the kind of input a decision recommends.
type Action string

const (
	// ActionPrimary triggers the game's primary action (jump, flap, ...).
	ActionPrimary Action = "primary"
	// Directional actions steer navigation games.
	ActionUp    Action = "up"
	ActionDown  Action = "down"
	ActionLeft  Action = "left"
	ActionRight Action = "right"
	// ActionPress sends the explicit key named in Decision.Key.
	ActionPress Action = "press"
	// ActionStart requests that a not-yet-started game begin.
	ActionStart Action = "start"
	// ActionRestart requests a restart after the game ended.
	ActionRestart Action = "restart"
	// ActionWait sends nothing this cycle.
	ActionWait Action = "wait"
	// ActionNone is returned when no engine applies.
	ActionNone Action = "none"
)

// Affirmative reports whether the action results in a key send.
func (a Action) Affirmative() bool {
	switch a {
	case ActionWait, ActionNone, "":
		return false
	}
	return true
}

// Decision is one engine recommendation for one cycle. Confidence is
// advisory only: callers log it but never branch on it. Reason is
// mandatory and distinct per policy branch so that a run log reads as a
// narrative of why each key was or was not sent.
type Decision struct {
	Action     Action
	Key        string
	Confidence float64
	Reason     string
}

// Engine maps a snapshot to a decision. Implementations are pure given
// the snapshot except for a cooldown timestamp: an engine remembers when
// it last acted so favorable conditions do not re-trigger every cycle.
type Engine interface {
	Name() string
	Kind() snapshot.GameKind
	Decide(snap *snapshot.Snapshot) Decision
}

// registry maps game kinds to engine constructors. Constructors rather
// than shared instances: cooldown state belongs to one run, and
// independent runs (or tests) must not interfere with each other.
var registry = make(map[snapshot.GameKind]func() Engine)

// Register adds an engine constructor for a game kind.
func Register(kind snapshot.GameKind, newEngine func() Engine) {
	registry[kind] = newEngine
}

// New returns a fresh engine for the game kind, or the no-op engine
// when the kind is unrecognized.
func New(kind snapshot.GameKind) Engine {
	if f, ok := registry[kind]; ok {
		return f()
	}
	return NewNoopEngine()
}

// Kinds lists the registered game kinds.
func Kinds() []snapshot.GameKind {
	kinds := make([]snapshot.GameKind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	return kinds
}

func init() {
	Register(snapshot.GameRunner, NewRunnerEngine)
	Register(snapshot.GameSnake, NewSnakeEngine)
	Register(snapshot.GameTicTacToe, NewTicTacToeEngine)
}
