package engines

import "github.com/TayDa64/LikuBuddy/internal/snapshot"

// NoopEngine is returned for screens no registered engine understands.
// An unrecognized game is not an error; the loop simply idles on it.
type NoopEngine struct{}

// NewNoopEngine creates the fallback engine.
func NewNoopEngine() Engine {
	return &NoopEngine{}
}

func (e *NoopEngine) Name() string { return "noop" }

func (e *NoopEngine) Kind() snapshot.GameKind { return snapshot.GameUnknown }

func (e *NoopEngine) Decide(snap *snapshot.Snapshot) Decision {
	return Decision{
		Action:     ActionNone,
		Confidence: 0,
		Reason:     "no engine for this screen",
	}
}
