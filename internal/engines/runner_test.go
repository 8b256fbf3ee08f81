package engines

import (
	"testing"
	"time"

	"github.com/TayDa64/LikuBuddy/internal/snapshot"
)

func runnerSnap(rs *snapshot.RunnerState) *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Timestamp: time.Now(),
		PID:       4321,
		Live:      true,
		Screen:    "minigame_runner",
		Runner:    rs,
	}
}

// fixedClock returns a now func pinned to a settable instant.
type fixedClock struct{ t time.Time }

func (c *fixedClock) now() time.Time          { return c.t }
func (c *fixedClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestRunner() (*RunnerEngine, *fixedClock) {
	clock := &fixedClock{t: time.Unix(1000, 0)}
	e := NewRunnerEngineWith(DefaultRunnerConfig())
	e.now = clock.now
	return e, clock
}

func TestRunnerLifecycleOverrides(t *testing.T) {
	cases := []struct {
		phase  snapshot.Phase
		action Action
	}{
		{snapshot.PhaseNotStarted, ActionStart},
		{snapshot.PhaseEnded, ActionRestart},
		{snapshot.PhaseCountdown, ActionWait},
	}
	for _, tc := range cases {
		e, _ := newTestRunner()
		// A nearby obstacle must not outrank the lifecycle phase.
		dec := e.Decide(runnerSnap(&snapshot.RunnerState{Phase: tc.phase, ObstacleDistance: 3}))
		if dec.Action != tc.action {
			t.Errorf("phase %q: expected action %q, got %q (%s)", tc.phase, tc.action, dec.Action, dec.Reason)
		}
		if dec.Confidence != 1.0 {
			t.Errorf("phase %q: expected confidence 1.0, got %v", tc.phase, dec.Confidence)
		}
	}
}

func TestRunnerStartScenario(t *testing.T) {
	e, _ := newTestRunner()
	dec := e.Decide(runnerSnap(&snapshot.RunnerState{Phase: snapshot.PhaseNotStarted}))
	if dec.Action != ActionStart || dec.Confidence != 1.0 {
		t.Fatalf("expected start at confidence 1.0, got %+v", dec)
	}
}

func TestRunnerJumpsInWindow(t *testing.T) {
	e, _ := newTestRunner()
	dec := e.Decide(runnerSnap(&snapshot.RunnerState{
		Phase:             snapshot.PhaseRunning,
		ObstacleDistance:  4,
		ObstacleType:      "cactus",
		ObstacleElevation: "ground",
	}))
	if dec.Action != ActionPrimary {
		t.Fatalf("expected jump, got %q (%s)", dec.Action, dec.Reason)
	}
	if dec.Confidence < 0.9 {
		t.Errorf("expected confidence >= 0.9, got %v", dec.Confidence)
	}
	if e.lastAction.IsZero() {
		t.Error("jump must arm the cooldown timestamp")
	}
}

func TestRunnerWaitsBeyondWindow(t *testing.T) {
	e, _ := newTestRunner()
	dec := e.Decide(runnerSnap(&snapshot.RunnerState{
		Phase:            snapshot.PhaseRunning,
		ObstacleDistance: 12,
		ObstacleType:     "cactus",
	}))
	if dec.Action != ActionWait {
		t.Fatalf("expected wait, got %q (%s)", dec.Action, dec.Reason)
	}
	if dec.Confidence > 0.8 {
		t.Errorf("expected confidence <= 0.8, got %v", dec.Confidence)
	}
	if !e.lastAction.IsZero() {
		t.Error("wait must not arm the cooldown timestamp")
	}
}

func TestRunnerCooldownSingleFire(t *testing.T) {
	e, clock := newTestRunner()
	snap := runnerSnap(&snapshot.RunnerState{
		Phase:             snapshot.PhaseRunning,
		ObstacleDistance:  4,
		ObstacleElevation: "ground",
	})

	first := e.Decide(snap)
	if first.Action != ActionPrimary {
		t.Fatalf("first decision should jump, got %q", first.Action)
	}

	clock.advance(100 * time.Millisecond) // inside the 400ms cooldown
	second := e.Decide(snap)
	if second.Action == ActionPrimary {
		t.Fatalf("second decision within cooldown must not jump again (%s)", second.Reason)
	}

	clock.advance(DefaultRunnerConfig().Cooldown)
	third := e.Decide(snap)
	if third.Action != ActionPrimary {
		t.Fatalf("after the cooldown elapsed the engine should jump again, got %q (%s)", third.Action, third.Reason)
	}
}

func TestRunnerWaitsWhileAirborne(t *testing.T) {
	e, _ := newTestRunner()
	dec := e.Decide(runnerSnap(&snapshot.RunnerState{
		Phase:            snapshot.PhaseRunning,
		ObstacleDistance: 4,
		PlayerY:          2.5,
		Airborne:         true,
	}))
	if dec.Action != ActionWait || dec.Reason != "already airborne" {
		t.Fatalf("expected airborne wait, got %+v", dec)
	}
}

func TestRunnerLetsHighObstaclesPass(t *testing.T) {
	for _, rs := range []*snapshot.RunnerState{
		{Phase: snapshot.PhaseRunning, ObstacleDistance: 4, ObstacleType: "bird", ObstacleElevation: "low"},
		{Phase: snapshot.PhaseRunning, ObstacleDistance: 4, ObstacleType: "drone", ObstacleElevation: "high"},
	} {
		e, _ := newTestRunner()
		dec := e.Decide(runnerSnap(rs))
		if dec.Action != ActionWait {
			t.Errorf("type=%s elevation=%s: expected wait, got %q (%s)", rs.ObstacleType, rs.ObstacleElevation, dec.Action, dec.Reason)
		}
	}

	// A bird on the ground still has to be jumped.
	e, _ := newTestRunner()
	dec := e.Decide(runnerSnap(&snapshot.RunnerState{
		Phase: snapshot.PhaseRunning, ObstacleDistance: 4, ObstacleType: "bird", ObstacleElevation: "ground",
	}))
	if dec.Action != ActionPrimary {
		t.Errorf("grounded bird: expected jump, got %q (%s)", dec.Action, dec.Reason)
	}
}

func TestRunnerEmergencyJump(t *testing.T) {
	e, _ := newTestRunner()
	dec := e.Decide(runnerSnap(&snapshot.RunnerState{
		Phase:             snapshot.PhaseRunning,
		ObstacleDistance:  1,
		ObstacleElevation: "ground",
	}))
	if dec.Action != ActionPrimary {
		t.Fatalf("expected emergency jump, got %q (%s)", dec.Action, dec.Reason)
	}
	if dec.Confidence >= 0.9 {
		t.Errorf("emergency jump should carry reduced confidence, got %v", dec.Confidence)
	}
}

func TestRunnerNoObstacle(t *testing.T) {
	e, _ := newTestRunner()
	dec := e.Decide(runnerSnap(&snapshot.RunnerState{Phase: snapshot.PhaseRunning}))
	if dec.Action != ActionWait || dec.Reason != "no obstacle reported" {
		t.Fatalf("expected neutral wait, got %+v", dec)
	}
}

func TestRunnerDeterministicModuloTimestamp(t *testing.T) {
	rs := &snapshot.RunnerState{
		Phase:             snapshot.PhaseRunning,
		ObstacleDistance:  4,
		ObstacleElevation: "ground",
	}
	a := runnerSnap(rs)
	b := runnerSnap(rs)
	b.Timestamp = a.Timestamp.Add(17 * time.Millisecond)

	ea, _ := newTestRunner()
	eb, _ := newTestRunner()
	da := ea.Decide(a)
	db := eb.Decide(b)
	if da.Action != db.Action || da.Reason != db.Reason {
		t.Fatalf("snapshots differing only in timestamp must decide identically: %+v vs %+v", da, db)
	}
}

func TestRunnerMissingState(t *testing.T) {
	e, _ := newTestRunner()
	dec := e.Decide(runnerSnap(nil))
	if dec.Action != ActionWait {
		t.Fatalf("expected wait on missing state, got %+v", dec)
	}
}
