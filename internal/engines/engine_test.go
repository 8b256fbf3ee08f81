package engines

import (
	"testing"

	"github.com/TayDa64/LikuBuddy/internal/snapshot"
)

func TestRegistryResolvesKnownKinds(t *testing.T) {
	for _, kind := range []snapshot.GameKind{snapshot.GameRunner, snapshot.GameSnake, snapshot.GameTicTacToe} {
		e := New(kind)
		if e.Kind() != kind {
			t.Errorf("New(%s) returned engine for %s", kind, e.Kind())
		}
	}
}

func TestRegistryFallsBackToNoop(t *testing.T) {
	e := New(snapshot.GameKind("pinball"))
	dec := e.Decide(&snapshot.Snapshot{PID: 1, Live: true, Screen: "minigame_pinball"})
	if dec.Action != ActionNone {
		t.Fatalf("unknown game must decide no-op, got %+v", dec)
	}
	if dec.Reason == "" {
		t.Error("even a no-op decision needs a reason")
	}
}

func TestRegistryReturnsFreshInstances(t *testing.T) {
	a := New(snapshot.GameRunner)
	b := New(snapshot.GameRunner)
	if a == b {
		t.Fatal("engines must not share cooldown state across runs")
	}
}

func TestActionAffirmative(t *testing.T) {
	affirmative := []Action{ActionPrimary, ActionUp, ActionDown, ActionLeft, ActionRight, ActionPress, ActionStart, ActionRestart}
	for _, a := range affirmative {
		if !a.Affirmative() {
			t.Errorf("%q should be affirmative", a)
		}
	}
	for _, a := range []Action{ActionWait, ActionNone, Action("")} {
		if a.Affirmative() {
			t.Errorf("%q should not be affirmative", a)
		}
	}
}
