package engines

import (
	"testing"
	"time"

	"github.com/TayDa64/LikuBuddy/internal/snapshot"
)

func boardSnap(bs *snapshot.BoardState) *snapshot.Snapshot {
	return &snapshot.Snapshot{
		PID:    4321,
		Live:   true,
		Screen: "minigame_tictactoe",
		Board:  bs,
	}
}

func newTestBoard() (*TicTacToeEngine, *fixedClock) {
	clock := &fixedClock{t: time.Unix(1000, 0)}
	e := NewTicTacToeEngineWith(DefaultTicTacToeConfig())
	e.now = clock.now
	return e, clock
}

func playerBoard(cells string) *snapshot.BoardState {
	return &snapshot.BoardState{
		Cells:  cells,
		Turn:   "player",
		Marker: "X",
		Phase:  snapshot.PhaseRunning,
	}
}

func TestTicTacToeMovePreference(t *testing.T) {
	cases := []struct {
		name   string
		cells  string
		key    string
		reason string
	}{
		{"completes own line", "XX.OO....", "3", "winning move"},
		{"wins instead of blocking", "XX.OO..O.", "3", "winning move"},
		{"blocks opponent line", "OO..X....", "3", "blocking opponent"},
		{"takes center", "X.......O", "5", "taking center"},
		{"takes corner when center gone", ".X..O....", "1", "taking corner"},
		{"takes last free edge cell", "XXOOOXX.O", "8", "taking first free cell"},
	}
	for _, tc := range cases {
		e, _ := newTestBoard()
		dec := e.Decide(boardSnap(playerBoard(tc.cells)))
		if dec.Action != ActionPress {
			t.Errorf("%s: expected press, got %q (%s)", tc.name, dec.Action, dec.Reason)
			continue
		}
		if dec.Key != tc.key {
			t.Errorf("%s: expected key %q, got %q (%s)", tc.name, tc.key, dec.Key, dec.Reason)
		}
		if dec.Reason != tc.reason {
			t.Errorf("%s: expected reason %q, got %q", tc.name, tc.reason, dec.Reason)
		}
	}
}

func TestTicTacToeWaitsForOpponent(t *testing.T) {
	e, _ := newTestBoard()
	bs := playerBoard("X...O....")
	bs.Turn = "opponent"
	dec := e.Decide(boardSnap(bs))
	if dec.Action != ActionWait || dec.Reason != "opponent's turn" {
		t.Fatalf("expected wait on opponent turn, got %+v", dec)
	}
}

func TestTicTacToeMoveCooldown(t *testing.T) {
	e, clock := newTestBoard()
	snap := boardSnap(playerBoard("........."))

	first := e.Decide(snap)
	if first.Action != ActionPress {
		t.Fatalf("first decision should move, got %+v", first)
	}

	// The game has not redrawn yet; the same board must not trigger a
	// second keypress immediately.
	clock.advance(50 * time.Millisecond)
	second := e.Decide(snap)
	if second.Action == ActionPress {
		t.Fatalf("move within cooldown must wait, got %+v", second)
	}
}

func TestTicTacToeIncompleteBoard(t *testing.T) {
	e, _ := newTestBoard()
	dec := e.Decide(boardSnap(playerBoard("XO..")))
	if dec.Action != ActionWait {
		t.Fatalf("expected wait on truncated board, got %+v", dec)
	}
}

func TestTicTacToeAsO(t *testing.T) {
	e, _ := newTestBoard()
	bs := playerBoard("XX.OO....")
	bs.Marker = "O"
	dec := e.Decide(boardSnap(bs))
	if dec.Key != "6" || dec.Reason != "winning move" {
		t.Fatalf("as O, expected winning move at cell 6, got %+v", dec)
	}
}

func TestTicTacToeLifecycle(t *testing.T) {
	e, _ := newTestBoard()
	bs := playerBoard("XXXOO....")
	bs.Phase = snapshot.PhaseEnded
	dec := e.Decide(boardSnap(bs))
	if dec.Action != ActionRestart {
		t.Fatalf("expected restart after game over, got %+v", dec)
	}
}
