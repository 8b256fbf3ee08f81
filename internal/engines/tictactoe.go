package engines

import (
	"fmt"
	"time"

	"github.com/TayDa64/LikuBuddy/internal/snapshot"
)

// TicTacToeConfig holds the tunable thresholds of the board policy.
type TicTacToeConfig struct {
	// MoveCooldown keeps the engine from re-sending a cell while the
	// snapshot still shows the pre-move board.
	MoveCooldown time.Duration
}

// DefaultTicTacToeConfig returns thresholds matched to how quickly the
// game redraws after a move.
func DefaultTicTacToeConfig() TicTacToeConfig {
	return TicTacToeConfig{MoveCooldown: 500 * time.Millisecond}
}

// TicTacToeEngine plays the board minigame by pressing the digit key of
// the chosen cell. Move preference: win, block, center, corner, first
// free cell.
type TicTacToeEngine struct {
	cfg        TicTacToeConfig
	lastAction time.Time
	now        func() time.Time
}

// NewTicTacToeEngine creates a board engine with default thresholds.
func NewTicTacToeEngine() Engine {
	return NewTicTacToeEngineWith(DefaultTicTacToeConfig())
}

// NewTicTacToeEngineWith creates a board engine with explicit thresholds.
func NewTicTacToeEngineWith(cfg TicTacToeConfig) *TicTacToeEngine {
	return &TicTacToeEngine{cfg: cfg, now: time.Now}
}

func (e *TicTacToeEngine) Name() string { return "tictactoe" }

func (e *TicTacToeEngine) Kind() snapshot.GameKind { return snapshot.GameTicTacToe }

func (e *TicTacToeEngine) Decide(snap *snapshot.Snapshot) Decision {
	bs := snap.Board
	if bs == nil {
		return Decision{Action: ActionWait, Confidence: 0.1, Reason: "board state missing from snapshot"}
	}

	switch bs.Phase {
	case snapshot.PhaseNotStarted:
		return Decision{Action: ActionStart, Confidence: 1.0, Reason: "game not started"}
	case snapshot.PhaseEnded:
		return Decision{Action: ActionRestart, Confidence: 1.0, Reason: "game over"}
	case snapshot.PhaseCountdown:
		return Decision{Action: ActionWait, Confidence: 1.0, Reason: "countdown in progress"}
	}

	if bs.Turn != "player" {
		return Decision{Action: ActionWait, Confidence: 0.9, Reason: "opponent's turn"}
	}
	if len(bs.Cells) != 9 {
		return Decision{Action: ActionWait, Confidence: 0.2, Reason: "board incomplete in snapshot"}
	}

	if !e.lastAction.IsZero() && e.now().Sub(e.lastAction) < e.cfg.MoveCooldown {
		return Decision{Action: ActionWait, Confidence: 0.6, Reason: "move cooldown active"}
	}

	cell, why, conf := chooseCell(bs.Cells, bs.Marker)
	if cell < 0 {
		return Decision{Action: ActionWait, Confidence: 0.3, Reason: "no free cell"}
	}

	e.lastAction = e.now()
	return Decision{
		Action:     ActionPress,
		Key:        fmt.Sprintf("%d", cell+1),
		Confidence: conf,
		Reason:     why,
	}
}

var boardLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// chooseCell returns the zero-based cell to play, a reason and a
// confidence, or -1 when the board is full.
func chooseCell(cells, marker string) (int, string, float64) {
	opponent := "O"
	if marker == "O" {
		opponent = "X"
	}

	if c := completingCell(cells, marker); c >= 0 {
		return c, "winning move", 1.0
	}
	if c := completingCell(cells, opponent); c >= 0 {
		return c, "blocking opponent", 0.95
	}
	if cells[4] == '.' {
		return 4, "taking center", 0.9
	}
	for _, c := range []int{0, 2, 6, 8} {
		if cells[c] == '.' {
			return c, "taking corner", 0.85
		}
	}
	for c := 0; c < 9; c++ {
		if cells[c] == '.' {
			return c, "taking first free cell", 0.8
		}
	}
	return -1, "", 0
}

// completingCell finds the free cell that completes a line for marker.
func completingCell(cells, marker string) int {
	m := marker[0]
	for _, line := range boardLines {
		free, owned := -1, 0
		for _, c := range line {
			switch cells[c] {
			case m:
				owned++
			case '.':
				free = c
			}
		}
		if owned == 2 && free >= 0 {
			return free
		}
	}
	return -1
}
