package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/TayDa64/LikuBuddy/internal/engines"
	"github.com/TayDa64/LikuBuddy/internal/snapshot"
)

// Engine adapts a user JavaScript policy to the engines.Engine
// interface. The script defines decide(state) and returns an object
// like {action: "primary", key: "", confidence: 0.9, reason: "..."}.
// Script failures degrade to a wait decision; a broken policy must
// never take the control loop down.
type Engine struct {
	name string
	vm   *VM
}

// Load reads and compiles a policy script from disk.
func Load(path string) (*Engine, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scripting: read policy: %w", err)
	}

	vm := NewVM()
	if err := vm.Execute(string(source)); err != nil {
		return nil, fmt.Errorf("scripting: load policy %s: %w", filepath.Base(path), err)
	}

	// Fail fast on a script that never defined decide(): calling it
	// once with an empty state surfaces the error before the loop runs.
	if _, err := vm.CallDecide(map[string]any{}); err != nil && strings.Contains(err.Error(), "not defined") {
		return nil, fmt.Errorf("scripting: policy %s: %w", filepath.Base(path), err)
	}

	return &Engine{
		name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		vm:   vm,
	}, nil
}

func (e *Engine) Name() string { return "script:" + e.name }

// Kind is GameUnknown because a scripted policy is not bound to one
// game; the loop routes every detected game through it when selected.
func (e *Engine) Kind() snapshot.GameKind { return snapshot.GameUnknown }

// Logs exposes the script's buffered log output.
func (e *Engine) Logs() []LogEntry { return e.vm.Logs() }

func (e *Engine) Decide(snap *snapshot.Snapshot) engines.Decision {
	result, err := e.vm.CallDecide(stateObject(snap))
	if err != nil {
		return engines.Decision{
			Action:     engines.ActionWait,
			Confidence: 0,
			Reason:     fmt.Sprintf("script error: %v", err),
		}
	}
	return decisionFromValue(result)
}

// stateObject flattens a snapshot into the plain object shape the
// script sees.
func stateObject(snap *snapshot.Snapshot) map[string]any {
	state := map[string]any{
		"pid":    snap.PID,
		"live":   snap.Live,
		"screen": snap.Screen,
		"status": snap.Status,
		"score":  snap.Score,
		"game":   string(snap.Game()),
	}
	if rs := snap.Runner; rs != nil {
		state["runner"] = map[string]any{
			"obstacleDistance":  rs.ObstacleDistance,
			"obstacleType":      rs.ObstacleType,
			"obstacleElevation": rs.ObstacleElevation,
			"playerY":           rs.PlayerY,
			"playerVY":          rs.PlayerVY,
			"airborne":          rs.Airborne,
			"phase":             string(rs.Phase),
		}
	}
	if ss := snap.Snake; ss != nil {
		state["snake"] = map[string]any{
			"headX":     ss.HeadX,
			"headY":     ss.HeadY,
			"foodX":     ss.FoodX,
			"foodY":     ss.FoodY,
			"direction": ss.Direction,
			"phase":     string(ss.Phase),
		}
	}
	if bs := snap.Board; bs != nil {
		state["board"] = map[string]any{
			"cells":  bs.Cells,
			"turn":   bs.Turn,
			"marker": bs.Marker,
			"phase":  string(bs.Phase),
		}
	}
	return state
}

var validActions = map[engines.Action]bool{
	engines.ActionPrimary: true,
	engines.ActionUp:      true,
	engines.ActionDown:    true,
	engines.ActionLeft:    true,
	engines.ActionRight:   true,
	engines.ActionPress:   true,
	engines.ActionStart:   true,
	engines.ActionRestart: true,
	engines.ActionWait:    true,
	engines.ActionNone:    true,
}

// decisionFromValue coerces the script's return value into a Decision,
// defaulting any missing or malformed piece to a safe wait.
func decisionFromValue(v interface{ Export() any }) engines.Decision {
	obj, ok := v.Export().(map[string]any)
	if !ok {
		return engines.Decision{
			Action:     engines.ActionWait,
			Confidence: 0,
			Reason:     "script returned a non-object decision",
		}
	}

	dec := engines.Decision{
		Action: engines.ActionWait,
		Reason: "script gave no reason",
	}
	if a, ok := obj["action"].(string); ok && validActions[engines.Action(a)] {
		dec.Action = engines.Action(a)
	}
	if k, ok := obj["key"].(string); ok {
		dec.Key = k
	}
	switch c := obj["confidence"].(type) {
	case float64:
		dec.Confidence = c
	case int64:
		dec.Confidence = float64(c)
	}
	if r, ok := obj["reason"].(string); ok && r != "" {
		dec.Reason = r
	}
	return dec
}
