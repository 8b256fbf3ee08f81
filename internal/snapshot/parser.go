package snapshot

import (
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Parser reads the state file the monitored game rewrites on every
// internal update and turns it into typed Snapshots. The file is
// re-parsed only when its modification time advances, unless the caller
// forces a refresh.
type Parser struct {
	path    string
	logger  *log.Logger
	verbose bool

	lastMod time.Time
	cached  *Snapshot
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithVerbose enables per-parse logging.
func WithVerbose(v bool) ParserOption {
	return func(p *Parser) { p.verbose = v }
}

// NewParser creates a parser for the given state file path.
func NewParser(path string, opts ...ParserOption) *Parser {
	p := &Parser{
		path:   path,
		logger: log.New(os.Stderr, "[PARSER] ", log.LstdFlags),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Parse reads and parses the state file. A nil snapshot with a non-nil
// error means the file could not be read at all; a snapshot with PID 0
// means the file was read but the process identifier could not be
// located, so every game field is left unset. When force is false and
// the file has not changed since the last successful read, the cached
// snapshot is returned without touching the file contents.
func (p *Parser) Parse(force bool) (*Snapshot, error) {
	info, err := os.Stat(p.path)
	if err != nil {
		return nil, err
	}

	if !force && p.cached != nil && !info.ModTime().After(p.lastMod) {
		return p.cached, nil
	}

	raw, err := os.ReadFile(p.path)
	if err != nil {
		return nil, err
	}

	snap := parseText(string(raw))
	if p.verbose {
		p.logger.Printf("parsed pid=%d live=%t screen=%q game=%s", snap.PID, snap.Live, snap.Screen, snap.Game())
	}

	p.lastMod = info.ModTime()
	p.cached = snap
	return snap, nil
}

var scoreRe = regexp.MustCompile(`(?i)score[=:\s]+(\d+)`)

// parseText turns one raw state dump into a Snapshot. The format is
// line-oriented "LABEL: value" with no guaranteed field order; the
// writer on the other side is best-effort and may be mid-write, so
// every field except PID is optional.
func parseText(raw string) *Snapshot {
	fields := splitFields(raw)

	snap := &Snapshot{
		Timestamp: time.Now(),
		Score:     -1,
		Raw:       raw,
	}

	pid, err := strconv.Atoi(strings.TrimSpace(fields["PID"]))
	if err != nil || pid <= 0 {
		// Without a process identifier the whole dump is unreliable.
		return snap
	}
	snap.PID = pid
	snap.Live = ProcessAlive(pid)
	snap.Screen = fields["SCREEN"]
	snap.Status = fields["STATUS"]
	snap.Score = parseScore(fields)

	switch detectGame(snap.Screen) {
	case GameRunner:
		snap.Runner = parseRunner(fields)
	case GameSnake:
		snap.Snake = parseSnake(fields)
	case GameTicTacToe:
		snap.Board = parseBoard(fields)
	}

	return snap
}

// splitFields parses "LABEL: value" lines into a map. Lines without a
// colon are ignored, including a possibly truncated trailing line.
func splitFields(raw string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields[strings.ToUpper(strings.TrimSpace(label))] = strings.TrimSpace(value)
	}
	return fields
}

// detectGame classifies the screen name by substring match.
func detectGame(screen string) GameKind {
	s := strings.ToLower(screen)
	switch {
	case strings.Contains(s, "runner"):
		return GameRunner
	case strings.Contains(s, "snake"):
		return GameSnake
	case strings.Contains(s, "tictactoe"), strings.Contains(s, "tic-tac-toe"):
		return GameTicTacToe
	default:
		return GameUnknown
	}
}

func parseScore(fields map[string]string) int {
	if v, ok := fields["SCORE"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	if m := scoreRe.FindStringSubmatch(fields["STATUS"]); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return -1
}

func parseRunner(fields map[string]string) *RunnerState {
	rs := &RunnerState{
		ObstacleDistance:  floatField(fields, "OBSTACLE_DISTANCE"),
		ObstacleType:      strings.ToLower(fields["OBSTACLE_TYPE"]),
		ObstacleElevation: strings.ToLower(fields["OBSTACLE_ELEVATION"]),
		PlayerY:           floatField(fields, "PLAYER_Y"),
		PlayerVY:          floatField(fields, "PLAYER_VY"),
		Phase:             parsePhase(fields["PHASE"]),
	}
	rs.Airborne = rs.PlayerY > 0
	return rs
}

func parseSnake(fields map[string]string) *SnakeState {
	return &SnakeState{
		HeadX:     intField(fields, "HEAD_X"),
		HeadY:     intField(fields, "HEAD_Y"),
		FoodX:     intField(fields, "FOOD_X"),
		FoodY:     intField(fields, "FOOD_Y"),
		Direction: strings.ToLower(fields["DIRECTION"]),
		Phase:     parsePhase(fields["PHASE"]),
	}
}

func parseBoard(fields map[string]string) *BoardState {
	marker := strings.ToUpper(fields["MARKER"])
	if marker != "X" && marker != "O" {
		marker = "X"
	}
	return &BoardState{
		Cells:  strings.ToUpper(fields["BOARD"]),
		Turn:   strings.ToLower(fields["TURN"]),
		Marker: marker,
		Phase:  parsePhase(fields["PHASE"]),
	}
}

func parsePhase(v string) Phase {
	switch strings.ToLower(strings.ReplaceAll(v, "-", "_")) {
	case "not_started", "notstarted", "idle":
		return PhaseNotStarted
	case "countdown", "starting":
		return PhaseCountdown
	case "running", "playing":
		return PhaseRunning
	case "ended", "game_over", "gameover", "dead":
		return PhaseEnded
	default:
		return PhaseUnknown
	}
}

// floatField returns the parsed value or zero; the emitter may have
// been interrupted mid-write, so a garbled number is treated as absent.
func floatField(fields map[string]string, label string) float64 {
	f, err := strconv.ParseFloat(fields[label], 64)
	if err != nil {
		return 0
	}
	return f
}

func intField(fields map[string]string, label string) int {
	n, err := strconv.Atoi(fields[label])
	if err != nil {
		return 0
	}
	return n
}
