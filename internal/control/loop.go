package control

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/TayDa64/LikuBuddy/internal/engines"
	"github.com/TayDa64/LikuBuddy/internal/input"
	"github.com/TayDa64/LikuBuddy/internal/snapshot"
)

// State is the loop's lifecycle state.
type State string

const (
	StateInit       State = "init"
	StateValidating State = "validating"
	StateRunning    State = "running"
	StateStopping   State = "stopping"
	StateTerminated State = "terminated"
)

// Source produces snapshots. Satisfied by *snapshot.Parser; tests
// substitute fakes.
type Source interface {
	Parse(force bool) (*snapshot.Snapshot, error)
}

// Sender delivers keys. Satisfied by *input.Injector.
type Sender interface {
	Send(key input.Key) bool
	SetTargetID(id string)
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger replaces the default loop logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loop) { l.logger = logger }
}

// WithEngine forces one engine for every cycle regardless of the
// detected game, e.g. a scripted policy.
func WithEngine(e engines.Engine) Option {
	return func(l *Loop) { l.forced = e }
}

// Loop drives the observe-decide-inject cycle. One logical thread of
// control: parse strictly precedes decide, decide strictly precedes
// inject, and cycle n finishes before cycle n+1 starts. The mutex only
// guards the statistics against concurrent readers (the status
// endpoint); the cycle itself never runs concurrently with itself.
type Loop struct {
	cfg    Config
	src    Source
	sender Sender
	logger *log.Logger

	forced engines.Engine
	byKind map[snapshot.GameKind]engines.Engine

	mu    sync.Mutex
	state State
	stats *RunStatistics
}

// New creates a loop. The configuration is validated here so flag
// mistakes surface before anything touches the game.
func New(cfg Config, src Source, sender Sender, opts ...Option) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := &Loop{
		cfg:    cfg,
		src:    src,
		sender: sender,
		logger: log.New(os.Stderr, "[LOOP] ", log.LstdFlags),
		byKind: make(map[snapshot.GameKind]engines.Engine),
		state:  StateInit,
	}
	for _, o := range opts {
		o(l)
	}
	return l, nil
}

// State returns the current lifecycle state.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Stats returns a copy of the current statistics, safe for concurrent
// readers such as the status endpoint.
func (l *Loop) Stats() RunStatistics {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stats == nil {
		return RunStatistics{}
	}
	return l.stats.Clone()
}

func (l *Loop) setState(s State) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

// Run validates the target once, then polls until a stop condition is
// met. The accumulated statistics are returned on every path, including
// validation failure: termination ends execution, not data collection.
func (l *Loop) Run(ctx context.Context) (*RunStatistics, error) {
	l.mu.Lock()
	l.stats = newRunStatistics(l.cfg.Game)
	l.state = StateValidating
	l.mu.Unlock()

	snap, err := l.validate(ctx)
	if err != nil {
		return l.finish(fmt.Sprintf("validation failed: %v", err)), err
	}

	l.sender.SetTargetID(input.TargetToken(snap.PID))
	l.logger.Printf("validated pid=%d screen=%q game=%s", snap.PID, snap.Screen, snap.Game())
	l.setState(StateRunning)

	reason := l.poll(ctx)
	l.setState(StateStopping)
	return l.finish(reason), nil
}

// validate performs the initial forced parse, retrying a few times with
// constant backoff in case the game is still starting up. A dead or
// unreachable target is a start-up failure, never a polling loop
// against nothing.
func (l *Loop) validate(ctx context.Context) (*snapshot.Snapshot, error) {
	var snap *snapshot.Snapshot
	backoff := retry.WithMaxRetries(3, retry.NewConstant(l.cfg.PollInterval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		s, err := l.src.Parse(true)
		if err != nil {
			return retry.RetryableError(err)
		}
		if s.PID == 0 {
			return retry.RetryableError(fmt.Errorf("no process id in snapshot"))
		}
		snap = s
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotUnreadable, err)
	}
	if !snap.Live {
		return nil, fmt.Errorf("%w: pid %d", ErrTargetNotLive, snap.PID)
	}
	return snap, nil
}

// poll is the RUNNING state. It returns the stop reason.
func (l *Loop) poll(ctx context.Context) string {
	failures := 0

	for {
		select {
		case <-ctx.Done():
			return "stop requested"
		default:
		}

		if l.cfg.MaxCycles > 0 && l.stats.Cycles >= l.cfg.MaxCycles {
			return fmt.Sprintf("max cycles reached (%d)", l.cfg.MaxCycles)
		}

		cycleStart := time.Now()

		snap, err := l.src.Parse(true)
		if err != nil || snap == nil || snap.PID == 0 {
			failures++
			if failures >= l.cfg.FailureThreshold {
				return fmt.Sprintf("target lost: %d consecutive unreadable snapshots", failures)
			}
			if l.cfg.Verbose {
				l.logger.Printf("unreadable snapshot (%d/%d) err=%v", failures, l.cfg.FailureThreshold, err)
			}
			l.pace(ctx, cycleStart)
			continue
		}
		failures = 0

		if !snap.Live {
			return fmt.Sprintf("target exited (pid %d)", snap.PID)
		}

		dec := l.engineFor(snap).Decide(snap)
		sent := l.dispatch(dec)

		l.mu.Lock()
		l.stats.recordDecision(dec)
		if sent {
			l.stats.ActionsSent++
		}
		if snap.Score >= 0 {
			l.stats.LastScore = snap.Score
		}
		l.stats.recordCycle(time.Since(cycleStart))
		l.mu.Unlock()

		if l.cfg.Verbose {
			l.logger.Printf("cycle=%d game=%s action=%s confidence=%.2f sent=%t reason=%q",
				l.stats.Cycles, snap.Game(), dec.Action, dec.Confidence, sent, dec.Reason)
		}

		l.pace(ctx, cycleStart)
	}
}

// engineFor resolves the engine for this cycle. Engines are cached per
// kind so cooldown state survives across cycles within one run.
func (l *Loop) engineFor(snap *snapshot.Snapshot) engines.Engine {
	if l.forced != nil {
		return l.forced
	}
	kind := l.cfg.forcedKind()
	if kind == snapshot.GameUnknown {
		kind = snap.Game()
	}
	e, ok := l.byKind[kind]
	if !ok {
		e = engines.New(kind)
		l.byKind[kind] = e
	}
	return e
}

// dispatch translates a non-wait decision into one injector call.
// Injection failure is local: the window may have closed or not yet
// appeared, so the cycle carries on as if the action were a no-op.
func (l *Loop) dispatch(dec engines.Decision) bool {
	if !dec.Action.Affirmative() {
		return false
	}
	key, ok := keyForDecision(dec)
	if !ok {
		return false
	}
	if l.cfg.DryRun {
		l.logger.Printf("dry-run: would send key=%s action=%s reason=%q", key, dec.Action, dec.Reason)
		return false
	}
	return l.sender.Send(key)
}

// pace sleeps for whatever remains of the poll interval after this
// cycle's work, keeping the cadence steady regardless of how long the
// work took.
func (l *Loop) pace(ctx context.Context, cycleStart time.Time) {
	remaining := l.cfg.PollInterval - time.Since(cycleStart)
	if remaining <= 0 {
		return
	}
	select {
	case <-time.After(remaining):
	case <-ctx.Done():
	}
}

// finish closes out the statistics and logs the stop. Termination is a
// normal branch for data collection purposes.
func (l *Loop) finish(reason string) *RunStatistics {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = StateTerminated
	l.stats.StopReason = reason
	l.stats.EndedAt = time.Now()
	l.logger.Printf("terminated reason=%q cycles=%d actions=%d", reason, l.stats.Cycles, l.stats.ActionsSent)
	return l.stats
}

// keyForDecision maps an action to the key the game expects.
func keyForDecision(dec engines.Decision) (input.Key, bool) {
	switch dec.Action {
	case engines.ActionPrimary:
		return input.KeyPrimary, true
	case engines.ActionUp:
		return input.KeyUp, true
	case engines.ActionDown:
		return input.KeyDown, true
	case engines.ActionLeft:
		return input.KeyLeft, true
	case engines.ActionRight:
		return input.KeyRight, true
	case engines.ActionStart:
		return input.KeyConfirm, true
	case engines.ActionRestart:
		return input.Char('r'), true
	case engines.ActionPress:
		if dec.Key == "" {
			return "", false
		}
		return input.Key(dec.Key), true
	}
	return "", false
}
