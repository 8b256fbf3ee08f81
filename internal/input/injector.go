package input

import (
	"fmt"
	"log"
	"os"
	"time"
)

// windowQuery describes one attempt to locate the target window.
// Attempts run from most to least precise; the first delivery that
// succeeds wins.
type windowQuery struct {
	title string
	exact bool
}

// platformSender delivers one native keystroke to the first window
// matching the query. Implementations shell out to the host platform's
// input tool and are intentionally best-effort.
type platformSender interface {
	deliver(q windowQuery, key Key) error
}

// Options configures an Injector.
type Options struct {
	// MinInterval is the minimum wall-clock spacing between sends.
	// Calls arriving early sleep until the interval has elapsed.
	MinInterval time.Duration
	// TitleHint is the generic window-title substring to fall back on
	// before the process-name heuristic.
	TitleHint string
	// ProcessName is the last-resort match, typically the game binary
	// name.
	ProcessName string
	Verbose     bool
}

// DefaultOptions returns injector settings matched to the stock game.
func DefaultOptions() Options {
	return Options{
		MinInterval: 50 * time.Millisecond,
		TitleHint:   "LikuBuddy",
		ProcessName: "likubuddy",
	}
}

// Injector sends abstract keys to the monitored game's window. It is
// used from a single goroutine; the lastSend timestamp is plain state
// sequenced by that call pattern, not a shared lock-protected resource.
type Injector struct {
	opts     Options
	sender   platformSender
	targetID string
	lastSend time.Time
	logger   *log.Logger
}

// New creates an injector using the host platform's native sender.
func New(opts Options) (*Injector, error) {
	sender, err := newPlatformSender()
	if err != nil {
		return nil, err
	}
	return newWith(opts, sender), nil
}

func newWith(opts Options, sender platformSender) *Injector {
	if opts.MinInterval <= 0 {
		opts.MinInterval = DefaultOptions().MinInterval
	}
	return &Injector{
		opts:   opts,
		sender: sender,
		logger: log.New(os.Stderr, "[INPUT] ", log.LstdFlags),
	}
}

// SetTargetID installs the precise per-process window-title token once
// the first snapshot has revealed the target pid.
func (in *Injector) SetTargetID(id string) {
	in.targetID = id
}

// TargetToken builds the exact title token the game embeds for a pid.
func TargetToken(pid int) string {
	return fmt.Sprintf("LikuBuddy [pid:%d]", pid)
}

// Send delivers one key to the target window, trying the exact title
// token, the title hint, and the process name in that order. It returns
// false on failure and never panics: a missing window usually means the
// game closed or has not opened yet, which the control loop treats as a
// skipped action, not an error.
func (in *Injector) Send(key Key) bool {
	in.throttle()

	var queries []windowQuery
	if in.targetID != "" {
		queries = append(queries, windowQuery{title: in.targetID, exact: true})
	}
	if in.opts.TitleHint != "" {
		queries = append(queries, windowQuery{title: in.opts.TitleHint})
	}
	if in.opts.ProcessName != "" {
		queries = append(queries, windowQuery{title: in.opts.ProcessName})
	}

	var lastErr error
	for _, q := range queries {
		if err := in.sender.deliver(q, key); err != nil {
			lastErr = err
			continue
		}
		if in.opts.Verbose {
			in.logger.Printf("sent key=%s title=%q exact=%t", key, q.title, q.exact)
		}
		return true
	}

	if lastErr != nil {
		in.logger.Printf("send failed key=%s err=%v", key, lastErr)
	}
	return false
}

// throttle sleeps until MinInterval has passed since the previous send
// attempt, protecting the game from input it cannot drain in time.
func (in *Injector) throttle() {
	if !in.lastSend.IsZero() {
		if wait := in.opts.MinInterval - time.Since(in.lastSend); wait > 0 {
			time.Sleep(wait)
		}
	}
	in.lastSend = time.Now()
}
