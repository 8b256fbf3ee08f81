package control

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TayDa64/LikuBuddy/internal/engines"
)

// RunStatistics accumulates operational counters for the lifetime of
// one run. It is created at loop start, mutated every cycle, and handed
// back to the caller on every termination path. Never partially reset.
type RunStatistics struct {
	RunID string
	Game  string

	Cycles       int
	ActionsSent  int
	ActionCounts map[engines.Action]int

	TotalLatency time.Duration
	MaxLatency   time.Duration

	LastScore int

	StartedAt  time.Time
	EndedAt    time.Time
	StopReason string
}

func newRunStatistics(game string) *RunStatistics {
	return &RunStatistics{
		RunID:        uuid.NewString(),
		Game:         game,
		ActionCounts: make(map[engines.Action]int),
		LastScore:    -1,
		StartedAt:    time.Now(),
	}
}

func (s *RunStatistics) recordCycle(latency time.Duration) {
	s.Cycles++
	s.TotalLatency += latency
	if latency > s.MaxLatency {
		s.MaxLatency = latency
	}
}

func (s *RunStatistics) recordDecision(dec engines.Decision) {
	s.ActionCounts[dec.Action]++
}

// AverageLatency is the mean cycle latency so far.
func (s *RunStatistics) AverageLatency() time.Duration {
	if s.Cycles == 0 {
		return 0
	}
	return s.TotalLatency / time.Duration(s.Cycles)
}

// Clone returns a copy safe to hand to another goroutine.
func (s *RunStatistics) Clone() RunStatistics {
	out := *s
	out.ActionCounts = make(map[engines.Action]int, len(s.ActionCounts))
	for k, v := range s.ActionCounts {
		out.ActionCounts[k] = v
	}
	return out
}

// Summary renders the human-readable end-of-run report.
func (s *RunStatistics) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s (%s)\n", s.RunID, s.Game)
	fmt.Fprintf(&b, "  stop reason:   %s\n", s.StopReason)
	fmt.Fprintf(&b, "  cycles:        %d\n", s.Cycles)
	fmt.Fprintf(&b, "  actions sent:  %d\n", s.ActionsSent)
	fmt.Fprintf(&b, "  avg latency:   %v\n", s.AverageLatency().Round(time.Microsecond))
	fmt.Fprintf(&b, "  max latency:   %v\n", s.MaxLatency.Round(time.Microsecond))
	if s.LastScore >= 0 {
		fmt.Fprintf(&b, "  last score:    %d\n", s.LastScore)
	}

	if len(s.ActionCounts) > 0 {
		actions := make([]string, 0, len(s.ActionCounts))
		for a := range s.ActionCounts {
			actions = append(actions, string(a))
		}
		sort.Strings(actions)
		b.WriteString("  decisions:\n")
		for _, a := range actions {
			fmt.Fprintf(&b, "    %-8s %d\n", a, s.ActionCounts[engines.Action(a)])
		}
	}
	return b.String()
}
