// Package livehttp serves the current run's statistics over a
// loopback-only HTTP endpoint, so a browser or script can watch a
// long-running session without attaching to its terminal.
package livehttp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/TayDa64/LikuBuddy/internal/control"
	"github.com/TayDa64/LikuBuddy/internal/statstore"
)

// StatusProvider exposes the pieces of the control loop the endpoint
// reads. Satisfied by *control.Loop.
type StatusProvider interface {
	State() control.State
	Stats() control.RunStatistics
}

// Server runs the local status API.
type Server struct {
	provider   StatusProvider
	store      statstore.DB // optional; /runs 404s when nil
	addr       string
	httpServer *http.Server
	logger     *log.Logger
}

// New creates a status server bound to loopback at the given port.
func New(provider StatusProvider, store statstore.DB, port int) *Server {
	return &Server{
		provider: provider,
		store:    store,
		addr:     fmt.Sprintf("127.0.0.1:%d", port),
		logger:   log.New(os.Stderr, "[HTTP] ", log.LstdFlags),
	}
}

// Routes sets up the HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/status", s.handleStatus)
	r.Get("/runs", s.handleRuns)
	r.Get("/leaderboard", s.handleLeaderboard)

	return r
}

// Start begins listening in a goroutine. It returns when the socket is
// bound, so callers know the port is usable.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("livehttp: listen on %s: %w", s.addr, err)
	}

	s.httpServer = &http.Server{
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Printf("serve error: %v", err)
		}
	}()

	s.logger.Printf("listening on http://%s", s.addr)
	return nil
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// statusResponse is the JSON shape of GET /status.
type statusResponse struct {
	State control.State `json:"state"`
	Stats statsJSON     `json:"stats"`
}

type statsJSON struct {
	RunID        string         `json:"run_id"`
	Game         string         `json:"game"`
	Cycles       int            `json:"cycles"`
	ActionsSent  int            `json:"actions_sent"`
	AvgLatencyUs int64          `json:"avg_latency_us"`
	MaxLatencyUs int64          `json:"max_latency_us"`
	LastScore    int            `json:"last_score"`
	StartedAt    time.Time      `json:"started_at"`
	Decisions    map[string]int `json:"decisions"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.provider.Stats()

	decisions := make(map[string]int, len(stats.ActionCounts))
	for a, n := range stats.ActionCounts {
		decisions[string(a)] = n
	}

	writeJSON(w, http.StatusOK, statusResponse{
		State: s.provider.State(),
		Stats: statsJSON{
			RunID:        stats.RunID,
			Game:         stats.Game,
			Cycles:       stats.Cycles,
			ActionsSent:  stats.ActionsSent,
			AvgLatencyUs: stats.AverageLatency().Microseconds(),
			MaxLatencyUs: stats.MaxLatency.Microseconds(),
			LastScore:    stats.LastScore,
			StartedAt:    stats.StartedAt,
			Decisions:    decisions,
		},
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "run store not configured", http.StatusNotFound)
		return
	}
	runs, err := s.store.ListRuns(queryInt(r, "limit", 50))
	if err != nil {
		s.logger.Printf("list runs failed: %v", err)
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []statstore.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "run store not configured", http.StatusNotFound)
		return
	}
	entries, err := s.store.Leaderboard(r.URL.Query().Get("game"), queryInt(r, "limit", 10))
	if err != nil {
		s.logger.Printf("leaderboard failed: %v", err)
		http.Error(w, "failed to query leaderboard", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []statstore.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func queryInt(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
