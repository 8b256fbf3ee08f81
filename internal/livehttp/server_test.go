package livehttp

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/TayDa64/LikuBuddy/internal/control"
	"github.com/TayDa64/LikuBuddy/internal/engines"
	"github.com/TayDa64/LikuBuddy/internal/statstore"
)

type fakeProvider struct {
	state control.State
	stats control.RunStatistics
}

func (f *fakeProvider) State() control.State         { return f.state }
func (f *fakeProvider) Stats() control.RunStatistics { return f.stats }

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		state: control.StateRunning,
		stats: control.RunStatistics{
			RunID:       "run-1",
			Game:        "runner",
			Cycles:      42,
			ActionsSent: 7,
			ActionCounts: map[engines.Action]int{
				engines.ActionPrimary: 7,
				engines.ActionWait:    35,
			},
			TotalLatency: 42 * time.Millisecond,
			MaxLatency:   3 * time.Millisecond,
			LastScore:    128,
			StartedAt:    time.Now(),
		},
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv := New(newFakeProvider(), nil, 0)

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/status", nil))

	require.Equal(t, 200, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, control.StateRunning, resp.State)
	require.Equal(t, "run-1", resp.Stats.RunID)
	require.Equal(t, 42, resp.Stats.Cycles)
	require.Equal(t, 7, resp.Stats.ActionsSent)
	require.Equal(t, 128, resp.Stats.LastScore)
	require.Equal(t, int64(1000), resp.Stats.AvgLatencyUs)
	require.Equal(t, 7, resp.Stats.Decisions["primary"])
}

func TestRunsWithoutStore(t *testing.T) {
	srv := New(newFakeProvider(), nil, 0)

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/runs", nil))
	require.Equal(t, 404, rec.Code)

	rec = httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/leaderboard", nil))
	require.Equal(t, 404, rec.Code)
}

func TestRunsAndLeaderboard(t *testing.T) {
	db, err := statstore.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate())

	now := time.Now().UTC()
	require.NoError(t, db.SaveRun(&statstore.Run{
		ID: "a", Game: "runner", Cycles: 10, ActionsSent: 3,
		LastScore: 50, StopReason: "max cycles reached",
		StartedAt: now.Add(-time.Minute), EndedAt: now,
	}))
	require.NoError(t, db.SaveRun(&statstore.Run{
		ID: "b", Game: "snake", Cycles: 20, ActionsSent: 9,
		LastScore: 90, StopReason: "stop requested",
		StartedAt: now, EndedAt: now.Add(time.Minute),
	}))

	srv := New(newFakeProvider(), db, 0)

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/runs", nil))
	require.Equal(t, 200, rec.Code)

	var runs []statstore.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 2)
	require.Equal(t, "b", runs[0].ID)

	rec = httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/leaderboard?game=snake", nil))
	require.Equal(t, 200, rec.Code)

	var entries []statstore.LeaderboardEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	require.Equal(t, 90, entries[0].Score)
}

func TestQueryIntFallback(t *testing.T) {
	r := httptest.NewRequest("GET", "/runs?limit=abc", nil)
	require.Equal(t, 50, queryInt(r, "limit", 50))

	r = httptest.NewRequest("GET", "/runs?limit=-5", nil)
	require.Equal(t, 50, queryInt(r, "limit", 50))

	r = httptest.NewRequest("GET", "/runs?limit=3", nil)
	require.Equal(t, 3, queryInt(r, "limit", 3))
}
