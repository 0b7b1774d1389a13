package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/claude/emberfit/internal/program"
	"github.com/claude/emberfit/internal/session"
	"github.com/claude/emberfit/internal/state"
	"github.com/mark3labs/mcp-go/mcp"
)

const testProgram = `{
  "Week 1": {
    "Day A": {"Focus": "Push", "Description": "Chest day", "Exercises": [
      {"title": "Bench Press", "sets": 3, "reps": 8}
    ]}
  }
}`

type staticSource struct {
	data string
}

func (s staticSource) Load() (*program.Program, error) {
	return program.Parse([]byte(s.data))
}

type failingSource struct{}

func (failingSource) Load() (*program.Program, error) {
	return nil, errors.New("definition missing")
}

func newTestHandlers(t *testing.T, src program.Source) *handlers {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	sess := session.New(state.NewMemory(), src, nil, "me", log)
	sess.Activate()
	return &handlers{sess: sess, log: log}
}

// TestNewRegistersServer verifies a server can be constructed over a live
// session.
func TestNewRegistersServer(t *testing.T) {
	h := newTestHandlers(t, staticSource{data: testProgram})
	if s := New(h.sess, "test", h.log); s == nil {
		t.Fatal("New returned nil server")
	}
}

// TestCurrentDaySummary verifies the summary exposes the day under the
// cursor with its exercise state.
func TestCurrentDaySummary(t *testing.T) {
	h := newTestHandlers(t, staticSource{data: testProgram})

	summary, err := h.currentDaySummary()
	if err != nil {
		t.Fatalf("currentDaySummary: %v", err)
	}
	if summary["week"] != "Week 1" || summary["day"] != "Day A" {
		t.Errorf("summary position = %v/%v, want Week 1/Day A", summary["week"], summary["day"])
	}
	if summary["focus"] != "Push" {
		t.Errorf("focus = %v, want Push", summary["focus"])
	}
}

// TestCurrentDaySummaryNoCatalog verifies a failed catalog load surfaces
// as an error instead of an empty summary.
func TestCurrentDaySummaryNoCatalog(t *testing.T) {
	h := newTestHandlers(t, failingSource{})

	if _, err := h.currentDaySummary(); err == nil {
		t.Fatal("currentDaySummary: want error with no catalog")
	}
}

// TestGetCurrentDayTool verifies the tool handler returns a non-error
// result for a loaded catalog.
func TestGetCurrentDayTool(t *testing.T) {
	h := newTestHandlers(t, staticSource{data: testProgram})

	res, err := h.getCurrentDay(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("getCurrentDay: %v", err)
	}
	if res.IsError {
		t.Fatalf("getCurrentDay returned tool error: %+v", res)
	}
}

// TestGetProgressStatsEmpty verifies the stats handler works with empty
// history.
func TestGetProgressStatsEmpty(t *testing.T) {
	h := newTestHandlers(t, staticSource{data: testProgram})

	res, err := h.getProgressStats(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("getProgressStats: %v", err)
	}
	if res.IsError {
		t.Fatalf("getProgressStats returned tool error: %+v", res)
	}
}
