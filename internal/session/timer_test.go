package session

import (
	"testing"
	"time"

	"github.com/claude/emberfit/internal/state"
)

func newTestTimer(store state.Store, now time.Time) *Timer {
	return newTimer(store, discard(), func() time.Time { return now })
}

// TestTimerRestoreFromWallClock verifies a timer that was running when the
// process died reconstructs elapsed time from the persisted start time,
// not from the possibly stale counter.
func TestTimerRestoreFromWallClock(t *testing.T) {
	store := state.NewMemory()
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	state.SetBool(store, state.KeyTimerRunning, true)
	state.SetBool(store, state.KeyWasStarted, true)
	state.SetTime(store, state.KeyStartTime, now.Add(-90*time.Second))
	state.SetInt(store, state.KeyElapsedSeconds, 5) // stale checkpoint

	tm := newTestTimer(store, now)
	tm.Restore()
	defer tm.Stop()

	if got := tm.Elapsed(); got != 90 {
		t.Errorf("Elapsed after restore = %d, want 90", got)
	}
}

// TestTimerRestoreStopped verifies a stopped timer restores the persisted
// counter as-is and does not resume ticking.
func TestTimerRestoreStopped(t *testing.T) {
	store := state.NewMemory()
	state.SetInt(store, state.KeyElapsedSeconds, 42)

	tm := newTestTimer(store, time.Now())
	tm.Restore()

	if got := tm.Elapsed(); got != 42 {
		t.Errorf("Elapsed after restore = %d, want 42", got)
	}
	if running, _ := state.GetBool(store, state.KeyTimerRunning); running {
		t.Error("stopped timer running after restore")
	}
}

// TestTimerStartAnchorsStartTime verifies starting with accumulated
// seconds persists a start time shifted back by that amount.
func TestTimerStartAnchorsStartTime(t *testing.T) {
	store := state.NewMemory()
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	tm := newTestTimer(store, now)
	tm.elapsed = 30
	tm.Start()
	defer tm.Stop()

	start, ok := state.GetTime(store, state.KeyStartTime)
	if !ok {
		t.Fatal("start time not persisted")
	}
	if !start.Equal(now.Add(-30 * time.Second)) {
		t.Errorf("start time = %v, want now-30s", start)
	}
	if !tm.WasStarted() {
		t.Error("WasStarted = false after Start")
	}
}

// TestTimerStopIdempotent verifies stopping twice is safe and checkpoints
// the counter.
func TestTimerStopIdempotent(t *testing.T) {
	store := state.NewMemory()
	tm := newTestTimer(store, time.Now())
	tm.Start()
	tm.Stop()
	tm.Stop()

	if running, _ := state.GetBool(store, state.KeyTimerRunning); running {
		t.Error("running flag still set after Stop")
	}
}

// TestTimerReset verifies Reset clears every checkpoint key.
func TestTimerReset(t *testing.T) {
	store := state.NewMemory()
	tm := newTestTimer(store, time.Now())
	tm.Start()
	tm.Reset()

	for _, key := range []string{
		state.KeyStartTime, state.KeyElapsedSeconds,
		state.KeyTimerRunning, state.KeyWasStarted,
	} {
		if _, ok := store.Get(key); ok {
			t.Errorf("key %q still present after reset", key)
		}
	}
	if tm.Elapsed() != 0 {
		t.Errorf("Elapsed after reset = %d, want 0", tm.Elapsed())
	}
	if tm.WasStarted() {
		t.Error("WasStarted = true after reset")
	}
}
