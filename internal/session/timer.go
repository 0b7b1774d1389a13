package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/claude/emberfit/internal/state"
)

// Timer tracks elapsed workout time and checkpoints it through the store:
// the start time and running flag are persisted, so a process killed
// mid-workout reconstructs elapsed time from the wall clock on relaunch
// instead of trusting a possibly stale counter.
type Timer struct {
	store state.Store
	log   *slog.Logger
	now   func() time.Time

	mu      sync.Mutex
	running bool
	elapsed int
	cancel  chan struct{}
}

func newTimer(store state.Store, log *slog.Logger, now func() time.Time) *Timer {
	return &Timer{store: store, log: log, now: now}
}

// Restore picks up the checkpoint left by a previous process. If the timer
// was running when the process died, elapsed time is recomputed from the
// persisted start time and ticking resumes; otherwise the persisted
// counter is used as-is.
func (t *Timer) Restore() {
	t.mu.Lock()
	defer t.mu.Unlock()

	running, _ := state.GetBool(t.store, state.KeyTimerRunning)
	if !running {
		t.elapsed, _ = state.GetInt(t.store, state.KeyElapsedSeconds)
		return
	}
	if start, ok := state.GetTime(t.store, state.KeyStartTime); ok {
		if d := t.now().Sub(start); d > 0 {
			t.elapsed = int(d.Seconds())
		}
	} else {
		t.elapsed, _ = state.GetInt(t.store, state.KeyElapsedSeconds)
	}
	t.log.Info("resumed workout timer", "elapsed", t.elapsed)
	t.startLocked()
}

// Start begins (or resumes) ticking. Starting a running timer is a no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.startLocked()
}

func (t *Timer) startLocked() {
	// Anchor the start time so wall-clock reconstruction includes any
	// already accumulated seconds.
	start := t.now().Add(-time.Duration(t.elapsed) * time.Second)
	state.SetTime(t.store, state.KeyStartTime, start)
	state.SetBool(t.store, state.KeyTimerRunning, true)
	state.SetBool(t.store, state.KeyWasStarted, true)

	t.running = true
	cancel := make(chan struct{})
	t.cancel = cancel

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-cancel:
				return
			case <-ticker.C:
				t.mu.Lock()
				if t.running {
					t.elapsed++
					state.SetInt(t.store, state.KeyElapsedSeconds, t.elapsed)
				}
				t.mu.Unlock()
			}
		}
	}()
}

// Stop halts ticking and checkpoints the counter. Stopping an already
// stopped timer is a no-op, not an error.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.running = false
	close(t.cancel)
	t.cancel = nil
	state.SetBool(t.store, state.KeyTimerRunning, false)
	state.SetInt(t.store, state.KeyElapsedSeconds, t.elapsed)
}

// Elapsed is the current elapsed seconds.
func (t *Timer) Elapsed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsed
}

// WasStarted reports whether a workout was ever started since the last
// reset.
func (t *Timer) WasStarted() bool {
	started, ok := state.GetBool(t.store, state.KeyWasStarted)
	return ok && started
}

// Reset stops the timer and clears the checkpoint.
func (t *Timer) Reset() {
	t.Stop()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.elapsed = 0
	t.store.Remove(state.KeyStartTime)
	t.store.Remove(state.KeyElapsedSeconds)
	t.store.Remove(state.KeyTimerRunning)
	t.store.Remove(state.KeyWasStarted)
}
