// Package history keeps the append-log of completed workout sessions.
// Records are identified positionally-independently by their logical
// (week name, day name) key, which deliberately survives catalog
// reordering where positional completion flags do not.
package history

import (
	"fmt"
	"time"

	"github.com/claude/emberfit/internal/program"
	"github.com/claude/emberfit/internal/state"
	"github.com/google/uuid"
)

// CompletedWorkout is one recorded session: a value snapshot of the day's
// exercises at completion time plus timing and an optional progress photo
// reference attached after upload.
type CompletedWorkout struct {
	ID             uuid.UUID          `json:"id"`
	WeekName       string             `json:"weekName"`
	DayName        string             `json:"dayName"`
	CompletionDate time.Time          `json:"completionDate"`
	Exercises      []program.Exercise `json:"exercises"`
	DurationSec    *int               `json:"durationSec,omitempty"`
	PhotoID        string             `json:"photoID,omitempty"`
}

// CompletedExercises counts the exercises checked off in the snapshot.
func (w CompletedWorkout) CompletedExercises() int {
	n := 0
	for _, e := range w.Exercises {
		if e.IsCompleted {
			n++
		}
	}
	return n
}

// TotalExercises is the snapshot size.
func (w CompletedWorkout) TotalExercises() int {
	return len(w.Exercises)
}

// FormattedDuration renders the session duration as H:MM:SS or M:SS, or
// "--:--" when no duration was recorded.
func (w CompletedWorkout) FormattedDuration() string {
	if w.DurationSec == nil {
		return "--:--"
	}
	sec := *w.DurationSec
	if sec < 0 {
		sec = 0
	}
	h := sec / 3600
	m := (sec % 3600) / 60
	s := sec % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Ledger holds the in-memory copy of the history collection and persists
// the whole collection on every mutation.
type Ledger struct {
	store   state.Store
	records []CompletedWorkout
}

// Open loads the ledger from the store. A corrupt or missing collection
// reads as empty.
func Open(store state.Store) *Ledger {
	l := &Ledger{store: store}
	l.Reload()
	return l
}

// Reload re-reads the persisted collection, discarding the in-memory copy.
// Used on every activation so concurrent engine instances converge on the
// stored state.
func (l *Ledger) Reload() {
	var records []CompletedWorkout
	if state.GetJSON(l.store, state.KeyHistory, &records) {
		l.records = records
		return
	}
	l.records = nil
}

// Append adds a record to the end and persists the collection. Re-completing
// a day appends a new record; duplicates by logical key are allowed.
func (l *Ledger) Append(w CompletedWorkout) error {
	l.records = append(l.records, w)
	return l.persist()
}

// FindByWeekDay returns the first record matching the logical key, in
// insertion order.
func (l *Ledger) FindByWeekDay(weekName, dayName string) (CompletedWorkout, bool) {
	for _, r := range l.records {
		if r.WeekName == weekName && r.DayName == dayName {
			return r, true
		}
	}
	return CompletedWorkout{}, false
}

// MostRecent returns the record with the latest completion date.
func (l *Ledger) MostRecent() (CompletedWorkout, bool) {
	if len(l.records) == 0 {
		return CompletedWorkout{}, false
	}
	best := l.records[0]
	for _, r := range l.records[1:] {
		if r.CompletionDate.After(best.CompletionDate) {
			best = r
		}
	}
	return best, true
}

// All returns the records in insertion order. The slice is a copy.
func (l *Ledger) All() []CompletedWorkout {
	out := make([]CompletedWorkout, len(l.records))
	copy(out, l.records)
	return out
}

// Len is the number of records.
func (l *Ledger) Len() int {
	return len(l.records)
}

// Clear empties the ledger and removes its persisted storage. Completion
// flags and the cursor are separate storage and are not touched here.
func (l *Ledger) Clear() error {
	l.records = nil
	return l.store.Remove(state.KeyHistory)
}

// AttachPhoto sets the photo reference on the record with the given ID and
// persists. Attaching to an unknown ID is a silent no-op.
func (l *Ledger) AttachPhoto(id uuid.UUID, photoID string) error {
	for i, r := range l.records {
		if r.ID == id {
			r.PhotoID = photoID
			l.records[i] = r
			return l.persist()
		}
	}
	return nil
}

func (l *Ledger) persist() error {
	if err := state.SetJSON(l.store, state.KeyHistory, l.records); err != nil {
		return fmt.Errorf("persisting workout history: %w", err)
	}
	return nil
}
