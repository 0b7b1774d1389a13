package history

import (
	"testing"
	"time"

	"github.com/claude/emberfit/internal/program"
	"github.com/claude/emberfit/internal/state"
	"github.com/google/uuid"
)

func record(week, day string, at time.Time) CompletedWorkout {
	done := 1
	return CompletedWorkout{
		ID:             uuid.New(),
		WeekName:       week,
		DayName:        day,
		CompletionDate: at,
		Exercises: []program.Exercise{
			{Title: "Bench Press", Sets: &done, IsCompleted: true},
			{Title: "Plank"},
		},
	}
}

// TestAppendAndFindByWeekDay verifies the logical-key lookup returns the
// appended record.
func TestAppendAndFindByWeekDay(t *testing.T) {
	l := Open(state.NewMemory())
	rec := record("Week 1", "Day A", time.Now())
	if err := l.Append(rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, ok := l.FindByWeekDay("Week 1", "Day A")
	if !ok {
		t.Fatal("FindByWeekDay: want found")
	}
	if got.ID != rec.ID {
		t.Errorf("found ID = %v, want %v", got.ID, rec.ID)
	}
	if got.WeekName != "Week 1" || got.DayName != "Day A" {
		t.Errorf("found key = %q/%q, want Week 1/Day A", got.WeekName, got.DayName)
	}
	if _, ok := l.FindByWeekDay("Week 1", "Day B"); ok {
		t.Error("FindByWeekDay on unknown day: want not found")
	}
}

// TestDuplicateLogicalKeys verifies re-completing a day appends rather
// than replaces, the first record wins on lookup, and MostRecent still
// picks the later completion.
func TestDuplicateLogicalKeys(t *testing.T) {
	l := Open(state.NewMemory())
	first := record("Week 1", "Day A", time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC))
	second := record("Week 1", "Day A", time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC))
	l.Append(first)
	l.Append(second)

	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2", l.Len())
	}
	got, _ := l.FindByWeekDay("Week 1", "Day A")
	if got.ID != first.ID {
		t.Error("FindByWeekDay = second record, want first appended")
	}
	recent, _ := l.MostRecent()
	if recent.ID != second.ID {
		t.Error("MostRecent = first record, want later completion date")
	}
}

// TestMostRecentEmpty verifies MostRecent reports absence on an empty
// ledger.
func TestMostRecentEmpty(t *testing.T) {
	l := Open(state.NewMemory())
	if _, ok := l.MostRecent(); ok {
		t.Error("MostRecent on empty ledger: want none")
	}
}

// TestPersistenceRoundTrip verifies a ledger reloaded from the same store
// sees previously appended records.
func TestPersistenceRoundTrip(t *testing.T) {
	store := state.NewMemory()
	l1 := Open(store)
	rec := record("Week 2", "Day C", time.Now())
	if err := l1.Append(rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	l2 := Open(store)
	if l2.Len() != 1 {
		t.Fatalf("reloaded Len = %d, want 1", l2.Len())
	}
	got, ok := l2.FindByWeekDay("Week 2", "Day C")
	if !ok || got.ID != rec.ID {
		t.Errorf("reloaded record = %v,%v, want %v,true", got.ID, ok, rec.ID)
	}
}

// TestCorruptStorageReadsEmpty verifies a corrupt persisted collection is
// treated as absent, not an error.
func TestCorruptStorageReadsEmpty(t *testing.T) {
	store := state.NewMemory()
	store.Set(state.KeyHistory, "{not json")
	l := Open(store)
	if l.Len() != 0 {
		t.Errorf("Len = %d, want 0 for corrupt storage", l.Len())
	}
}

// TestClear verifies Clear empties the ledger and removes the persisted
// key without touching other state.
func TestClear(t *testing.T) {
	store := state.NewMemory()
	store.Set(state.KeyWeekIndex, "2")
	l := Open(store)
	l.Append(record("Week 1", "Day A", time.Now()))

	if err := l.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", l.Len())
	}
	if _, ok := store.Get(state.KeyHistory); ok {
		t.Error("history key still present after Clear")
	}
	if v, _ := store.Get(state.KeyWeekIndex); v != "2" {
		t.Error("Clear touched unrelated state")
	}
}

// TestAttachPhoto verifies the photo reference lands on the right record
// and persists, and that an unknown ID is a silent no-op.
func TestAttachPhoto(t *testing.T) {
	store := state.NewMemory()
	l := Open(store)
	rec := record("Week 1", "Day A", time.Now())
	l.Append(rec)

	if err := l.AttachPhoto(rec.ID, "photo-123"); err != nil {
		t.Fatalf("AttachPhoto: %v", err)
	}
	got, _ := l.FindByWeekDay("Week 1", "Day A")
	if got.PhotoID != "photo-123" {
		t.Errorf("PhotoID = %q, want photo-123", got.PhotoID)
	}

	reloaded := Open(store)
	got, _ = reloaded.FindByWeekDay("Week 1", "Day A")
	if got.PhotoID != "photo-123" {
		t.Error("PhotoID not persisted")
	}

	if err := l.AttachPhoto(uuid.New(), "other"); err != nil {
		t.Errorf("AttachPhoto with unknown ID: %v, want silent no-op", err)
	}
}

// TestDerivedAccessors verifies the exercise counts and duration
// formatting.
func TestDerivedAccessors(t *testing.T) {
	rec := record("Week 1", "Day A", time.Now())
	if got := rec.CompletedExercises(); got != 1 {
		t.Errorf("CompletedExercises = %d, want 1", got)
	}
	if got := rec.TotalExercises(); got != 2 {
		t.Errorf("TotalExercises = %d, want 2", got)
	}

	if got := rec.FormattedDuration(); got != "--:--" {
		t.Errorf("FormattedDuration(nil) = %q, want --:--", got)
	}
	for _, tc := range []struct {
		sec  int
		want string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{75, "1:15"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
	} {
		r := rec
		sec := tc.sec
		r.DurationSec = &sec
		if got := r.FormattedDuration(); got != tc.want {
			t.Errorf("FormattedDuration(%d) = %q, want %q", tc.sec, got, tc.want)
		}
	}
}
