// Package session owns the user's position in the workout program and all
// completion state around it: the progress cursor, the per-exercise
// completion matrix, and the history ledger. A Session is the single
// writer for that state in a running process; the persisted store stays
// the source of truth, so every activation reconciles from storage and
// multiple instances converge through it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/emberfit/internal/history"
	"github.com/claude/emberfit/internal/photos"
	"github.com/claude/emberfit/internal/program"
	"github.com/claude/emberfit/internal/state"
	"github.com/google/uuid"
)

var (
	// ErrNoCurrentDay means the cursor points outside the loaded catalog,
	// or no catalog is loaded at all.
	ErrNoCurrentDay = errors.New("no current day")
	// ErrExerciseOutOfRange means the exercise index doesn't exist on the
	// current day.
	ErrExerciseOutOfRange = errors.New("exercise index out of range")
	// ErrNoPhotoStore means no remote photo store was configured.
	ErrNoPhotoStore = errors.New("photo store not configured")
)

// Cursor is the user's position in the program.
type Cursor struct {
	Week int `json:"weekIndex"`
	Day  int `json:"dayIndex"`
}

// Session is the progression controller.
type Session struct {
	store  state.Store
	source program.Source
	ledger *history.Ledger
	photos photos.Store // nil when the remote store is unavailable
	owner  string
	log    *slog.Logger
	now    func() time.Time

	prog    *program.Program
	loadErr error
	cursor  Cursor
	timer   *Timer
}

// New builds a session over the given store and program source. photoStore
// may be nil. The program is not loaded until the first Activate or
// Reload.
func New(store state.Store, source program.Source, photoStore photos.Store, owner string, log *slog.Logger) *Session {
	s := &Session{
		store:  store,
		source: source,
		ledger: history.Open(store),
		photos: photoStore,
		owner:  owner,
		log:    log,
		now:    time.Now,
	}
	s.timer = newTimer(store, log, func() time.Time { return s.now() })
	return s
}

// Activate runs the on-activation path: (re)load the catalog if needed,
// re-read the ledger from storage, overlay stored completion flags,
// resolve the authoritative cursor, and apply the automatic unlock policy.
// Safe to call on every screen activation.
func (s *Session) Activate() {
	if s.prog == nil {
		s.load()
	}
	s.ledger.Reload()
	s.applyStoredFlags()
	s.Resolve()
	if s.maybeAutoUnlock() {
		s.log.Info("auto-unlocked next day",
			"week", s.cursor.Week, "day", s.cursor.Day)
	}
}

// Reload discards the in-memory catalog and re-parses the definition from
// scratch, then re-applies the stored completion overlay. The user-facing
// retry path after a load failure.
func (s *Session) Reload() error {
	s.prog = nil
	s.load()
	if s.loadErr != nil {
		return s.loadErr
	}
	s.applyStoredFlags()
	s.Resolve()
	return nil
}

func (s *Session) load() {
	p, err := s.source.Load()
	if err != nil {
		s.log.Error("program load failed", "error", err)
		s.prog, s.loadErr = nil, err
		return
	}
	s.prog, s.loadErr = p, nil
}

// LoadErr reports the last catalog load failure, nil when the catalog is
// loaded.
func (s *Session) LoadErr() error {
	return s.loadErr
}

// Program returns the loaded catalog, or ok=false after a load failure.
func (s *Session) Program() (*program.Program, bool) {
	if s.prog == nil {
		return nil, false
	}
	return s.prog, true
}

// Cursor returns the current position.
func (s *Session) Cursor() Cursor {
	return s.cursor
}

// Timer returns the workout timer.
func (s *Session) Timer() *Timer {
	return s.timer
}

// History returns the ledger.
func (s *Session) History() *history.Ledger {
	return s.ledger
}

// CurrentWeek returns the week under the cursor, guarding against a cursor
// past catalog bounds.
func (s *Session) CurrentWeek() (program.Week, bool) {
	if s.prog == nil || s.cursor.Week < 0 || s.cursor.Week >= len(s.prog.Weeks) {
		return program.Week{}, false
	}
	return s.prog.Weeks[s.cursor.Week], true
}

// CurrentDay returns the day under the cursor, guarding against a cursor
// past catalog bounds.
func (s *Session) CurrentDay() (program.Day, bool) {
	week, ok := s.CurrentWeek()
	if !ok || s.cursor.Day < 0 || s.cursor.Day >= len(week.Days) {
		return program.Day{}, false
	}
	return week.Days[s.cursor.Day], true
}

// ToggleExercise flips the completion flag of one exercise on the current
// day and persists the completion matrix.
func (s *Session) ToggleExercise(index int) error {
	day, ok := s.CurrentDay()
	if !ok {
		return ErrNoCurrentDay
	}
	if index < 0 || index >= len(day.Exercises) {
		return ErrExerciseOutOfRange
	}
	ex := &s.prog.Weeks[s.cursor.Week].Days[s.cursor.Day].Exercises[index]
	ex.IsCompleted = !ex.IsCompleted
	return s.persistFlags()
}

// Advance moves the cursor to the next day, rolling into the next week at
// a week boundary and wrapping to the start at the end of the program.
// The new position and the completion matrix are persisted before Advance
// returns; flags on the newly reached day are left as they are.
func (s *Session) Advance() error {
	if s.prog == nil || len(s.prog.Weeks) == 0 {
		return ErrNoCurrentDay
	}
	c := s.clamp(s.cursor)
	switch {
	case c.Day < len(s.prog.Weeks[c.Week].Days)-1:
		c.Day++
	case c.Week < len(s.prog.Weeks)-1:
		c.Week++
		c.Day = 0
	default:
		c = Cursor{}
	}
	s.cursor = c
	if err := s.persistCursor(); err != nil {
		return err
	}
	return s.persistFlags()
}

// ResetCursor forces the cursor back to the first day and persists.
func (s *Session) ResetCursor() error {
	s.cursor = Cursor{}
	return s.persistCursor()
}

// RecordCompletion snapshots the current day into the history ledger and
// returns the new record; the caller decides what happens next (unlock,
// photo upload, UI transition). The cursor does not move.
func (s *Session) RecordCompletion(durationSec *int) (history.CompletedWorkout, error) {
	week, okW := s.CurrentWeek()
	day, okD := s.CurrentDay()
	if !okW || !okD {
		return history.CompletedWorkout{}, ErrNoCurrentDay
	}
	rec := history.CompletedWorkout{
		ID:             uuid.New(),
		WeekName:       week.Name,
		DayName:        day.Name,
		CompletionDate: s.now(),
		Exercises:      program.CloneExercises(day.Exercises),
		DurationSec:    durationSec,
	}
	if err := s.ledger.Append(rec); err != nil {
		return history.CompletedWorkout{}, err
	}
	s.log.Info("workout completed",
		"week", rec.WeekName, "day", rec.DayName,
		"exercises", rec.CompletedExercises(), "of", rec.TotalExercises())
	return rec, nil
}

// UploadPhoto sends a progress photo to the remote store and attaches the
// returned record ID to the given history entry. A remote failure leaves
// all local state intact and is reported for advisory display only.
func (s *Session) UploadPhoto(ctx context.Context, recordID uuid.UUID, jpeg []byte) (string, error) {
	if s.photos == nil {
		return "", ErrNoPhotoStore
	}
	id, err := s.photos.Save(ctx, photos.Photo{
		Owner:   s.owner,
		Day:     s.cursor.Day,
		TakenAt: s.now(),
		JPEG:    jpeg,
	})
	if err != nil {
		s.log.Warn("photo upload failed, local progress unaffected", "error", err)
		return "", fmt.Errorf("uploading photo: %w", err)
	}
	if err := s.ledger.AttachPhoto(recordID, id.String()); err != nil {
		return id.String(), err
	}
	return id.String(), nil
}

// FullReset is the composite reset: cursor to the first day, every
// completion flag cleared, history emptied. No partially reset state is
// observable afterward.
func (s *Session) FullReset() error {
	s.cursor = Cursor{}
	if err := s.persistCursor(); err != nil {
		return err
	}
	if s.prog != nil {
		for wi := range s.prog.Weeks {
			for di := range s.prog.Weeks[wi].Days {
				for ei := range s.prog.Weeks[wi].Days[di].Exercises {
					s.prog.Weeks[wi].Days[di].Exercises[ei].IsCompleted = false
				}
			}
		}
	}
	if err := s.store.Remove(state.KeyCompletionFlags); err != nil {
		return fmt.Errorf("clearing completion flags: %w", err)
	}
	if err := s.ledger.Clear(); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	s.log.Info("full reset performed")
	return nil
}

// HasCompletedInitialSetup reports the first-launch sentinel.
func (s *Session) HasCompletedInitialSetup() bool {
	done, ok := state.GetBool(s.store, state.KeyInitialSetup)
	return ok && done
}

// MarkInitialSetupComplete sets the first-launch sentinel.
func (s *Session) MarkInitialSetupComplete() error {
	return state.SetBool(s.store, state.KeyInitialSetup, true)
}

// applyStoredFlags overlays the persisted completion matrix onto the
// in-memory catalog. The overlay produces a new Program value; stored keys
// outside the current catalog shape are dropped.
func (s *Session) applyStoredFlags() {
	if s.prog == nil {
		return
	}
	var raw map[string]bool
	if !state.GetJSON(s.store, state.KeyCompletionFlags, &raw) {
		return
	}
	s.prog = program.ApplyCompletion(s.prog, program.DecodeFlags(raw))
}

// persistFlags writes the completion matrix extracted from the current
// catalog snapshot. Never called with a stale snapshot: the session holds
// exactly one program value at a time.
func (s *Session) persistFlags() error {
	if s.prog == nil {
		return nil
	}
	flags := program.ExtractCompletion(s.prog)
	if err := state.SetJSON(s.store, state.KeyCompletionFlags, flags.Encode()); err != nil {
		return fmt.Errorf("persisting completion flags: %w", err)
	}
	return nil
}

func (s *Session) persistCursor() error {
	if err := state.SetInt(s.store, state.KeyWeekIndex, s.cursor.Week); err != nil {
		return fmt.Errorf("persisting week index: %w", err)
	}
	if err := state.SetInt(s.store, state.KeyDayIndex, s.cursor.Day); err != nil {
		return fmt.Errorf("persisting day index: %w", err)
	}
	return nil
}
