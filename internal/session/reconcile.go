package session

import (
	"time"

	"github.com/claude/emberfit/internal/state"
)

// Resolve computes the authoritative cursor. The history ledger wins: when
// it has entries, the cursor lands ON the most recently completed day (not
// past it), so a process killed between recording a completion and
// advancing still resumes consistently. When history is empty, or the
// completed day no longer exists in the catalog, the raw persisted cursor
// wins, clamped into catalog bounds. Resolving repeatedly without new
// history is a fixed point.
func (s *Session) Resolve() Cursor {
	if s.prog != nil {
		if rec, ok := s.ledger.MostRecent(); ok {
			if w, d, found := s.prog.Locate(rec.WeekName, rec.DayName); found {
				s.cursor = Cursor{Week: w, Day: d}
				if err := s.persistCursor(); err != nil {
					s.log.Error("persisting resolved cursor", "error", err)
				}
				return s.cursor
			}
			// The completed day is gone from the catalog. There is no way
			// to tell deleted content from stale history, so degrade
			// silently to the raw cursor.
			s.log.Warn("most recent completion not found in catalog",
				"week", rec.WeekName, "day", rec.DayName)
		}
	}

	w, _ := state.GetInt(s.store, state.KeyWeekIndex)
	d, _ := state.GetInt(s.store, state.KeyDayIndex)
	s.cursor = s.clamp(Cursor{Week: w, Day: d})
	if err := s.persistCursor(); err != nil {
		s.log.Error("persisting resolved cursor", "error", err)
	}
	return s.cursor
}

// maybeAutoUnlock applies the midnight-rollover policy: when the day under
// the resolved cursor is completed in history and its completion date is
// before today (local calendar), advance once. Evaluated opportunistically
// on every activation rather than by a scheduler. Returns whether the
// cursor moved.
func (s *Session) maybeAutoUnlock() bool {
	week, okW := s.CurrentWeek()
	day, okD := s.CurrentDay()
	if !okW || !okD {
		return false
	}
	rec, found := s.ledger.FindByWeekDay(week.Name, day.Name)
	if !found {
		return false
	}
	if sameCalendarDay(rec.CompletionDate, s.now()) {
		return false
	}
	if err := s.Advance(); err != nil {
		s.log.Error("auto-unlock advance failed", "error", err)
		return false
	}
	return true
}

// clamp pulls an out-of-bounds cursor back inside the catalog, so state
// left over from a larger catalog never produces an invalid position.
func (s *Session) clamp(c Cursor) Cursor {
	if s.prog == nil || len(s.prog.Weeks) == 0 {
		return Cursor{}
	}
	if c.Week < 0 || c.Week >= len(s.prog.Weeks) {
		return Cursor{}
	}
	if c.Day < 0 || c.Day >= len(s.prog.Weeks[c.Week].Days) {
		c.Day = 0
	}
	return c
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
