package session

import (
	"math/rand/v2"

	"github.com/claude/emberfit/internal/state"
)

var motivationalPhrases = []string{
	"One day at a time.",
	"Show up. That's the hard part.",
	"Strong is built, not found.",
	"Yesterday you said tomorrow.",
	"Small steps, big changes.",
	"The only bad workout is the one you skipped.",
	"Discipline beats motivation.",
	"You don't have to be great to start.",
	"Sweat now, shine later.",
	"Every rep counts.",
}

// MotivationalPhrase returns the phrase of the day. The pick is cached
// through the store so it stays stable until the local date changes.
func (s *Session) MotivationalPhrase() string {
	today := s.now().Local().Format("2006-01-02")
	if date, ok := s.store.Get(state.KeyPhraseDate); ok && date == today {
		if phrase, ok := s.store.Get(state.KeyPhrase); ok {
			return phrase
		}
	}
	phrase := motivationalPhrases[rand.IntN(len(motivationalPhrases))]
	s.store.Set(state.KeyPhrase, phrase)
	s.store.Set(state.KeyPhraseDate, today)
	return phrase
}
