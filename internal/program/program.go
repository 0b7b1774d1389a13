// Package program defines the workout program catalog: the static
// week -> day -> exercise tree loaded once from the bundled definition.
// The catalog is immutable for the life of a session except for the
// per-exercise IsCompleted flag, which is overlaid from persisted
// completion state and never written back into the definition.
package program

import "encoding/json"

// Program is the full catalog, weeks in program order.
type Program struct {
	Weeks []Week `json:"weeks"`
}

// Week is one named week of the program.
type Week struct {
	Name string `json:"name"`
	Days []Day  `json:"days"`
}

// Day is one training day within a week.
type Day struct {
	Name        string     `json:"name"`
	Focus       string     `json:"focus"`
	Description string     `json:"description"`
	Exercises   []Exercise `json:"exercises"`
}

// Exercise is a single prescribed exercise. Sets and Reps are pointers
// because the definition omits them for time-based work.
type Exercise struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Sets        *int   `json:"sets,omitempty"`
	Reps        *int   `json:"reps,omitempty"`
	Weight      string `json:"weight,omitempty"`
	Duration    string `json:"duration,omitempty"`
	IsCompleted bool   `json:"isCompleted"`
}

// UnmarshalJSON tolerates reps written as either a number or a free-form
// string in the definition; only numeric reps carry over.
func (e *Exercise) UnmarshalJSON(data []byte) error {
	type raw struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Sets        *int            `json:"sets"`
		Reps        json.RawMessage `json:"reps"`
		Weight      string          `json:"weight"`
		Duration    string          `json:"duration"`
		IsCompleted bool            `json:"isCompleted"`
	}
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	e.Title = r.Title
	e.Description = r.Description
	e.Sets = r.Sets
	e.Weight = r.Weight
	e.Duration = r.Duration
	e.IsCompleted = r.IsCompleted
	e.Reps = nil
	if len(r.Reps) > 0 {
		var n int
		if err := json.Unmarshal(r.Reps, &n); err == nil {
			e.Reps = &n
		}
	}
	return nil
}

// Locate finds a day by its logical (week name, day name) key and returns
// its positional indices. Linear scan; ok is false when either name is
// absent from the catalog.
func (p *Program) Locate(weekName, dayName string) (weekIdx, dayIdx int, ok bool) {
	for wi, w := range p.Weeks {
		if w.Name != weekName {
			continue
		}
		for di, d := range w.Days {
			if d.Name == dayName {
				return wi, di, true
			}
		}
	}
	return 0, 0, false
}

// Clone returns a deep copy of the program. Consumers holding the previous
// snapshot are unaffected by mutations of the copy.
func (p *Program) Clone() *Program {
	out := &Program{Weeks: make([]Week, len(p.Weeks))}
	for wi, w := range p.Weeks {
		cw := Week{Name: w.Name, Days: make([]Day, len(w.Days))}
		for di, d := range w.Days {
			cd := d
			cd.Exercises = CloneExercises(d.Exercises)
			cw.Days[di] = cd
		}
		out.Weeks[wi] = cw
	}
	return out
}

// CloneExercises copies an exercise slice, including pointer fields.
func CloneExercises(src []Exercise) []Exercise {
	out := make([]Exercise, len(src))
	for i, e := range src {
		ce := e
		if e.Sets != nil {
			v := *e.Sets
			ce.Sets = &v
		}
		if e.Reps != nil {
			v := *e.Reps
			ce.Reps = &v
		}
		out[i] = ce
	}
	return out
}

// TotalDays is the number of days across all weeks.
func (p *Program) TotalDays() int {
	n := 0
	for _, w := range p.Weeks {
		n += len(w.Days)
	}
	return n
}
