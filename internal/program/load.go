package program

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
)

// rawDay matches the field names used by the bundled definition, which is
// an unordered weekName -> dayName -> day mapping.
type rawDay struct {
	Focus       string     `json:"Focus"`
	Description string     `json:"Description"`
	Exercises   []Exercise `json:"Exercises"`
}

var weekNumberRe = regexp.MustCompile(`Week (\d+)`)

// weekNumber extracts the leading integer from a week name like "Week 3".
// Names that don't match sort as 0.
func weekNumber(name string) int {
	m := weekNumberRe.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// Parse decodes the raw definition document into an ordered Program.
// Week order is by extracted week number, day order is lexicographic, and
// both are deterministic regardless of the source mapping's iteration
// order.
func Parse(data []byte) (*Program, error) {
	var raw map[string]map[string]rawDay
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing program definition: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("program definition has no weeks")
	}

	weekNames := make([]string, 0, len(raw))
	for name := range raw {
		weekNames = append(weekNames, name)
	}
	// Lexicographic pass first so the stable numeric sort is deterministic
	// even when week numbers tie.
	sort.Strings(weekNames)
	sort.SliceStable(weekNames, func(i, j int) bool {
		return weekNumber(weekNames[i]) < weekNumber(weekNames[j])
	})

	p := &Program{Weeks: make([]Week, 0, len(weekNames))}
	for _, weekName := range weekNames {
		daysRaw := raw[weekName]
		dayNames := make([]string, 0, len(daysRaw))
		for name := range daysRaw {
			dayNames = append(dayNames, name)
		}
		sort.Strings(dayNames)

		week := Week{Name: weekName, Days: make([]Day, 0, len(dayNames))}
		for _, dayName := range dayNames {
			d := daysRaw[dayName]
			week.Days = append(week.Days, Day{
				Name:        dayName,
				Focus:       d.Focus,
				Description: d.Description,
				Exercises:   d.Exercises,
			})
		}
		p.Weeks = append(p.Weeks, week)
	}
	return p, nil
}

// LoadFile reads and parses a definition file.
func LoadFile(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program definition: %w", err)
	}
	return Parse(data)
}

// Source yields a freshly parsed Program on every call, so a reload always
// starts from the bundled definition with default completion flags.
type Source interface {
	Load() (*Program, error)
}

// FileSource loads the definition from a file on disk.
type FileSource struct {
	Path string
}

func (f FileSource) Load() (*Program, error) {
	return LoadFile(f.Path)
}
