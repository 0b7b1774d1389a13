package program

import (
	"fmt"
	"strconv"
	"strings"
)

// PositionKey addresses one exercise slot by its position in the catalog.
// Positions are only meaningful against the exact catalog ordering they
// were produced from.
type PositionKey struct {
	Week     int
	Day      int
	Exercise int
}

// Encode renders the persisted wire form of the key.
func (k PositionKey) Encode() string {
	return fmt.Sprintf("exercise_%d_%d_%d", k.Week, k.Day, k.Exercise)
}

// DecodePositionKey parses the persisted wire form. Malformed or negative
// keys are rejected.
func DecodePositionKey(s string) (PositionKey, bool) {
	parts := strings.Split(s, "_")
	if len(parts) != 4 || parts[0] != "exercise" {
		return PositionKey{}, false
	}
	var idx [3]int
	for i, p := range parts[1:] {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return PositionKey{}, false
		}
		idx[i] = n
	}
	return PositionKey{Week: idx[0], Day: idx[1], Exercise: idx[2]}, true
}

// CompletionFlags is the completion matrix: per-exercise completed flags
// keyed by position.
type CompletionFlags map[PositionKey]bool

// Encode renders the flags in the persisted string-keyed form.
func (f CompletionFlags) Encode() map[string]bool {
	out := make(map[string]bool, len(f))
	for k, v := range f {
		out[k.Encode()] = v
	}
	return out
}

// DecodeFlags parses persisted string-keyed flags, dropping entries whose
// keys don't parse.
func DecodeFlags(raw map[string]bool) CompletionFlags {
	out := make(CompletionFlags, len(raw))
	for s, v := range raw {
		if k, ok := DecodePositionKey(s); ok {
			out[k] = v
		}
	}
	return out
}

// ApplyCompletion overlays stored flags onto the catalog and returns a new
// Program value; the input is never mutated. Positions absent from flags
// keep the catalog default, and flags pointing outside the catalog are
// ignored.
func ApplyCompletion(p *Program, flags CompletionFlags) *Program {
	out := p.Clone()
	for k, v := range flags {
		if k.Week >= len(out.Weeks) {
			continue
		}
		days := out.Weeks[k.Week].Days
		if k.Day >= len(days) {
			continue
		}
		exercises := days[k.Day].Exercises
		if k.Exercise >= len(exercises) {
			continue
		}
		exercises[k.Exercise].IsCompleted = v
	}
	return out
}

// ExtractCompletion reads the completion matrix back out of a program.
// Only completed positions are recorded; absence means the catalog-default
// false.
func ExtractCompletion(p *Program) CompletionFlags {
	out := make(CompletionFlags)
	for wi, w := range p.Weeks {
		for di, d := range w.Days {
			for ei, e := range d.Exercises {
				if e.IsCompleted {
					out[PositionKey{Week: wi, Day: di, Exercise: ei}] = true
				}
			}
		}
	}
	return out
}
