// Package state provides the persisted key-value store behind the
// progression engine. The store is the single source of truth across
// controller instances; in-memory state is only a cache over it, so every
// write happens synchronously with the mutation that caused it.
package state

import (
	"encoding/json"
	"strconv"
	"time"
)

// Store is the injected key-value dependency. Values are strings; typed
// access goes through the package helpers.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// Recognized keys.
const (
	KeyInitialSetup    = "hasCompletedInitialSetup"
	KeyWeekIndex       = "currentWeekIndex"
	KeyDayIndex        = "currentDayIndex"
	KeyCompletionFlags = "exerciseCompletionStatus"
	KeyHistory         = "completedWorkoutsHistory"
	KeyPhrase          = "selectedMotivationalPhrase"
	KeyPhraseDate      = "motivationalPhraseDate"
	KeyTimerRunning    = "workoutTimerRunning"
	KeyElapsedSeconds  = "workoutElapsedSeconds"
	KeyWasStarted      = "workoutWasStarted"
	KeyStartTime       = "workoutStartTime"
)

// GetInt reads an int value. Absent or unparseable values read as absent.
func GetInt(s Store, key string) (int, bool) {
	raw, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func SetInt(s Store, key string, v int) error {
	return s.Set(key, strconv.Itoa(v))
}

// GetBool reads a bool value. Absent or unparseable values read as absent.
func GetBool(s Store, key string) (bool, bool) {
	raw, ok := s.Get(key)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return b, true
}

func SetBool(s Store, key string, v bool) error {
	return s.Set(key, strconv.FormatBool(v))
}

// GetTime reads an RFC 3339 timestamp. Absent or unparseable values read
// as absent.
func GetTime(s Store, key string) (time.Time, bool) {
	raw, ok := s.Get(key)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func SetTime(s Store, key string, t time.Time) error {
	return s.Set(key, t.Format(time.RFC3339Nano))
}

// GetJSON unmarshals a stored JSON value into dst. Corrupt payloads are
// treated as absent, never as an error.
func GetJSON(s Store, key string, dst any) bool {
	raw, ok := s.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false
	}
	return true
}

func SetJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(key, string(data))
}
