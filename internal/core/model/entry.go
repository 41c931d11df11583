package model

import (
	"encoding/json"
	"time"
)

// DayKeyLayout is the layout of a day key (ISO 8601 calendar date).
const DayKeyLayout = "2006-01-02"

// MoodEntry is the opaque record produced by the form.
type MoodEntry = json.RawMessage

// Summary maps a day key to the entries recorded that day.
type Summary map[string][]MoodEntry

// DayKey returns the local calendar date of t.
func DayKey(t time.Time) string {
	return t.Local().Format(DayKeyLayout)
}

// Status is the derived tracking state pushed to windows.
type Status string

const (
	StatusTracking Status = "tracking"
	StatusStopped  Status = "stopped"
)

// StatusFor derives a Status from the session flag.
func StatusFor(active bool) Status {
	if active {
		return StatusTracking
	}
	return StatusStopped
}

// Label returns the human readable status.
func (status Status) Label() string {
	if status == StatusTracking {
		return "Tracking active"
	}
	return "Tracking stopped"
}
