package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrUnknownMood indicates a mood outside Moods.
var ErrUnknownMood = errors.New("unknown mood")

// Mood is the self-reported rating chosen in the form.
type Mood string

const (
	MoodGreat Mood = "great"
	MoodGood  Mood = "good"
	MoodOk    Mood = "ok"
	MoodBad   Mood = "bad"
	MoodAwful Mood = "awful"
)

// Moods lists the ratings from best to worst.
var Moods = []Mood{MoodGreat, MoodGood, MoodOk, MoodBad, MoodAwful}

// Valid reports whether mood is one of Moods.
func (mood Mood) Valid() bool {
	for _, known := range Moods {
		if mood == known {
			return true
		}
	}
	return false
}

// Score maps the mood onto 5 (great) through 1 (awful). Unknown moods score 0.
func (mood Mood) Score() int {
	for index, known := range Moods {
		if mood == known {
			return len(Moods) - index
		}
	}
	return 0
}

// MoodRecord is the entry shape written by the form window. The store treats
// it as opaque JSON, so older or foreign entries may lack fields.
type MoodRecord struct {
	Mood       Mood      `json:"mood"`
	Note       string    `json:"note,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// NewMoodEntry validates the form input and encodes it as an entry.
func NewMoodEntry(mood Mood, note string, at time.Time) (MoodEntry, error) {
	if !mood.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMood, mood)
	}
	record := MoodRecord{Mood: mood, Note: strings.TrimSpace(note), RecordedAt: at}
	encoded, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode mood entry: %w", err)
	}
	return MoodEntry(encoded), nil
}

// DecodeMoodRecord reads entry leniently. ok is false when entry is not a JSON
// object.
func DecodeMoodRecord(entry MoodEntry) (MoodRecord, bool) {
	var record MoodRecord
	if err := json.Unmarshal(entry, &record); err != nil {
		return MoodRecord{}, false
	}
	return record, true
}

// DaySummary is one day of a Summary with decoded records.
type DaySummary struct {
	Day     string
	Records []MoodRecord
	// Raw holds entries that did not decode as a MoodRecord.
	Raw []MoodEntry
}

// Average returns the mean score of the day's known moods, or 0.
func (day DaySummary) Average() float64 {
	total, count := 0, 0
	for _, record := range day.Records {
		if score := record.Mood.Score(); score > 0 {
			total += score
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

// Days returns the summary ordered newest day first.
func (summary Summary) Days() []DaySummary {
	keys := make([]string, 0, len(summary))
	for key := range summary {
		keys = append(keys, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	days := make([]DaySummary, 0, len(keys))
	for _, key := range keys {
		day := DaySummary{Day: key}
		for _, entry := range summary[key] {
			if record, ok := DecodeMoodRecord(entry); ok {
				day.Records = append(day.Records, record)
				continue
			}
			day.Raw = append(day.Raw, entry)
		}
		days = append(days, day)
	}
	return days
}
