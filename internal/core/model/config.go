package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidGranularity indicates an unknown alignment unit.
var ErrInvalidGranularity = errors.New("invalid granularity")

// Granularity is the clock unit check-ins are aligned to.
type Granularity string

const (
	GranularityMinute Granularity = "minute"
	GranularityHour   Granularity = "hour"
)

// Unit returns the duration of one alignment step.
func (granularity Granularity) Unit() time.Duration {
	if granularity == GranularityMinute {
		return time.Minute
	}
	return time.Hour
}

// Valid reports whether the granularity is a known value.
func (granularity Granularity) Valid() bool {
	return granularity == GranularityMinute || granularity == GranularityHour
}

// ParseGranularity converts a config value into a Granularity.
func ParseGranularity(value string) (Granularity, error) {
	granularity := Granularity(strings.ToLower(strings.TrimSpace(value)))
	if !granularity.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidGranularity, value)
	}
	return granularity, nil
}

// TrackerConfig contains runtime settings for the tracking controller.
type TrackerConfig struct {
	Granularity           Granularity
	Notify                bool
	TrackOnLaunch         bool
	TrayEnabled           bool
	QuitOnLastClose       bool
	InitialBroadcastDelay time.Duration
}
