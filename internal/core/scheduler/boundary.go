package scheduler

import (
	"time"

	"moodtray/internal/core/model"
)

// NextBoundary returns the earliest instant strictly after now that is aligned
// to the granularity in now's location.
func NextBoundary(now time.Time, granularity model.Granularity) time.Time {
	var floor time.Time
	switch granularity {
	case model.GranularityMinute:
		floor = time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), 0, 0, now.Location())
	default:
		floor = time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	}
	next := floor.Add(granularity.Unit())
	// time.Date normalizes wall times that fall in a DST gap, which can push
	// the floor past now.
	for !next.After(now) {
		next = next.Add(granularity.Unit())
	}
	return next
}

// NextDelay returns the wait from now until the next boundary. It is always positive.
func NextDelay(now time.Time, granularity model.Granularity) time.Duration {
	return NextBoundary(now, granularity).Sub(now)
}
