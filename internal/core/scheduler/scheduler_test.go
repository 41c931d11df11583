package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodtray/internal/core/model"
)

func at(hour, minute, second, nsec int) time.Time {
	return time.Date(2024, time.January, 1, hour, minute, second, nsec, time.Local)
}

func TestNextBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		now         time.Time
		granularity model.Granularity
		want        time.Time
	}{
		{"minute mid", at(10, 15, 30, 0), model.GranularityMinute, at(10, 16, 0, 0)},
		{"minute exact boundary", at(10, 15, 0, 0), model.GranularityMinute, at(10, 16, 0, 0)},
		{"minute one ns before", at(10, 15, 59, 999999999), model.GranularityMinute, at(10, 16, 0, 0)},
		{"hour mid", at(10, 15, 30, 0), model.GranularityHour, at(11, 0, 0, 0)},
		{"hour exact boundary", at(10, 0, 0, 0), model.GranularityHour, at(11, 0, 0, 0)},
		{"minute day rollover", at(23, 59, 30, 0), model.GranularityMinute, time.Date(2024, time.January, 2, 0, 0, 0, 0, time.Local)},
		{"hour day rollover", at(23, 0, 0, 0), model.GranularityHour, time.Date(2024, time.January, 2, 0, 0, 0, 0, time.Local)},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := NextBoundary(tc.now, tc.granularity)
			assert.True(t, tc.want.Equal(got), "NextBoundary() = %v, want %v", got, tc.want)
		})
	}
}

func TestNextDelayAlwaysPositive(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	base := at(0, 0, 0, 0)
	for i := 0; i < 2000; i++ {
		now := base.Add(time.Duration(rng.Int63n(int64(48 * time.Hour))))
		if i%10 == 0 {
			now = now.Truncate(time.Minute)
		}
		for _, granularity := range []model.Granularity{model.GranularityMinute, model.GranularityHour} {
			delay := NextDelay(now, granularity)
			require.Greater(t, delay, time.Duration(0), "now=%v granularity=%s", now, granularity)
			require.LessOrEqual(t, delay, granularity.Unit(), "now=%v granularity=%s", now, granularity)
		}
	}
}

type tickRecorder struct {
	ticks []time.Time
}

func (recorder *tickRecorder) record(at time.Time) {
	recorder.ticks = append(recorder.ticks, at)
}

func newTestScheduler(clock Clock, granularity model.Granularity, onTick TickFunc) *Scheduler {
	return New(clock, granularity, onTick, zerolog.Nop())
}

func TestSchedulerFiresAtAlignedBoundaries(t *testing.T) {
	t.Parallel()

	clock := NewManualClock(at(10, 15, 30, 0))
	recorder := &tickRecorder{}
	scheduler := newTestScheduler(clock, model.GranularityMinute, recorder.record)

	scheduler.Start()
	require.True(t, scheduler.Pending())
	assert.True(t, at(10, 16, 0, 0).Equal(scheduler.NextTick()))

	clock.Advance(29 * time.Second)
	assert.Empty(t, recorder.ticks)

	clock.Advance(time.Second)
	require.Len(t, recorder.ticks, 1)
	assert.True(t, at(10, 16, 0, 0).Equal(recorder.ticks[0]))
	assert.True(t, scheduler.Pending())
	assert.True(t, at(10, 17, 0, 0).Equal(scheduler.NextTick()))

	clock.Advance(2 * time.Minute)
	require.Len(t, recorder.ticks, 3)
	assert.True(t, at(10, 18, 0, 0).Equal(recorder.ticks[2]))
	assert.Equal(t, 1, clock.Pending())
}

func TestSchedulerStartIsIdempotent(t *testing.T) {
	t.Parallel()

	clock := NewManualClock(at(9, 30, 0, 0))
	recorder := &tickRecorder{}
	scheduler := newTestScheduler(clock, model.GranularityHour, recorder.record)

	scheduler.Start()
	scheduler.Start()
	scheduler.Start()
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(time.Hour)
	assert.Len(t, recorder.ticks, 1)
	assert.Equal(t, 1, clock.Pending())
}

func TestSchedulerStopCancelsPendingTick(t *testing.T) {
	t.Parallel()

	clock := NewManualClock(at(9, 30, 0, 0))
	recorder := &tickRecorder{}
	scheduler := newTestScheduler(clock, model.GranularityHour, recorder.record)

	scheduler.Stop()
	scheduler.Start()
	scheduler.Stop()
	scheduler.Stop()

	assert.False(t, scheduler.Pending())
	assert.False(t, scheduler.Running())
	assert.True(t, scheduler.NextTick().IsZero())
	assert.Equal(t, 0, clock.Pending())

	clock.Advance(3 * time.Hour)
	assert.Empty(t, recorder.ticks)
}

func TestSchedulerStopStartRecomputesDelay(t *testing.T) {
	t.Parallel()

	clock := NewManualClock(at(10, 0, 0, 0))
	scheduler := newTestScheduler(clock, model.GranularityHour, nil)

	scheduler.Start()
	assert.True(t, at(11, 0, 0, 0).Equal(scheduler.NextTick()))

	clock.Advance(40 * time.Minute)
	scheduler.Stop()
	scheduler.Start()

	next := scheduler.NextTick()
	assert.True(t, at(11, 0, 0, 0).Equal(next))
	assert.Equal(t, 20*time.Minute, next.Sub(clock.Now()))
}

func TestSchedulerArmsFollowingTickBeforeCallback(t *testing.T) {
	t.Parallel()

	clock := NewManualClock(at(10, 15, 30, 0))
	var scheduler *Scheduler
	var seen time.Time
	scheduler = newTestScheduler(clock, model.GranularityMinute, func(time.Time) {
		seen = scheduler.NextTick()
	})

	scheduler.Start()
	clock.Advance(30 * time.Second)

	assert.True(t, at(10, 17, 0, 0).Equal(seen), "next tick inside callback %s", seen)
	assert.Equal(t, 1, clock.Pending())
}

func TestSchedulerStopInsideTickPreventsRearm(t *testing.T) {
	t.Parallel()

	clock := NewManualClock(at(10, 15, 30, 0))
	var scheduler *Scheduler
	ticks := 0
	scheduler = newTestScheduler(clock, model.GranularityMinute, func(time.Time) {
		ticks++
		scheduler.Stop()
	})

	scheduler.Start()
	clock.Advance(5 * time.Minute)

	assert.Equal(t, 1, ticks)
	assert.False(t, scheduler.Pending())
	assert.Equal(t, 0, clock.Pending())
}

func TestSchedulerRestartInsideTickKeepsSingleTimer(t *testing.T) {
	t.Parallel()

	clock := NewManualClock(at(10, 15, 30, 0))
	var scheduler *Scheduler
	ticks := 0
	scheduler = newTestScheduler(clock, model.GranularityMinute, func(time.Time) {
		ticks++
		scheduler.Stop()
		scheduler.Start()
	})

	scheduler.Start()
	clock.Advance(3 * time.Minute)

	assert.Equal(t, 3, ticks)
	assert.Equal(t, 1, clock.Pending())
}

// leakyClock returns timers whose Stop never prevents the callback, like a
// real timer that already fired and is racing with Stop.
type leakyClock struct {
	*ManualClock
}

type leakyTimer struct{}

func (leakyTimer) Stop() bool { return false }

func (clock leakyClock) AfterFunc(delay time.Duration, fn func()) Timer {
	clock.ManualClock.AfterFunc(delay, fn)
	return leakyTimer{}
}

func TestSchedulerIgnoresStaleFire(t *testing.T) {
	t.Parallel()

	clock := leakyClock{NewManualClock(at(10, 15, 30, 0))}
	recorder := &tickRecorder{}
	scheduler := newTestScheduler(clock, model.GranularityMinute, recorder.record)

	scheduler.Start()
	scheduler.Stop()
	clock.Advance(time.Minute)

	assert.Empty(t, recorder.ticks)
	assert.False(t, scheduler.Pending())
	assert.Equal(t, 0, clock.Pending())

	scheduler.Start()
	scheduler.Stop()
	scheduler.Start()
	clock.Advance(time.Minute)

	// Only the timer armed by the last Start may act.
	assert.Len(t, recorder.ticks, 1)
	assert.True(t, scheduler.Pending())
}

func TestSchedulerAtMostOnePendingTick(t *testing.T) {
	t.Parallel()

	clock := NewManualClock(at(8, 0, 0, 0))
	recorder := &tickRecorder{}
	scheduler := newTestScheduler(clock, model.GranularityMinute, recorder.record)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		switch rng.Intn(4) {
		case 0:
			scheduler.Start()
		case 1:
			scheduler.Stop()
		case 2:
			clock.Advance(time.Duration(rng.Int63n(int64(3 * time.Minute))))
		case 3:
			scheduler.SetGranularity(model.GranularityHour)
			scheduler.SetGranularity(model.GranularityMinute)
		}
		require.LessOrEqual(t, clock.Pending(), 1)
		require.Equal(t, scheduler.Running(), scheduler.Pending())
	}
}

func TestSchedulerSetGranularityRearms(t *testing.T) {
	t.Parallel()

	clock := NewManualClock(at(10, 15, 30, 0))
	recorder := &tickRecorder{}
	scheduler := newTestScheduler(clock, model.GranularityHour, recorder.record)

	scheduler.Start()
	assert.True(t, at(11, 0, 0, 0).Equal(scheduler.NextTick()))

	scheduler.SetGranularity(model.GranularityMinute)
	assert.Equal(t, model.GranularityMinute, scheduler.Granularity())
	assert.True(t, at(10, 16, 0, 0).Equal(scheduler.NextTick()))
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(30 * time.Second)
	assert.Len(t, recorder.ticks, 1)
}

func TestSchedulerSetGranularityWhileStopped(t *testing.T) {
	t.Parallel()

	clock := NewManualClock(at(10, 15, 30, 0))
	scheduler := newTestScheduler(clock, model.GranularityHour, nil)

	scheduler.SetGranularity(model.GranularityMinute)
	scheduler.SetGranularity("fortnight")

	assert.Equal(t, model.GranularityMinute, scheduler.Granularity())
	assert.False(t, scheduler.Pending())
	assert.Equal(t, 0, clock.Pending())
}
