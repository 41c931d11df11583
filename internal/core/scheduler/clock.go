package scheduler

import (
	"sort"
	"sync"
	"time"
)

// Timer is a cancellable pending callback.
type Timer interface {
	Stop() bool
}

// Clock provides wall-clock time and one-shot timers.
// This interface allows time to be driven manually in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(delay time.Duration, fn func()) Timer
}

// RealClock uses the system clock.
type RealClock struct{}

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// AfterFunc wraps time.AfterFunc.
func (RealClock) AfterFunc(delay time.Duration, fn func()) Timer {
	return time.AfterFunc(delay, fn)
}

// ManualClock is a Clock whose time only moves on Advance or Set.
// Due callbacks run synchronously on the goroutine that moves the clock.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	nextID  uint64
	pending []*manualTimer
}

type manualTimer struct {
	clock *ManualClock
	id    uint64
	at    time.Time
	fn    func()
	done  bool
}

// NewManualClock creates a clock frozen at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current manual time.
func (clock *ManualClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

// AfterFunc registers fn to run once the clock reaches now+delay.
func (clock *ManualClock) AfterFunc(delay time.Duration, fn func()) Timer {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.nextID++
	timer := &manualTimer{
		clock: clock,
		id:    clock.nextID,
		at:    clock.now.Add(delay),
		fn:    fn,
	}
	clock.pending = append(clock.pending, timer)
	return timer
}

// Advance moves the clock forward and fires every timer that became due.
func (clock *ManualClock) Advance(delta time.Duration) {
	clock.Set(clock.Now().Add(delta))
}

// Set moves the clock to target and fires every timer that became due,
// in deadline order.
func (clock *ManualClock) Set(target time.Time) {
	for {
		clock.mu.Lock()
		due := clock.nextDueLocked(target)
		if due == nil {
			clock.now = target
			clock.mu.Unlock()
			return
		}
		due.done = true
		clock.removeLocked(due.id)
		if due.at.After(clock.now) {
			clock.now = due.at
		}
		clock.mu.Unlock()

		due.fn()
	}
}

// Pending returns the number of timers that have neither fired nor stopped.
func (clock *ManualClock) Pending() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return len(clock.pending)
}

func (clock *ManualClock) nextDueLocked(target time.Time) *manualTimer {
	candidates := make([]*manualTimer, 0, len(clock.pending))
	for _, timer := range clock.pending {
		if !timer.at.After(target) {
			candidates = append(candidates, timer)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].at.Before(candidates[j].at)
	})
	return candidates[0]
}

func (clock *ManualClock) removeLocked(id uint64) {
	for index, timer := range clock.pending {
		if timer.id == id {
			clock.pending = append(clock.pending[:index], clock.pending[index+1:]...)
			return
		}
	}
}

func (timer *manualTimer) Stop() bool {
	timer.clock.mu.Lock()
	defer timer.clock.mu.Unlock()
	if timer.done {
		return false
	}
	timer.done = true
	timer.clock.removeLocked(timer.id)
	return true
}
