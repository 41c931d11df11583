package scheduler

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"moodtray/internal/core/model"
)

// TickFunc receives the boundary instant a tick was scheduled for.
type TickFunc func(at time.Time)

// Scheduler fires a callback at every aligned clock boundary while running.
type Scheduler struct {
	mu          sync.Mutex
	clock       Clock
	granularity model.Granularity
	onTick      TickFunc
	logger      zerolog.Logger
	timer       Timer
	next        time.Time
	generation  uint64
	running     bool
}

// New creates a stopped scheduler.
func New(clock Clock, granularity model.Granularity, onTick TickFunc, logger zerolog.Logger) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	if !granularity.Valid() {
		granularity = model.GranularityHour
	}
	return &Scheduler{
		clock:       clock,
		granularity: granularity,
		onTick:      onTick,
		logger:      logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start arms the next tick. Calling Start while running is a no-op.
func (scheduler *Scheduler) Start() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if scheduler.running {
		return
	}
	scheduler.running = true
	scheduler.armLocked()
}

// Stop cancels the pending tick. A tick that was already scheduled will not act.
func (scheduler *Scheduler) Stop() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.generation++
	wasRunning := scheduler.running
	scheduler.running = false
	scheduler.cancelLocked()
	if wasRunning {
		scheduler.logger.Debug().Msg("scheduler stopped")
	}
}

// SetGranularity changes the alignment unit and re-arms a pending tick.
func (scheduler *Scheduler) SetGranularity(granularity model.Granularity) {
	if !granularity.Valid() {
		return
	}
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if scheduler.granularity == granularity {
		return
	}
	scheduler.granularity = granularity
	if scheduler.timer == nil {
		return
	}
	scheduler.generation++
	scheduler.cancelLocked()
	scheduler.armLocked()
}

// Granularity returns the current alignment unit.
func (scheduler *Scheduler) Granularity() model.Granularity {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.granularity
}

// Running reports whether the scheduler is started.
func (scheduler *Scheduler) Running() bool {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.running
}

// Pending reports whether a tick is currently scheduled.
func (scheduler *Scheduler) Pending() bool {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.timer != nil
}

// NextTick returns the instant of the pending tick, or the zero time.
func (scheduler *Scheduler) NextTick() time.Time {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.next
}

func (scheduler *Scheduler) armLocked() {
	now := scheduler.clock.Now()
	delay := NextDelay(now, scheduler.granularity)
	generation := scheduler.generation
	scheduler.next = now.Add(delay)
	scheduler.timer = scheduler.clock.AfterFunc(delay, func() {
		scheduler.fire(generation)
	})

	scheduler.logger.Debug().
		Time("next_tick", scheduler.next).
		Dur("wait_duration", delay).
		Str("granularity", string(scheduler.granularity)).
		Msg("scheduled next tick")
}

func (scheduler *Scheduler) cancelLocked() {
	if scheduler.timer != nil {
		scheduler.timer.Stop()
		scheduler.timer = nil
	}
	scheduler.next = time.Time{}
}

func (scheduler *Scheduler) fire(generation uint64) {
	scheduler.mu.Lock()
	if !scheduler.running || generation != scheduler.generation {
		scheduler.mu.Unlock()
		return
	}
	at := scheduler.next
	scheduler.timer = nil
	// Arm before the callback so it observes the following tick. A Stop or
	// restart from inside the callback cancels this timer.
	scheduler.armLocked()
	onTick := scheduler.onTick
	scheduler.mu.Unlock()

	if onTick != nil {
		onTick(at)
	}
}
