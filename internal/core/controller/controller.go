package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"moodtray/internal/core/model"
	"moodtray/internal/core/scheduler"
)

// ErrAutoLaunchUnavailable indicates no login-item collaborator was configured.
var ErrAutoLaunchUnavailable = errors.New("auto-launch unavailable")

// EntryStore is the persistence gateway for mood entries.
type EntryStore interface {
	AppendEntry(ctx context.Context, entry model.MoodEntry) error
	ReadSummary(ctx context.Context) model.Summary
}

// AutoLauncher registers the application as an OS login item.
type AutoLauncher interface {
	Enable() error
	Disable() error
	Enabled() (bool, error)
}

// Notifier shows a desktop notification.
type Notifier interface {
	Notify(title, message string) error
}

// Options configures a Controller.
type Options struct {
	Config       model.TrackerConfig
	Clock        scheduler.Clock
	Factory      WindowFactory
	Store        EntryStore
	AutoLauncher AutoLauncher
	Notifier     Notifier
	// Dispatch runs a task on the dispatch loop. Timer callbacks and window
	// close notifications go through it. Defaults to running inline.
	Dispatch func(task func())
	// Quit terminates the process.
	Quit   func()
	Logger zerolog.Logger
}

// Controller owns the tracking session, the window registry and the status
// broadcaster. Its methods must be called from a single dispatch goroutine.
type Controller struct {
	config       model.TrackerConfig
	clock        scheduler.Clock
	registry     *Registry
	scheduler    *scheduler.Scheduler
	store        EntryStore
	autoLauncher AutoLauncher
	notifier     Notifier
	dispatch     func(func())
	quit         func()
	logger       zerolog.Logger

	active     bool
	ready      bool
	quitting   bool
	readyTimer scheduler.Timer

	subMu       sync.Mutex
	subscribers []chan Event
}

// New creates a Controller with tracking stopped.
func New(options Options) *Controller {
	if options.Clock == nil {
		options.Clock = scheduler.RealClock{}
	}
	if options.Dispatch == nil {
		options.Dispatch = func(task func()) { task() }
	}
	if options.Quit == nil {
		options.Quit = func() {}
	}
	if !options.Config.Granularity.Valid() {
		options.Config.Granularity = model.GranularityHour
	}

	controller := &Controller{
		config:       options.Config,
		clock:        options.Clock,
		registry:     NewRegistry(options.Factory, options.Logger),
		store:        options.Store,
		autoLauncher: options.AutoLauncher,
		notifier:     options.Notifier,
		dispatch:     options.Dispatch,
		quit:         options.Quit,
		logger:       options.Logger.With().Str("component", "controller").Logger(),
	}
	controller.scheduler = scheduler.New(options.Clock, options.Config.Granularity, func(at time.Time) {
		controller.dispatch(func() {
			controller.handleTick(at)
		})
	}, options.Logger)

	return controller
}

// Subscribe registers a new observer channel. Slow observers miss events.
func (controller *Controller) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	controller.subMu.Lock()
	controller.subscribers = append(controller.subscribers, ch)
	controller.subMu.Unlock()
	return ch
}

// Active reports whether tracking is on.
func (controller *Controller) Active() bool {
	return controller.active
}

// Status returns the status derived from the session.
func (controller *Controller) Status() model.Status {
	return model.StatusFor(controller.active)
}

// Config returns the current tracker configuration.
func (controller *Controller) Config() model.TrackerConfig {
	return controller.config
}

// Registry exposes the window registry.
func (controller *Controller) Registry() *Registry {
	return controller.registry
}

// NextTick returns the pending tick instant, or the zero time.
func (controller *Controller) NextTick() time.Time {
	return controller.scheduler.NextTick()
}

// Pending reports whether a tick is scheduled.
func (controller *Controller) Pending() bool {
	return controller.scheduler.Pending()
}

// StartTracking turns tracking on and broadcasts the status. Calling it while
// tracking only re-broadcasts.
func (controller *Controller) StartTracking() {
	if controller.quitting {
		return
	}
	if !controller.active {
		controller.active = true
		controller.scheduler.Start()
		controller.logger.Info().
			Str("granularity", string(controller.config.Granularity)).
			Time("next_tick", controller.scheduler.NextTick()).
			Msg("tracking started")
	}
	controller.BroadcastStatus()
}

// StopTracking turns tracking off, cancels any pending tick and broadcasts.
func (controller *Controller) StopTracking() {
	wasActive := controller.active
	controller.active = false
	controller.scheduler.Stop()
	if wasActive {
		controller.logger.Info().Msg("tracking stopped")
	}
	controller.BroadcastStatus()
}

// BroadcastStatus pushes the current status to every live window and observer.
func (controller *Controller) BroadcastStatus() model.Status {
	status := controller.Status()
	for _, window := range controller.registry.Live() {
		window.SendStatus(status)
	}
	controller.emit(Event{
		Type:        EventStatusChanged,
		Status:      status,
		Granularity: controller.config.Granularity,
		NextTick:    controller.scheduler.NextTick(),
		At:          controller.clock.Now(),
	})
	return status
}

// Open focuses or creates the window of kind. A newly created window receives
// the current status.
func (controller *Controller) Open(kind model.WindowKind) error {
	if controller.quitting {
		return nil
	}
	window, created, err := controller.registry.Open(kind, controller.onWindowClosed)
	if err != nil {
		controller.logger.Error().Err(err).Str("kind", string(kind)).Msg("failed to open window")
		return err
	}
	if created {
		window.SendStatus(controller.Status())
	}
	return nil
}

// FormSubmitted closes the form window and clears its slot.
func (controller *Controller) FormSubmitted() {
	if controller.registry.Close(model.WindowForm) {
		controller.logger.Debug().Msg("form submitted, window closed")
		controller.afterWindowClosed()
	}
}

// SaveMoodEntry forwards entry to the store. Failures are logged and reported
// to observers, never to the caller's UI.
func (controller *Controller) SaveMoodEntry(ctx context.Context, entry model.MoodEntry) error {
	if controller.store == nil {
		return nil
	}
	if err := controller.store.AppendEntry(ctx, entry); err != nil {
		controller.logger.Error().Err(err).Msg("failed to save mood entry")
		controller.emit(Event{Type: EventStoreError, Message: err.Error(), At: controller.clock.Now()})
		return err
	}
	controller.emit(Event{Type: EventEntrySaved, At: controller.clock.Now()})
	return nil
}

// GetMoodSummary returns every recorded day. It never fails.
func (controller *Controller) GetMoodSummary(ctx context.Context) model.Summary {
	if controller.store == nil {
		return model.Summary{}
	}
	return controller.store.ReadSummary(ctx)
}

// EnableAutoLaunch registers the login item.
func (controller *Controller) EnableAutoLaunch() error {
	if controller.autoLauncher == nil {
		return ErrAutoLaunchUnavailable
	}
	return controller.autoLauncher.Enable()
}

// DisableAutoLaunch removes the login item.
func (controller *Controller) DisableAutoLaunch() error {
	if controller.autoLauncher == nil {
		return ErrAutoLaunchUnavailable
	}
	return controller.autoLauncher.Disable()
}

// IsAutoLaunchEnabled reports whether the login item exists.
func (controller *Controller) IsAutoLaunchEnabled() (bool, error) {
	if controller.autoLauncher == nil {
		return false, ErrAutoLaunchUnavailable
	}
	return controller.autoLauncher.Enabled()
}

// ApplySettings updates the alignment unit and notification flag.
func (controller *Controller) ApplySettings(granularity model.Granularity, notify bool) error {
	if !granularity.Valid() {
		return model.ErrInvalidGranularity
	}
	controller.config.Granularity = granularity
	controller.config.Notify = notify
	controller.scheduler.SetGranularity(granularity)
	controller.emit(Event{
		Type:        EventSettingsChanged,
		Status:      controller.Status(),
		Granularity: granularity,
		NextTick:    controller.scheduler.NextTick(),
		At:          controller.clock.Now(),
	})
	return nil
}

// Ready is called once the windowing system can create windows. It opens the
// main window and schedules the initial status broadcast.
func (controller *Controller) Ready() {
	if controller.ready || controller.quitting {
		return
	}
	controller.ready = true
	_ = controller.Open(model.WindowMain)

	if controller.config.TrackOnLaunch {
		controller.StartTracking()
	}

	// Windows attach their status listeners asynchronously after creation.
	controller.readyTimer = controller.clock.AfterFunc(controller.config.InitialBroadcastDelay, func() {
		controller.dispatch(func() {
			controller.readyTimer = nil
			if !controller.quitting {
				controller.BroadcastStatus()
			}
		})
	})
}

// Activate reopens the main window when nothing is showing.
func (controller *Controller) Activate() {
	if controller.registry.Len() == 0 {
		_ = controller.Open(model.WindowMain)
	}
}

// Quit stops tracking, notifies observers and terminates the process.
func (controller *Controller) Quit() {
	if controller.quitting {
		return
	}
	controller.quitting = true
	controller.active = false
	controller.scheduler.Stop()
	if controller.readyTimer != nil {
		controller.readyTimer.Stop()
		controller.readyTimer = nil
	}
	controller.logger.Info().Int("windows", controller.registry.Len()).Msg("quit requested")
	// Slots are cleared first, so the close observers see no live window.
	controller.registry.CloseAll()
	controller.emit(Event{Type: EventQuit, At: controller.clock.Now()})
	controller.closeSubscribers()
	controller.quit()
}

func (controller *Controller) handleTick(at time.Time) {
	// Tracking may have stopped while the tick was queued.
	if !controller.active || controller.quitting {
		controller.logger.Debug().Time("tick", at).Msg("ignoring tick while stopped")
		return
	}

	controller.logger.Info().Time("tick", at).Msg("prompting for mood")
	controller.emit(Event{
		Type:     EventTick,
		Status:   controller.Status(),
		NextTick: controller.scheduler.NextTick(),
		At:       at,
	})
	_ = controller.Open(model.WindowForm)

	if controller.config.Notify && controller.notifier != nil {
		if err := controller.notifier.Notify("MoodTray", "How are you feeling right now?"); err != nil {
			controller.logger.Warn().Err(err).Msg("unable to display notification")
		}
	}
}

func (controller *Controller) onWindowClosed(kind model.WindowKind, id uint64) {
	controller.dispatch(func() {
		controller.handleWindowClosed(kind, id)
	})
}

func (controller *Controller) handleWindowClosed(kind model.WindowKind, id uint64) {
	if controller.registry.Release(kind, id) {
		controller.afterWindowClosed()
	}
}

// afterWindowClosed applies the process lifetime policy. In tray mode only Quit
// terminates the process.
func (controller *Controller) afterWindowClosed() {
	if controller.config.TrayEnabled || !controller.config.QuitOnLastClose {
		return
	}
	if controller.registry.Len() == 0 {
		controller.logger.Info().Msg("last window closed")
		controller.Quit()
	}
}

func (controller *Controller) emit(event Event) {
	controller.subMu.Lock()
	defer controller.subMu.Unlock()
	for _, ch := range controller.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

func (controller *Controller) closeSubscribers() {
	controller.subMu.Lock()
	subscribers := controller.subscribers
	controller.subscribers = nil
	controller.subMu.Unlock()

	for _, ch := range subscribers {
		close(ch)
	}
}
