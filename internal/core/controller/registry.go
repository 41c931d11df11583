package controller

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"moodtray/internal/core/model"
)

// ErrUnknownWindow indicates a window kind the registry does not manage.
var ErrUnknownWindow = errors.New("unknown window kind")

// Window is a live window handle owned by the registry.
type Window interface {
	// Focus reveals the window and brings it to the foreground.
	Focus()
	// Close destroys the window. The factory's close observer still fires.
	Close()
	// SendStatus pushes the tracking status to the window.
	SendStatus(status model.Status)
}

// WindowFactory constructs windows. onClosed must be called once the window
// has been destroyed, whether by the user or by Close.
type WindowFactory interface {
	NewWindow(kind model.WindowKind, onClosed func()) (Window, error)
}

type slot struct {
	id     uint64
	window Window
}

// Registry holds at most one live window per kind.
type Registry struct {
	factory WindowFactory
	slots   map[model.WindowKind]slot
	nextID  uint64
	logger  zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(factory WindowFactory, logger zerolog.Logger) *Registry {
	return &Registry{
		factory: factory,
		slots:   make(map[model.WindowKind]slot, len(model.WindowKinds)),
		logger:  logger.With().Str("component", "window-registry").Logger(),
	}
}

// Open focuses the live window of kind, or constructs one. onClosed receives
// the slot id so a late notification cannot clear a newer window.
func (registry *Registry) Open(kind model.WindowKind, onClosed func(kind model.WindowKind, id uint64)) (Window, bool, error) {
	if !kind.Valid() {
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownWindow, kind)
	}
	if current, ok := registry.slots[kind]; ok {
		current.window.Focus()
		registry.logger.Debug().Str("kind", string(kind)).Msg("focused existing window")
		return current.window, false, nil
	}

	registry.nextID++
	id := registry.nextID
	window, err := registry.factory.NewWindow(kind, func() {
		if onClosed != nil {
			onClosed(kind, id)
		}
	})
	if err != nil {
		return nil, false, fmt.Errorf("create %s window: %w", kind, err)
	}

	registry.slots[kind] = slot{id: id, window: window}
	registry.logger.Debug().Str("kind", string(kind)).Uint64("id", id).Msg("created window")
	return window, true, nil
}

// Close clears the slot of kind and destroys its window. It reports whether a
// window was live.
func (registry *Registry) Close(kind model.WindowKind) bool {
	current, ok := registry.slots[kind]
	if !ok {
		return false
	}
	delete(registry.slots, kind)
	current.window.Close()
	return true
}

// Release clears the slot of kind if it still holds window id. It reports
// whether the slot was cleared.
func (registry *Registry) Release(kind model.WindowKind, id uint64) bool {
	current, ok := registry.slots[kind]
	if !ok || current.id != id {
		return false
	}
	delete(registry.slots, kind)
	registry.logger.Debug().Str("kind", string(kind)).Uint64("id", id).Msg("window closed")
	return true
}

// Has reports whether kind has a live window.
func (registry *Registry) Has(kind model.WindowKind) bool {
	_, ok := registry.slots[kind]
	return ok
}

// Len returns the number of live windows.
func (registry *Registry) Len() int {
	return len(registry.slots)
}

// Live returns the live windows in kind order.
func (registry *Registry) Live() []Window {
	windows := make([]Window, 0, len(registry.slots))
	for _, kind := range model.WindowKinds {
		if current, ok := registry.slots[kind]; ok {
			windows = append(windows, current.window)
		}
	}
	return windows
}

// CloseAll destroys every live window.
func (registry *Registry) CloseAll() {
	for _, kind := range model.WindowKinds {
		registry.Close(kind)
	}
}
