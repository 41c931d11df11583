// Package windows builds the Fyne windows managed by the controller's
// registry. Every Fyne call is hopped onto the UI thread with fyne.Do, so the
// dispatch loop never blocks on rendering.
package windows

import (
	"context"
	"encoding/json"
	"fmt"

	"fyne.io/fyne/v2"
	"github.com/rs/zerolog"

	"moodtray/internal/core/controller"
	"moodtray/internal/core/ipc"
	"moodtray/internal/core/model"
	"moodtray/internal/ui/preferences"
)

// Bus is the message surface windows use to reach the core.
type Bus interface {
	Send(ctx context.Context, channel ipc.Channel, payload any) error
	Invoke(ctx context.Context, channel ipc.Channel, payload any) (json.RawMessage, error)
}

// statusView is implemented by window contents that display the status.
type statusView interface {
	SetStatus(status model.Status)
}

type content struct {
	canvas fyne.CanvasObject
	view   statusView
	size   fyne.Size
	// onShown runs on the UI thread after the window is first shown.
	onShown func()
}

// Options configures a Factory.
type Options struct {
	App      fyne.App
	Bus      Bus
	TrayMode bool
	Icon     fyne.Resource
	// Settings and OnSettingsSaved back the preferences panel of the main window.
	Settings        func() preferences.Settings
	OnSettingsSaved func(preferences.Settings)
	Logger          zerolog.Logger
}

// Factory creates Fyne windows for the registry.
type Factory struct {
	options Options
	logger  zerolog.Logger
}

// NewFactory creates a window factory.
func NewFactory(options Options) *Factory {
	return &Factory{
		options: options,
		logger:  options.Logger.With().Str("component", "windows").Logger(),
	}
}

var _ controller.WindowFactory = (*Factory)(nil)

// NewWindow schedules construction of a window of kind on the UI thread and
// returns its handle immediately.
func (factory *Factory) NewWindow(kind model.WindowKind, onClosed func()) (controller.Window, error) {
	build, err := factory.builder(kind)
	if err != nil {
		return nil, err
	}

	handle := &handle{kind: kind}
	fyne.Do(func() {
		window := factory.options.App.NewWindow(title(kind))
		if factory.options.Icon != nil {
			window.SetIcon(factory.options.Icon)
		}
		built := build(handle)
		window.SetContent(built.canvas)
		window.Resize(built.size)
		window.CenterOnScreen()
		if kind == model.WindowMain && factory.options.TrayMode {
			window.SetCloseIntercept(window.Hide)
		}
		window.SetOnClosed(func() {
			handle.closed = true
			factory.logger.Debug().Str("kind", string(kind)).Msg("window destroyed")
			if onClosed != nil {
				onClosed()
			}
		})

		handle.window = window
		handle.view = built.view
		window.Show()
		if built.onShown != nil {
			built.onShown()
		}
	})
	return handle, nil
}

func (factory *Factory) builder(kind model.WindowKind) (func(*handle) content, error) {
	switch kind {
	case model.WindowMain:
		return factory.buildMain, nil
	case model.WindowForm:
		return factory.buildForm, nil
	case model.WindowSummary:
		return factory.buildSummary, nil
	default:
		return nil, fmt.Errorf("%w: %q", controller.ErrUnknownWindow, kind)
	}
}

func title(kind model.WindowKind) string {
	switch kind {
	case model.WindowForm:
		return "How are you feeling?"
	case model.WindowSummary:
		return "Mood summary"
	default:
		return "MoodTray"
	}
}

// handle is the registry's view of a Fyne window. Its fields are only touched
// on the UI thread.
type handle struct {
	kind   model.WindowKind
	window fyne.Window
	view   statusView
	closed bool
}

// Focus reveals and raises the window.
func (h *handle) Focus() {
	fyne.Do(func() {
		if h.window == nil || h.closed {
			return
		}
		h.window.Show()
		h.window.RequestFocus()
	})
}

// Close destroys the window.
func (h *handle) Close() {
	fyne.Do(func() {
		if h.window == nil || h.closed {
			return
		}
		h.window.Close()
	})
}

// SendStatus updates the window's status display.
func (h *handle) SendStatus(status model.Status) {
	fyne.Do(func() {
		if h.view == nil || h.closed {
			return
		}
		h.view.SetStatus(status)
	})
}

// send delivers a notification from a UI callback. Failures only mean the
// core is shutting down.
func (factory *Factory) send(channel ipc.Channel, payload any) {
	if err := factory.options.Bus.Send(context.Background(), channel, payload); err != nil {
		factory.logger.Warn().Err(err).Str("channel", string(channel)).Msg("unable to reach core")
	}
}
