package tray

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"moodtray/internal/core/model"
)

const menuTitle = "MoodTray"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnOpen           func()
	OnRecordMood     func()
	OnSummary        func()
	OnToggleTracking func()
	OnQuit           func()
}

// Icons are shown in the tray according to the tracking status.
type Icons struct {
	Active fyne.Resource
	Idle   fyne.Resource
}

// Manager handles system tray state. Its methods must run on the Fyne thread.
type Manager struct {
	app        desktop.App
	icons      Icons
	callbacks  Callbacks
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	status     model.Status
	nextTick   time.Time
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, icons Icons, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		icons:     icons,
		callbacks: callbacks,
		status:    model.StatusStopped,
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.toggleItem = fyne.NewMenuItem("", func() {
		invoke(manager.callbacks.OnToggleTracking)
	})

	manager.refresh()
	return manager
}

// SetStatus updates the status label, the toggle item and the icon.
func (manager *Manager) SetStatus(status model.Status, nextTick time.Time) {
	manager.status = status
	manager.nextTick = nextTick
	manager.refresh()
}

// Status returns the last status shown.
func (manager *Manager) Status() model.Status {
	return manager.status
}

func (manager *Manager) refresh() {
	manager.statusItem.Label = statusLabel(manager.status, manager.nextTick)
	if manager.status == model.StatusTracking {
		manager.toggleItem.Label = "Stop tracking"
	} else {
		manager.toggleItem.Label = "Start tracking"
	}

	if manager.app == nil {
		return
	}
	if icon := manager.icon(); icon != nil {
		manager.app.SetSystemTrayIcon(icon)
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open MoodTray", func() {
			invoke(manager.callbacks.OnOpen)
		}),
		fyne.NewMenuItem("Record mood now", func() {
			invoke(manager.callbacks.OnRecordMood)
		}),
		fyne.NewMenuItem("Summary", func() {
			invoke(manager.callbacks.OnSummary)
		}),
		manager.toggleItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			invoke(manager.callbacks.OnQuit)
		}),
	))
}

func (manager *Manager) icon() fyne.Resource {
	if manager.status == model.StatusTracking {
		return manager.icons.Active
	}
	return manager.icons.Idle
}

func statusLabel(status model.Status, nextTick time.Time) string {
	if status == model.StatusTracking && !nextTick.IsZero() {
		return fmt.Sprintf("%s, next check-in %s", status.Label(), nextTick.Format("15:04"))
	}
	return status.Label()
}

func invoke(callback func()) {
	if callback != nil {
		callback()
	}
}
