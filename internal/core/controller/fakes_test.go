package controller

import (
	"context"
	"errors"

	"moodtray/internal/core/model"
)

type fakeWindow struct {
	kind        model.WindowKind
	hideOnClose bool
	onClosed    func()
	focusCount  int
	hidden      bool
	closed      bool
	statuses    []model.Status
}

func (window *fakeWindow) Focus() {
	window.focusCount++
	window.hidden = false
}

func (window *fakeWindow) Close() {
	if window.closed {
		return
	}
	window.closed = true
	window.onClosed()
}

func (window *fakeWindow) SendStatus(status model.Status) {
	window.statuses = append(window.statuses, status)
}

// userClose simulates the title bar close button.
func (window *fakeWindow) userClose() {
	if window.hideOnClose {
		window.hidden = true
		return
	}
	window.Close()
}

type fakeFactory struct {
	trayMode bool
	err      error
	created  map[model.WindowKind]int
	windows  []*fakeWindow
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{created: make(map[model.WindowKind]int)}
}

func (factory *fakeFactory) NewWindow(kind model.WindowKind, onClosed func()) (Window, error) {
	if factory.err != nil {
		return nil, factory.err
	}
	factory.created[kind]++
	window := &fakeWindow{
		kind:        kind,
		hideOnClose: factory.trayMode && kind == model.WindowMain,
		onClosed:    onClosed,
	}
	factory.windows = append(factory.windows, window)
	return window, nil
}

func (factory *fakeFactory) last(kind model.WindowKind) *fakeWindow {
	for index := len(factory.windows) - 1; index >= 0; index-- {
		if factory.windows[index].kind == kind {
			return factory.windows[index]
		}
	}
	return nil
}

type fakeStore struct {
	entries []model.MoodEntry
	err     error
	summary model.Summary
}

func (store *fakeStore) AppendEntry(_ context.Context, entry model.MoodEntry) error {
	if store.err != nil {
		return store.err
	}
	store.entries = append(store.entries, entry)
	return nil
}

func (store *fakeStore) ReadSummary(context.Context) model.Summary {
	if store.summary == nil {
		return model.Summary{}
	}
	return store.summary
}

type fakeNotifier struct {
	messages []string
	err      error
}

func (notifier *fakeNotifier) Notify(_, message string) error {
	notifier.messages = append(notifier.messages, message)
	return notifier.err
}

type fakeAutoLauncher struct {
	enabled bool
	err     error
}

func (launcher *fakeAutoLauncher) Enable() error {
	if launcher.err != nil {
		return launcher.err
	}
	launcher.enabled = true
	return nil
}

func (launcher *fakeAutoLauncher) Disable() error {
	if launcher.err != nil {
		return launcher.err
	}
	launcher.enabled = false
	return nil
}

func (launcher *fakeAutoLauncher) Enabled() (bool, error) {
	return launcher.enabled, launcher.err
}

var errDiskFull = errors.New("disk full")
