package windows

import (
	"context"
	"encoding/json"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"moodtray/internal/core/ipc"
	"moodtray/internal/core/model"
	"moodtray/internal/ui/preferences"
)

const callTimeout = 5 * time.Second

type mainView struct {
	status      *widget.Label
	startButton *widget.Button
	stopButton  *widget.Button
}

func (view *mainView) SetStatus(status model.Status) {
	view.status.SetText(status.Label())
	if status == model.StatusTracking {
		view.startButton.Disable()
		view.stopButton.Enable()
		return
	}
	view.startButton.Enable()
	view.stopButton.Disable()
}

func (factory *Factory) buildMain(*handle) content {
	view := &mainView{
		status: widget.NewLabelWithStyle(model.StatusStopped.Label(), fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		startButton: widget.NewButtonWithIcon("Start tracking", theme.MediaPlayIcon(), func() {
			factory.send(ipc.ChannelStartTracking, nil)
		}),
		stopButton: widget.NewButtonWithIcon("Stop tracking", theme.MediaStopIcon(), func() {
			factory.send(ipc.ChannelStopTracking, nil)
		}),
	}
	view.SetStatus(model.StatusStopped)

	record := widget.NewButtonWithIcon("Record mood now", theme.DocumentCreateIcon(), func() {
		factory.send(ipc.ChannelOpenFormWindow, nil)
	})
	summary := widget.NewButtonWithIcon("Summary", theme.ListIcon(), func() {
		factory.send(ipc.ChannelOpenSummaryWindow, nil)
	})
	quit := widget.NewButtonWithIcon("Quit", theme.LogoutIcon(), func() {
		factory.send(ipc.ChannelQuit, nil)
	})

	settings := preferences.DefaultSettings()
	if factory.options.Settings != nil {
		settings = factory.options.Settings()
	}
	panel := preferences.NewPanel(settings, func(saved preferences.Settings) {
		if factory.options.OnSettingsSaved != nil {
			factory.options.OnSettingsSaved(saved)
		}
	})

	autoLaunch := widget.NewCheck("Launch at login", nil)
	autoLaunch.Disable()
	autoLaunchError := widget.NewLabel("")
	autoLaunchError.Hide()

	body := container.NewVBox(
		view.status,
		container.NewGridWithColumns(2, view.startButton, view.stopButton),
		container.NewGridWithColumns(2, record, summary),
		widget.NewSeparator(),
		panel.Content(),
		widget.NewSeparator(),
		autoLaunch,
		autoLaunchError,
	)

	return content{
		canvas: container.NewBorder(nil, quit, nil, nil, container.NewPadded(body)),
		view:   view,
		size:   fyne.NewSize(420, 380),
		onShown: func() {
			go factory.loadAutoLaunch(autoLaunch, autoLaunchError)
		},
	}
}

// loadAutoLaunch queries the login item state off the UI thread, then wires
// the check box.
func (factory *Factory) loadAutoLaunch(check *widget.Check, errorLabel *widget.Label) {
	enabled, err := factory.autoLaunchEnabled()
	fyne.Do(func() {
		if err != nil {
			showError(errorLabel, "Launch at login is unavailable: "+err.Error())
			return
		}
		check.Checked = enabled
		check.Refresh()
		check.Enable()
		check.OnChanged = func(checked bool) {
			check.Disable()
			go factory.setAutoLaunch(check, errorLabel, checked)
		}
	})
}

func (factory *Factory) setAutoLaunch(check *widget.Check, errorLabel *widget.Label, enable bool) {
	channel := ipc.ChannelDisableAutoLaunch
	if enable {
		channel = ipc.ChannelEnableAutoLaunch
	}

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	_, err := factory.options.Bus.Invoke(ctx, channel, nil)
	if err != nil {
		factory.logger.Warn().Err(err).Bool("enable", enable).Msg("unable to change launch at login")
	}

	fyne.Do(func() {
		if err != nil {
			check.Checked = !enable
			check.Refresh()
			showError(errorLabel, err.Error())
		} else {
			errorLabel.Hide()
		}
		check.Enable()
	})
}

func (factory *Factory) autoLaunchEnabled() (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	raw, err := factory.options.Bus.Invoke(ctx, ipc.ChannelIsAutoLaunchEnabled, nil)
	if err != nil {
		return false, err
	}
	var enabled bool
	if err := json.Unmarshal(raw, &enabled); err != nil {
		return false, err
	}
	return enabled, nil
}

func showError(label *widget.Label, message string) {
	label.SetText(message)
	label.Show()
}
