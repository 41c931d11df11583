package preferences

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"moodtray/internal/core/model"
)

const (
	labelEveryHour   = "Every hour"
	labelEveryMinute = "Every minute"
)

// Panel is the preferences form embedded in the main window.
type Panel struct {
	settings      Settings
	onSave        func(Settings)
	granularity   *widget.RadioGroup
	notify        *widget.Check
	trackOnLaunch *widget.Check
	saveButton    *widget.Button
	content       fyne.CanvasObject
}

// NewPanel creates a preferences panel. onSave receives the edited settings.
func NewPanel(settings Settings, onSave func(Settings)) *Panel {
	granularity := widget.NewRadioGroup([]string{labelEveryHour, labelEveryMinute}, nil)
	granularity.Horizontal = true
	granularity.Required = true

	notify := widget.NewCheck("Desktop notification on check-in", nil)
	trackOnLaunch := widget.NewCheck("Start tracking when MoodTray launches", nil)

	prefs := &Panel{
		onSave:        onSave,
		granularity:   granularity,
		notify:        notify,
		trackOnLaunch: trackOnLaunch,
	}
	prefs.saveButton = widget.NewButton("Save", prefs.handleSave)
	prefs.UpdateSettings(settings)

	prefs.content = container.NewVBox(
		widget.NewLabelWithStyle("Preferences", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Ask me"), granularity),
		notify,
		trackOnLaunch,
		container.NewHBox(layout.NewSpacer(), prefs.saveButton),
	)
	return prefs
}

// Content returns the panel widget tree.
func (prefs *Panel) Content() fyne.CanvasObject {
	return prefs.content
}

// Settings returns the last saved settings.
func (prefs *Panel) Settings() Settings {
	return prefs.settings
}

// UpdateSettings replaces panel values.
func (prefs *Panel) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.granularity.SetSelected(granularityLabel(settings.Granularity))
	prefs.notify.SetChecked(settings.Notify)
	prefs.trackOnLaunch.SetChecked(settings.TrackOnLaunch)
}

func (prefs *Panel) handleSave() {
	settings := prefs.settings
	settings.Granularity = granularityFromLabel(prefs.granularity.Selected)
	settings.Notify = prefs.notify.Checked
	settings.TrackOnLaunch = prefs.trackOnLaunch.Checked

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
}

func granularityLabel(granularity model.Granularity) string {
	if granularity == model.GranularityMinute {
		return labelEveryMinute
	}
	return labelEveryHour
}

func granularityFromLabel(label string) model.Granularity {
	if label == labelEveryMinute {
		return model.GranularityMinute
	}
	return model.GranularityHour
}
