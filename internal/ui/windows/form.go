package windows

import (
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"moodtray/internal/core/ipc"
	"moodtray/internal/core/model"
)

type formView struct {
	moods  *widget.RadioGroup
	note   *widget.Entry
	submit *widget.Button
	now    func() time.Time
	onSave func(entry model.MoodEntry)
}

func newFormView(now func() time.Time, onSave func(entry model.MoodEntry)) *formView {
	view := &formView{now: now, onSave: onSave}

	view.moods = widget.NewRadioGroup(moodLabels(), func(selected string) {
		if selected == "" {
			view.submit.Disable()
			return
		}
		view.submit.Enable()
	})
	view.note = widget.NewMultiLineEntry()
	view.note.SetPlaceHolder("Anything worth remembering? (optional)")
	view.note.Wrapping = fyne.TextWrapWord
	view.submit = widget.NewButton("Save", view.handleSubmit)
	view.submit.Importance = widget.HighImportance
	view.submit.Disable()
	return view
}

func (view *formView) handleSubmit() {
	mood := moodFromLabel(view.moods.Selected)
	entry, err := model.NewMoodEntry(mood, view.note.Text, view.now())
	if err != nil {
		return
	}
	view.submit.Disable()
	view.onSave(entry)
}

func (view *formView) canvas() fyne.CanvasObject {
	return container.NewPadded(container.NewBorder(
		widget.NewLabelWithStyle("How are you feeling right now?", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(layout.NewSpacer(), view.submit),
		nil,
		nil,
		container.NewVBox(view.moods, view.note),
	))
}

func (factory *Factory) buildForm(*handle) content {
	view := newFormView(time.Now, func(entry model.MoodEntry) {
		// The entry is queued ahead of form-submitted, so it is stored
		// before the window closes.
		factory.send(ipc.ChannelSaveMoodEntry, entry)
		factory.send(ipc.ChannelFormSubmitted, nil)
	})
	return content{canvas: view.canvas(), size: fyne.NewSize(360, 300)}
}

func moodLabels() []string {
	labels := make([]string, 0, len(model.Moods))
	for _, mood := range model.Moods {
		labels = append(labels, moodLabel(mood))
	}
	return labels
}

func moodLabel(mood model.Mood) string {
	value := string(mood)
	if value == "" {
		return ""
	}
	return strings.ToUpper(value[:1]) + value[1:]
}

func moodFromLabel(label string) model.Mood {
	return model.Mood(strings.ToLower(label))
}
