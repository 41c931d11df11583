package windows

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"moodtray/internal/core/ipc"
	"moodtray/internal/core/model"
)

type summaryView struct {
	status *widget.Label
	days   *widget.Accordion
	empty  *widget.Label
}

func (view *summaryView) SetStatus(status model.Status) {
	view.status.SetText(status.Label())
}

// show replaces the accordion contents. It must run on the UI thread.
func (view *summaryView) show(summary model.Summary) {
	days := summary.Days()
	items := make([]*widget.AccordionItem, 0, len(days))
	for _, day := range days {
		items = append(items, widget.NewAccordionItem(dayTitle(day), widget.NewLabel(dayDetail(day))))
	}
	view.days.Items = items
	if len(items) > 0 {
		view.days.Open(0)
		view.empty.Hide()
	} else {
		view.empty.Show()
	}
	view.days.Refresh()
}

func (factory *Factory) buildSummary(*handle) content {
	view := &summaryView{
		status: widget.NewLabel(model.StatusStopped.Label()),
		days:   widget.NewAccordion(),
		empty:  widget.NewLabel("No moods recorded yet."),
	}
	refresh := widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), func() {
		go factory.loadSummary(view)
	})

	return content{
		canvas: container.NewBorder(
			container.NewHBox(view.status),
			container.NewHBox(refresh),
			nil,
			nil,
			container.NewVScroll(container.NewVBox(view.empty, view.days)),
		),
		view: view,
		size: fyne.NewSize(420, 480),
		onShown: func() {
			go factory.loadSummary(view)
		},
	}
}

func (factory *Factory) loadSummary(view *summaryView) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	summary := model.Summary{}
	raw, err := factory.options.Bus.Invoke(ctx, ipc.ChannelGetMoodSummary, nil)
	if err == nil {
		err = json.Unmarshal(raw, &summary)
	}
	if err != nil {
		factory.logger.Warn().Err(err).Msg("unable to load mood summary")
	}

	fyne.Do(func() {
		view.show(summary)
	})
}

func dayTitle(day model.DaySummary) string {
	count := len(day.Records) + len(day.Raw)
	noun := "entries"
	if count == 1 {
		noun = "entry"
	}
	if average := day.Average(); average > 0 {
		return fmt.Sprintf("%s  (%d %s, average %.1f/5)", day.Day, count, noun, average)
	}
	return fmt.Sprintf("%s  (%d %s)", day.Day, count, noun)
}

func dayDetail(day model.DaySummary) string {
	lines := make([]string, 0, len(day.Records)+len(day.Raw))
	for _, record := range day.Records {
		lines = append(lines, recordLine(record))
	}
	for _, raw := range day.Raw {
		lines = append(lines, string(raw))
	}
	if len(lines) == 0 {
		return "No entries."
	}
	return strings.Join(lines, "\n")
}

func recordLine(record model.MoodRecord) string {
	at := "--:--"
	if !record.RecordedAt.IsZero() {
		at = record.RecordedAt.Local().Format("15:04")
	}
	line := fmt.Sprintf("%s  %s", at, moodLabel(record.Mood))
	if record.Note != "" {
		line += "  " + record.Note
	}
	return line
}
