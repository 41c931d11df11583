package windows

import (
	"encoding/json"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodtray/internal/core/controller"
	"moodtray/internal/core/model"
)

func TestMoodLabelsRoundTrip(t *testing.T) {
	t.Parallel()

	labels := moodLabels()
	require.Len(t, labels, len(model.Moods))
	assert.Equal(t, "Great", labels[0])
	for index, label := range labels {
		assert.Equal(t, model.Moods[index], moodFromLabel(label))
	}
}

func TestDayTitle(t *testing.T) {
	t.Parallel()

	day := model.DaySummary{
		Day: "2024-05-03",
		Records: []model.MoodRecord{
			{Mood: model.MoodGreat},
			{Mood: model.MoodOk},
		},
	}
	assert.Equal(t, "2024-05-03  (2 entries, average 4.0/5)", dayTitle(day))

	single := model.DaySummary{Day: "2024-05-04", Raw: []model.MoodEntry{model.MoodEntry(`[]`)}}
	assert.Equal(t, "2024-05-04  (1 entry)", dayTitle(single))
}

func TestDayDetail(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, time.May, 3, 9, 30, 0, 0, time.Local)
	day := model.DaySummary{
		Records: []model.MoodRecord{
			{Mood: model.MoodGood, Note: "coffee", RecordedAt: at},
			{Mood: model.MoodBad},
		},
		Raw: []model.MoodEntry{model.MoodEntry(`42`)},
	}

	assert.Equal(t, "09:30  Good  coffee\n--:--  Bad\n42", dayDetail(day))
	assert.Equal(t, "No entries.", dayDetail(model.DaySummary{}))
}

func TestFormViewSubmitsSelectedMood(t *testing.T) {
	test.NewTempApp(t)

	at := time.Date(2024, time.May, 3, 14, 0, 0, 0, time.UTC)
	var saved []model.MoodEntry
	view := newFormView(func() time.Time { return at }, func(entry model.MoodEntry) {
		saved = append(saved, entry)
	})
	assert.True(t, view.submit.Disabled())

	view.moods.SetSelected("Ok")
	test.Type(view.note, "long meeting")
	assert.False(t, view.submit.Disabled())
	test.Tap(view.submit)

	require.Len(t, saved, 1)
	var record model.MoodRecord
	require.NoError(t, json.Unmarshal(saved[0], &record))
	assert.Equal(t, model.MoodOk, record.Mood)
	assert.Equal(t, "long meeting", record.Note)
	assert.True(t, record.RecordedAt.Equal(at))
	assert.True(t, view.submit.Disabled(), "a form is submitted once")
}

func TestSummaryViewShowsNewestDayFirst(t *testing.T) {
	test.NewTempApp(t)

	view := &summaryView{
		status: widget.NewLabel(""),
		days:   widget.NewAccordion(),
		empty:  widget.NewLabel(""),
	}
	view.show(model.Summary{})
	assert.Empty(t, view.days.Items)
	assert.True(t, view.empty.Visible())

	view.show(model.Summary{
		"2024-05-01": {model.MoodEntry(`{"mood":"bad"}`)},
		"2024-05-02": {model.MoodEntry(`{"mood":"good"}`)},
	})
	require.Len(t, view.days.Items, 2)
	assert.Contains(t, view.days.Items[0].Title, "2024-05-02")
	assert.True(t, view.days.Items[0].Open)
	assert.False(t, view.empty.Visible())

	view.SetStatus(model.StatusTracking)
	assert.Equal(t, "Tracking active", view.status.Text)
}

func TestFactoryRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	factory := NewFactory(Options{Logger: zerolog.Nop()})
	_, err := factory.NewWindow("preferences", nil)
	assert.ErrorIs(t, err, controller.ErrUnknownWindow)
}
