package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"moodtray/internal/core/model"
)

func TestSummaryEmpty(t *testing.T) {
	t.Parallel()

	output := Summary(model.Summary{})

	assert.Contains(t, output, "Mood summary")
	assert.Contains(t, output, "days: 0")
	assert.Contains(t, output, "No moods recorded yet.")
}

func TestSummaryListsDaysNewestFirst(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, time.May, 3, 8, 15, 0, 0, time.Local)
	entry, err := model.NewMoodEntry(model.MoodGreat, "sunny", at)
	assert.NoError(t, err)

	output := Summary(model.Summary{
		"2024-05-02": {model.MoodEntry(`"legacy"`)},
		"2024-05-03": {entry},
		"2024-05-01": {},
	})

	assert.Contains(t, output, "days: 3")
	assert.Contains(t, output, "2024-05-03  average 5.0/5")
	assert.Contains(t, output, "08:15")
	assert.Contains(t, output, "sunny")
	assert.Contains(t, output, `"legacy"`)
	assert.Contains(t, output, "No entries.")

	newest := strings.Index(output, "2024-05-03")
	oldest := strings.Index(output, "2024-05-01")
	assert.Less(t, newest, oldest)
}
