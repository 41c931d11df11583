package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodtray/internal/core/model"
)

type fixedNow struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *fixedNow) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fixedNow) Set(now time.Time) {
	clock.mu.Lock()
	clock.now = now
	clock.mu.Unlock()
}

func newTestStore(t *testing.T, day time.Time) (*EntryStore, *fixedNow) {
	t.Helper()
	clock := &fixedNow{now: day}
	return NewEntryStore(t.TempDir(), clock.Now, zerolog.Nop()), clock
}

func decodeEntries(t *testing.T, entries []model.MoodEntry) []map[string]string {
	t.Helper()
	decoded := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		var value map[string]string
		require.NoError(t, json.Unmarshal(entry, &value))
		decoded = append(decoded, value)
	}
	return decoded
}

func TestAppendEntryAccumulatesInOrder(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, time.Date(2024, time.January, 1, 9, 0, 0, 0, time.Local))
	ctx := context.Background()

	require.NoError(t, store.AppendEntry(ctx, model.MoodEntry(`{"mood":"ok"}`)))
	require.NoError(t, store.AppendEntry(ctx, model.MoodEntry(`{"mood":"bad"}`)))

	rawData, err := os.ReadFile(filepath.Join(store.Dir(), "2024-01-01.json"))
	require.NoError(t, err)

	var onDisk []map[string]string
	require.NoError(t, json.Unmarshal(rawData, &onDisk))
	want := []map[string]string{{"mood": "ok"}, {"mood": "bad"}}
	if diff := cmp.Diff(want, onDisk); diff != "" {
		t.Fatalf("file contents mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, string(rawData), "\n  {", "file should be pretty-printed")
}

func TestAppendEntryKeepsDaysIndependent(t *testing.T) {
	t.Parallel()

	store, clock := newTestStore(t, time.Date(2024, time.January, 1, 23, 59, 0, 0, time.Local))
	ctx := context.Background()

	require.NoError(t, store.AppendEntry(ctx, model.MoodEntry(`{"mood":"ok"}`)))
	clock.Set(time.Date(2024, time.January, 2, 0, 1, 0, 0, time.Local))
	require.NoError(t, store.AppendEntry(ctx, model.MoodEntry(`{"mood":"great"}`)))

	first, err := store.ReadDay(ctx, "2024-01-01")
	require.NoError(t, err)
	second, err := store.ReadDay(ctx, "2024-01-02")
	require.NoError(t, err)

	assert.Equal(t, []map[string]string{{"mood": "ok"}}, decodeEntries(t, first))
	assert.Equal(t, []map[string]string{{"mood": "great"}}, decodeEntries(t, second))
}

func TestAppendEntryRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, time.Now())
	ctx := context.Background()

	assert.ErrorIs(t, store.AppendEntry(ctx, model.MoodEntry(`{"mood":`)), ErrInvalidEntry)
	assert.ErrorIs(t, store.AppendEntryForDay(ctx, "2024-13-01", model.MoodEntry(`{}`)), ErrInvalidDayKey)
	assert.ErrorIs(t, store.AppendEntryForDay(ctx, "../escape", model.MoodEntry(`{}`)), ErrInvalidDayKey)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, store.AppendEntry(cancelled, model.MoodEntry(`{}`)), context.Canceled)
}

func TestAppendEntryMovesCorruptFileAside(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, time.Date(2024, time.March, 5, 12, 0, 0, 0, time.Local))
	ctx := context.Background()
	require.NoError(t, os.MkdirAll(store.Dir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "2024-03-05.json"), []byte("not json"), 0o644))

	require.NoError(t, store.AppendEntry(ctx, model.MoodEntry(`{"mood":"ok"}`)))

	entries, err := store.ReadDay(ctx, "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, []map[string]string{{"mood": "ok"}}, decodeEntries(t, entries))

	files, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	var quarantined int
	for _, file := range files {
		if strings.Contains(file.Name(), ".corrupt-") {
			quarantined++
		}
	}
	assert.Equal(t, 1, quarantined)
}

func TestAppendEntryConcurrentWritersLoseNothing(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, time.Date(2024, time.June, 1, 8, 0, 0, 0, time.Local))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			assert.NoError(t, store.AppendEntry(ctx, model.MoodEntry(fmt.Sprintf(`{"n":"%d"}`, index))))
		}(i)
	}
	wg.Wait()

	entries, err := store.ReadDay(ctx, "2024-06-01")
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}

func TestReadSummaryEmptyStore(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, time.Now())
	summary := store.ReadSummary(context.Background())

	assert.NotNil(t, summary)
	assert.Empty(t, summary)
}

func TestReadSummarySkipsUnreadableDays(t *testing.T) {
	t.Parallel()

	store, clock := newTestStore(t, time.Date(2024, time.January, 1, 9, 0, 0, 0, time.Local))
	ctx := context.Background()

	require.NoError(t, store.AppendEntry(ctx, model.MoodEntry(`{"mood":"ok"}`)))
	require.NoError(t, store.AppendEntry(ctx, model.MoodEntry(`{"mood":"bad"}`)))
	clock.Set(time.Date(2024, time.January, 3, 9, 0, 0, 0, time.Local))
	require.NoError(t, store.AppendEntry(ctx, model.MoodEntry(`{"mood":"good"}`)))

	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "2024-01-02.json"), []byte(`[{"mood":`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "notes.json"), []byte(`[]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "2024-01-04.txt"), []byte(`[]`), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(store.Dir(), "2024-01-05.json"), 0o755))

	summary := store.ReadSummary(ctx)

	require.Len(t, summary, 2)
	assert.Equal(t, []map[string]string{{"mood": "ok"}, {"mood": "bad"}}, decodeEntries(t, summary["2024-01-01"]))
	assert.Equal(t, []map[string]string{{"mood": "good"}}, decodeEntries(t, summary["2024-01-03"]))
	assert.NotContains(t, summary, "2024-01-02")
}

func TestReadDayMissingAndEmptyFiles(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, time.Now())
	ctx := context.Background()

	entries, err := store.ReadDay(ctx, "2023-12-31")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	require.NoError(t, os.MkdirAll(store.Dir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "2023-12-30.json"), []byte("  \n"), 0o644))
	entries, err = store.ReadDay(ctx, "2023-12-30")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
