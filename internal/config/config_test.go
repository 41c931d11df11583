package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodtray/internal/core/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.True(t, config.Log.File)
	assert.Equal(t, 5, config.Log.MaxSizeMB)
	assert.Equal(t, 3, config.Log.MaxBackups)
	assert.Empty(t, config.Storage.DataDir)
	assert.Equal(t, "hour", config.Tracking.Granularity)
	assert.True(t, config.Tracking.Notify)
	assert.False(t, config.Tracking.TrackOnLaunch)
	assert.True(t, config.UI.Tray)
	assert.Equal(t, 500*time.Millisecond, config.UI.InitialBroadcastDelay)
}

func TestLoadReadsFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
  file: false
storage:
  data_dir: /tmp/moods
tracking:
  granularity: minute
  notify: false
  track_on_launch: true
ui:
  tray: false
  initial_broadcast_delay: 1s
`)

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.False(t, config.Log.File)
	assert.Equal(t, "/tmp/moods", config.Storage.DataDir)
	assert.Equal(t, "minute", config.Tracking.Granularity)
	assert.False(t, config.Tracking.Notify)
	assert.True(t, config.Tracking.TrackOnLaunch)
	assert.False(t, config.UI.Tray)
	assert.Equal(t, time.Second, config.UI.InitialBroadcastDelay)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "tracking:\n  granularity: hour\n")
	t.Setenv("MOODTRAY_TRACKING_GRANULARITY", "minute")
	t.Setenv("MOODTRAY_LOG_LEVEL", "warn")

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "minute", config.Tracking.Granularity)
	assert.Equal(t, "warn", config.Log.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "granularity", content: "tracking:\n  granularity: weekly\n"},
		{name: "level", content: "log:\n  level: loud\n"},
		{name: "format", content: "log:\n  format: xml\n"},
		{name: "size", content: "log:\n  max_size_mb: 0\n"},
		{name: "malformed", content: "log: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestTrackerConfig(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)

	tracker := config.TrackerConfig(true)
	assert.Equal(t, model.TrackerConfig{
		Granularity:           model.GranularityHour,
		Notify:                true,
		TrayEnabled:           true,
		QuitOnLastClose:       true,
		InitialBroadcastDelay: 500 * time.Millisecond,
	}, tracker)
}
