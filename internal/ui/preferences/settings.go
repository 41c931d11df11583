package preferences

import (
	"moodtray/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	Granularity   model.Granularity
	Notify        bool
	TrackOnLaunch bool
}

// DefaultSettings returns default settings for MoodTray.
func DefaultSettings() Settings {
	return Settings{
		Granularity:   model.GranularityHour,
		Notify:        true,
		TrackOnLaunch: false,
	}
}

// TrackerConfig overlays the settings on a base tracker configuration.
func (settings Settings) TrackerConfig(base model.TrackerConfig) model.TrackerConfig {
	config := base
	if settings.Granularity.Valid() {
		config.Granularity = settings.Granularity
	}
	config.Notify = settings.Notify
	config.TrackOnLaunch = settings.TrackOnLaunch
	return config
}

// FromTrackerConfig extracts the editable settings from a tracker configuration.
func FromTrackerConfig(config model.TrackerConfig) Settings {
	settings := DefaultSettings()
	if config.Granularity.Valid() {
		settings.Granularity = config.Granularity
	}
	settings.Notify = config.Notify
	settings.TrackOnLaunch = config.TrackOnLaunch
	return settings
}
