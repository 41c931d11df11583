package controller

import (
	"time"

	"moodtray/internal/core/model"
)

// EventType defines the type of controller event.
type EventType string

const (
	EventStatusChanged   EventType = "status_changed"
	EventTick            EventType = "tick"
	EventEntrySaved      EventType = "entry_saved"
	EventStoreError      EventType = "store_error"
	EventSettingsChanged EventType = "settings_changed"
	EventQuit            EventType = "quit"
)

// Event represents a controller update for observers such as the tray.
type Event struct {
	Type        EventType
	Status      model.Status
	Granularity model.Granularity
	NextTick    time.Time
	Message     string
	At          time.Time
}
