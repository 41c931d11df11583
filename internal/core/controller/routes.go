package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"moodtray/internal/core/ipc"
	"moodtray/internal/core/model"
)

// SettingsPayload is the body of an apply-settings notification.
type SettingsPayload struct {
	Granularity model.Granularity `json:"granularity"`
	Notify      bool              `json:"notify"`
}

// StatusReply is the result of a get-status call.
type StatusReply struct {
	Status      model.Status      `json:"status"`
	Granularity model.Granularity `json:"granularity"`
	Notify      bool              `json:"notify"`
	NextTick    *time.Time        `json:"next_tick,omitempty"`
}

// Bind routes every bus channel to the controller.
func Bind(bus *ipc.Bus, controller *Controller) {
	openWindow := func(kind model.WindowKind) ipc.NotificationHandler {
		return func(json.RawMessage) {
			_ = controller.Open(kind)
		}
	}

	bus.On(ipc.ChannelOpenMainWindow, openWindow(model.WindowMain))
	bus.On(ipc.ChannelOpenFormWindow, openWindow(model.WindowForm))
	bus.On(ipc.ChannelOpenSummaryWindow, openWindow(model.WindowSummary))
	bus.On(ipc.ChannelFormSubmitted, func(json.RawMessage) {
		controller.FormSubmitted()
	})
	bus.On(ipc.ChannelStartTracking, func(json.RawMessage) {
		controller.StartTracking()
	})
	bus.On(ipc.ChannelStopTracking, func(json.RawMessage) {
		controller.StopTracking()
	})
	bus.On(ipc.ChannelSaveMoodEntry, func(payload json.RawMessage) {
		_ = controller.SaveMoodEntry(context.Background(), model.MoodEntry(payload))
	})
	bus.On(ipc.ChannelApplySettings, func(payload json.RawMessage) {
		var settings SettingsPayload
		if err := json.Unmarshal(payload, &settings); err != nil {
			controller.logger.Warn().Err(err).Msg("ignoring malformed settings payload")
			return
		}
		if err := controller.ApplySettings(settings.Granularity, settings.Notify); err != nil {
			controller.logger.Warn().Err(err).Msg("ignoring invalid settings")
		}
	})
	bus.On(ipc.ChannelReady, func(json.RawMessage) {
		controller.Ready()
	})
	bus.On(ipc.ChannelActivate, func(json.RawMessage) {
		controller.Activate()
	})
	bus.On(ipc.ChannelQuit, func(json.RawMessage) {
		controller.Quit()
	})

	bus.Handle(ipc.ChannelGetMoodSummary, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return controller.GetMoodSummary(ctx), nil
	})
	bus.Handle(ipc.ChannelEnableAutoLaunch, func(context.Context, json.RawMessage) (any, error) {
		if err := controller.EnableAutoLaunch(); err != nil {
			return nil, fmt.Errorf("enable auto-launch: %w", err)
		}
		return true, nil
	})
	bus.Handle(ipc.ChannelDisableAutoLaunch, func(context.Context, json.RawMessage) (any, error) {
		if err := controller.DisableAutoLaunch(); err != nil {
			return nil, fmt.Errorf("disable auto-launch: %w", err)
		}
		return false, nil
	})
	bus.Handle(ipc.ChannelIsAutoLaunchEnabled, func(context.Context, json.RawMessage) (any, error) {
		return controller.IsAutoLaunchEnabled()
	})
	bus.Handle(ipc.ChannelGetStatus, func(context.Context, json.RawMessage) (any, error) {
		reply := StatusReply{
			Status:      controller.Status(),
			Granularity: controller.config.Granularity,
			Notify:      controller.config.Notify,
		}
		if next := controller.NextTick(); !next.IsZero() {
			reply.NextTick = &next
		}
		return reply, nil
	})
}
