package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"moodtray/internal/core/controller"
	"moodtray/internal/core/ipc"
	"moodtray/internal/core/model"
	"moodtray/internal/core/scheduler"
	"moodtray/internal/platform"
	"moodtray/internal/storage"
	"moodtray/internal/ui/preferences"
	"moodtray/internal/ui/tray"
	"moodtray/internal/ui/windows"
	"moodtray/resources"
)

const (
	appID       = "io.github.moodtray"
	busCapacity = 64
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the tray app (default)",
		Args:  cobra.NoArgs,
		RunE:  runApp,
	}
}

func runApp(cmd *cobra.Command, _ []string) error {
	env, err := loadEnvironment(true)
	if err != nil {
		return err
	}
	defer env.Close()
	logger := env.logger

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			logger.Info().Msg("MoodTray is already running, activated the existing instance")
			return nil
		}
		logger.Warn().Err(err).Msg("unable to acquire single instance lock")
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	// On darwin the app keeps running after its last window closes.
	base := env.config.TrackerConfig(runtime.GOOS != "darwin")
	settingsStore := newSettingsStore(env.paths.ConfigFile(storage.SettingsFileName), base, logger)
	trackerConfig := settingsStore.Get().TrackerConfig(base)

	fyneApp := app.NewWithID(appID)
	activeIcon := resources.MustIcon(resources.IconActive)
	idleIcon := resources.MustIcon(resources.IconIdle)
	fyneApp.SetIcon(activeIcon)

	desktopApp, trayAvailable := fyneApp.(desktop.App)
	if trackerConfig.TrayEnabled && !trayAvailable {
		logger.Warn().Msg("system tray unsupported on this platform, running without tray")
		trackerConfig.TrayEnabled = false
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := ipc.NewBus(busCapacity, logger)
	send := func(channel ipc.Channel, payload any) {
		if err := bus.Send(ctx, channel, payload); err != nil {
			logger.Warn().Err(err).Str("channel", string(channel)).Msg("unable to reach core")
		}
	}

	factory := windows.NewFactory(windows.Options{
		App:      fyneApp,
		Bus:      bus,
		TrayMode: trackerConfig.TrayEnabled,
		Icon:     activeIcon,
		Settings: settingsStore.Get,
		OnSettingsSaved: func(settings preferences.Settings) {
			settingsStore.Set(settings)
			send(ipc.ChannelApplySettings, controller.SettingsPayload{
				Granularity: settings.Granularity,
				Notify:      settings.Notify,
			})
		},
		Logger: logger,
	})

	core := controller.New(controller.Options{
		Config:       trackerConfig,
		Clock:        scheduler.RealClock{},
		Factory:      factory,
		Store:        storage.NewEntryStore(env.paths.DataDir, time.Now, logger),
		AutoLauncher: newAutoLauncher(logger),
		Notifier:     newNotifier(logger),
		Dispatch:     bus.Post,
		Quit: func() {
			fyne.Do(fyneApp.Quit)
		},
		Logger: logger,
	})
	controller.Bind(bus, core)
	events := core.Subscribe(16)

	if trackerConfig.TrayEnabled {
		var trayManager *tray.Manager
		trayManager = tray.New(desktopApp, tray.Icons{Active: activeIcon, Idle: idleIcon}, tray.Callbacks{
			OnOpen: func() {
				send(ipc.ChannelOpenMainWindow, nil)
			},
			OnRecordMood: func() {
				send(ipc.ChannelOpenFormWindow, nil)
			},
			OnSummary: func() {
				send(ipc.ChannelOpenSummaryWindow, nil)
			},
			OnToggleTracking: func() {
				if trayManager.Status() == model.StatusTracking {
					send(ipc.ChannelStopTracking, nil)
					return
				}
				send(ipc.ChannelStartTracking, nil)
			},
			OnQuit: func() {
				send(ipc.ChannelQuit, nil)
			},
		})
		go forwardToTray(events, trayManager)
	} else {
		go drainEvents(events)
	}

	fyneApp.Lifecycle().SetOnStarted(func() {
		send(ipc.ChannelReady, nil)
	})
	fyneApp.Lifecycle().SetOnEnteredForeground(func() {
		send(ipc.ChannelActivate, nil)
	})

	loopDone := make(chan struct{})
	go func() {
		bus.Run(ctx)
		close(loopDone)
	}()
	go guard.Serve(ctx, func() {
		logger.Info().Msg("second launch detected, revealing main window")
		send(ipc.ChannelOpenMainWindow, nil)
	})
	go func() {
		<-ctx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	logger.Info().
		Str("version", version).
		Str("data_dir", env.paths.DataDir).
		Str("granularity", string(trackerConfig.Granularity)).
		Bool("tray", trackerConfig.TrayEnabled).
		Msg("Starting MoodTray")

	fyneApp.Run()

	stop()
	bus.Close()
	<-loopDone
	logger.Info().Msg("MoodTray stopped")
	return nil
}

// forwardToTray mirrors status changes in the tray until the controller quits.
func forwardToTray(events <-chan controller.Event, manager *tray.Manager) {
	for event := range events {
		switch event.Type {
		case controller.EventStatusChanged, controller.EventSettingsChanged, controller.EventTick:
			status, nextTick := event.Status, event.NextTick
			fyne.Do(func() {
				manager.SetStatus(status, nextTick)
			})
		}
	}
}

func drainEvents(events <-chan controller.Event) {
	for range events {
	}
}

func newAutoLauncher(logger zerolog.Logger) controller.AutoLauncher {
	item, err := platform.NewLoginItem(platform.NewService(), appName)
	if err != nil {
		logger.Warn().Err(err).Msg("launch at login unavailable")
		return nil
	}
	return item
}

func newNotifier(logger zerolog.Logger) controller.Notifier {
	iconPath := ""
	if content, err := resources.IconBytes(resources.IconActive); err == nil {
		if path, err := platform.IconFile(resources.IconActive, content); err == nil {
			iconPath = path
		} else {
			logger.Debug().Err(err).Msg("notification icon unavailable")
		}
	}
	return platform.NewDesktopNotifier(iconPath)
}

// settingsStore guards the preferences shared by the UI thread and the
// settings file.
type settingsStore struct {
	mu       sync.Mutex
	path     string
	settings preferences.Settings
	logger   zerolog.Logger
}

func newSettingsStore(path string, base model.TrackerConfig, logger zerolog.Logger) *settingsStore {
	store := &settingsStore{path: path, logger: logger.With().Str("component", "settings").Logger()}
	settings, err := storage.LoadSettings(path, preferences.FromTrackerConfig(base))
	if err != nil {
		store.logger.Warn().Err(err).Str("path", path).Msg("using default preferences")
	}
	store.settings = settings
	return store
}

func (store *settingsStore) Get() preferences.Settings {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.settings
}

func (store *settingsStore) Set(settings preferences.Settings) {
	store.mu.Lock()
	store.settings = settings
	store.mu.Unlock()

	if err := storage.SaveSettings(store.path, settings); err != nil {
		store.logger.Error().Err(err).Str("path", store.path).Msg("failed to save preferences")
	}
}
