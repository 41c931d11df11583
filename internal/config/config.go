package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"moodtray/internal/core/model"
)

// FileName is the process configuration file inside the config directory.
const FileName = "config.yaml"

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "MOODTRAY"

// Config holds the complete application configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Tracking TrackingConfig `mapstructure:"tracking"`
	UI       UIConfig       `mapstructure:"ui"`
}

// LogConfig defines logging behavior
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       bool   `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// StorageConfig defines where entries are written. An empty DataDir selects
// the XDG data directory.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// TrackingConfig defines the scheduler defaults
type TrackingConfig struct {
	Granularity   string `mapstructure:"granularity"`
	Notify        bool   `mapstructure:"notify"`
	TrackOnLaunch bool   `mapstructure:"track_on_launch"`
}

// UIConfig defines window and tray behavior
type UIConfig struct {
	Tray                  bool          `mapstructure:"tray"`
	InitialBroadcastDelay time.Duration `mapstructure:"initial_broadcast_delay"`
}

// Load loads configuration from file and environment variables. A missing
// file yields defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", true)
	v.SetDefault("log.max_size_mb", 5)
	v.SetDefault("log.max_backups", 3)

	v.SetDefault("storage.data_dir", "")

	v.SetDefault("tracking.granularity", string(model.GranularityHour))
	v.SetDefault("tracking.notify", true)
	v.SetDefault("tracking.track_on_launch", false)

	v.SetDefault("ui.tray", true)
	v.SetDefault("ui.initial_broadcast_delay", "500ms")
}

func validate(config *Config) error {
	switch strings.ToLower(config.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error: got %q", config.Log.Level)
	}
	switch strings.ToLower(config.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text: got %q", config.Log.Format)
	}
	if config.Log.MaxSizeMB <= 0 {
		return fmt.Errorf("log.max_size_mb must be positive")
	}
	if config.Log.MaxBackups < 0 {
		return fmt.Errorf("log.max_backups must not be negative")
	}
	if _, err := model.ParseGranularity(config.Tracking.Granularity); err != nil {
		return fmt.Errorf("tracking.granularity: %w", err)
	}
	if config.UI.InitialBroadcastDelay < 0 {
		return fmt.Errorf("ui.initial_broadcast_delay must not be negative")
	}
	return nil
}

// TrackerConfig converts the tracking and UI sections for the controller.
func (config *Config) TrackerConfig(quitOnLastClose bool) model.TrackerConfig {
	granularity, err := model.ParseGranularity(config.Tracking.Granularity)
	if err != nil {
		granularity = model.GranularityHour
	}
	return model.TrackerConfig{
		Granularity:           granularity,
		Notify:                config.Tracking.Notify,
		TrackOnLaunch:         config.Tracking.TrackOnLaunch,
		TrayEnabled:           config.UI.Tray,
		QuitOnLastClose:       quitOnLastClose,
		InitialBroadcastDelay: config.UI.InitialBroadcastDelay,
	}
}
