package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"moodtray/internal/core/model"
	"moodtray/internal/ui/preferences"
)

// SettingsFileName is the base name of the preferences file.
const SettingsFileName = "settings.yaml"

type yamlSettings struct {
	Granularity   string `yaml:"granularity"`
	Notify        *bool  `yaml:"notify"`
	TrackOnLaunch *bool  `yaml:"track_on_launch"`
}

// LoadSettings reads user preferences from YAML.
// If the file does not exist, defaults are returned.
func LoadSettings(path string, defaults preferences.Settings) (preferences.Settings, error) {
	settings := defaults

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(path string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), dataDirMode); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	notify := settings.Notify
	trackOnLaunch := settings.TrackOnLaunch
	fileData := yamlSettings{
		Granularity:   string(settings.Granularity),
		Notify:        &notify,
		TrackOnLaunch: &trackOnLaunch,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, entryFileMode); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if granularity, err := model.ParseGranularity(fileData.Granularity); err == nil {
		settings.Granularity = granularity
	}
	if fileData.Notify != nil {
		settings.Notify = *fileData.Notify
	}
	if fileData.TrackOnLaunch != nil {
		settings.TrackOnLaunch = *fileData.TrackOnLaunch
	}
}
