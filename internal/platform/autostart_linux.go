//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (service *platformService) EnableAutostart(appName, execPath string) error {
	if appName == "" {
		return fmt.Errorf("enable autostart: %w", ErrEmptyAppName)
	}
	if execPath == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}

	autostartDir := filepath.Join(service.configDir, "autostart")
	if err := os.MkdirAll(autostartDir, 0o755); err != nil {
		return fmt.Errorf("enable autostart: create autostart dir: %w", err)
	}

	desktopFilePath := filepath.Join(autostartDir, desktopFileName(appName))
	if err := os.WriteFile(desktopFilePath, []byte(buildDesktopEntry(appName, execPath)), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write desktop entry: %w", err)
	}

	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	if appName == "" {
		return fmt.Errorf("disable autostart: %w", ErrEmptyAppName)
	}

	desktopFilePath := filepath.Join(service.configDir, "autostart", desktopFileName(appName))
	if err := os.Remove(desktopFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("disable autostart: remove desktop entry: %w", err)
	}

	return nil
}

func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	if appName == "" {
		return false, fmt.Errorf("autostart status: %w", ErrEmptyAppName)
	}

	exists, err := fileExists(filepath.Join(service.configDir, "autostart", desktopFileName(appName)))
	if err != nil {
		return false, fmt.Errorf("autostart status: %w", err)
	}
	return exists, nil
}

func desktopFileName(appName string) string {
	return slugName(appName) + ".desktop"
}

func buildDesktopEntry(appName, execPath string) string {
	execLine := execPath
	if strings.Contains(execLine, " ") && !strings.HasPrefix(execLine, `"`) {
		execLine = `"` + execLine + `"`
	}

	return fmt.Sprintf(
		`[Desktop Entry]
Type=Application
Name=%s
Comment=Periodic mood check-ins
Exec=%s run
Icon=%s
X-GNOME-Autostart-enabled=true
Terminal=false
`,
		appName,
		execLine,
		slugName(appName),
	)
}
