//go:build windows

package platform

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (service *platformService) EnableAutostart(appName, execPath string) error {
	if appName == "" {
		return fmt.Errorf("enable autostart: %w", ErrEmptyAppName)
	}
	if execPath == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}

	output, err := runReg("add", registryRunKey, "/v", appName, "/t", "REG_SZ", "/d", runCommand(execPath), "/f")
	if err != nil {
		return fmt.Errorf("enable autostart: reg add failed: %w: %s", err, output)
	}

	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	if appName == "" {
		return fmt.Errorf("disable autostart: %w", ErrEmptyAppName)
	}

	enabled, err := service.AutostartEnabled(appName)
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if !enabled {
		return nil
	}

	output, err := runReg("delete", registryRunKey, "/v", appName, "/f")
	if err != nil {
		return fmt.Errorf("disable autostart: reg delete failed: %w: %s", err, output)
	}

	return nil
}

func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	if appName == "" {
		return false, fmt.Errorf("autostart status: %w", ErrEmptyAppName)
	}

	output, err := runReg("query", registryRunKey, "/v", appName)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// reg query exits 1 when the value does not exist.
			return false, nil
		}
		return false, fmt.Errorf("autostart status: reg query failed: %w: %s", err, output)
	}
	return true, nil
}

func runReg(args ...string) (string, error) {
	output, err := exec.Command("reg", args...).CombinedOutput()
	return strings.TrimSpace(string(output)), err
}

func runCommand(execPath string) string {
	trimmed := strings.Trim(execPath, `"`)
	return fmt.Sprintf(`"%s" run`, trimmed)
}
