package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppDirName is the per-user directory name under each XDG base directory.
const AppDirName = "moodtray"

// Paths are the per-user locations the application reads and writes.
type Paths struct {
	ConfigDir string
	DataDir   string
	StateDir  string
}

// DefaultPaths resolves the XDG base directories for the application.
func DefaultPaths() Paths {
	return Paths{
		ConfigDir: filepath.Join(xdg.ConfigHome, AppDirName),
		DataDir:   filepath.Join(xdg.DataHome, AppDirName),
		StateDir:  filepath.Join(xdg.StateHome, AppDirName),
	}
}

// WithDataDir returns a copy with the data directory overridden when dir is set.
func (paths Paths) WithDataDir(dir string) Paths {
	if dir != "" {
		paths.DataDir = dir
	}
	return paths
}

// ConfigFile returns the path of name inside the config directory.
func (paths Paths) ConfigFile(name string) string {
	return filepath.Join(paths.ConfigDir, name)
}

// LogFile returns the path of the rotating log file.
func (paths Paths) LogFile() string {
	return filepath.Join(paths.StateDir, AppDirName+".log")
}

// Ensure creates every directory.
func (paths Paths) Ensure() error {
	for _, dir := range []string{paths.ConfigDir, paths.DataDir, paths.StateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// IconFile writes the notification icon to the cache directory once and
// returns its path.
func IconFile(name string, content []byte) (string, error) {
	path, err := xdg.CacheFile(filepath.Join(AppDirName, name))
	if err != nil {
		return "", fmt.Errorf("resolve icon path: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write icon: %w", err)
	}
	return path, nil
}
