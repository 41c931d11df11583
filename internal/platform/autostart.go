package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/adrg/xdg"
)

// ErrEmptyAppName indicates an autostart call without an application name.
var ErrEmptyAppName = errors.New("app name is empty")

// Service defines OS-specific helpers needed by the application.
type Service interface {
	ConfigDir() string
	EnableAutostart(appName, execPath string) error
	DisableAutostart(appName string) error
	AutostartEnabled(appName string) (bool, error)
}

type platformService struct {
	configDir string
}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{configDir: xdg.ConfigHome}
}

// ConfigDir returns the OS-standard configuration directory.
func (service *platformService) ConfigDir() string {
	return service.configDir
}

// LoginItem registers one executable as an OS login item.
type LoginItem struct {
	service  Service
	appName  string
	execPath string
}

// NewLoginItem binds appName to the running executable.
func NewLoginItem(service Service, appName string) (*LoginItem, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}
	return &LoginItem{service: service, appName: appName, execPath: execPath}, nil
}

// Enable registers the login item.
func (item *LoginItem) Enable() error {
	return item.service.EnableAutostart(item.appName, item.execPath)
}

// Disable removes the login item. Removing a missing item succeeds.
func (item *LoginItem) Disable() error {
	return item.service.DisableAutostart(item.appName)
}

// Enabled reports whether the login item is registered.
func (item *LoginItem) Enabled() (bool, error) {
	return item.service.AutostartEnabled(item.appName)
}

func slugName(appName string) string {
	name := strings.TrimSpace(appName)
	if name == "" {
		name = "moodtray"
	}
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "-")
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
