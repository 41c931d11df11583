package platform

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

// DesktopNotifier shows native desktop notifications.
type DesktopNotifier struct {
	iconPath string
}

// NewDesktopNotifier creates a notifier that decorates messages with iconPath.
// An empty path uses the system default icon.
func NewDesktopNotifier(iconPath string) *DesktopNotifier {
	return &DesktopNotifier{iconPath: iconPath}
}

// Notify displays a notification.
func (notifier *DesktopNotifier) Notify(title, message string) error {
	if err := beeep.Notify(title, message, notifier.iconPath); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}
