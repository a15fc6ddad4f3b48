package ui

import (
	"log"
	"sync"
)

// Level grades administrative notifications.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return "info"
}

// NotificationManager handles showing notifications across platforms
type NotificationManager struct {
	mu               sync.Mutex
	useNotifications bool
	appName          string
	embeddedIcon     []byte
	iconFile         string
}

// NewNotificationManager creates a new notification manager
func NewNotificationManager(useNotifications bool, appName string, embeddedIcon []byte) *NotificationManager {
	return &NotificationManager{
		useNotifications: useNotifications,
		appName:          appName,
		embeddedIcon:     embeddedIcon,
	}
}

// SetEnabled follows the use_notifications setting across reloads.
func (n *NotificationManager) SetEnabled(enabled bool) {
	n.mu.Lock()
	n.useNotifications = enabled
	n.mu.Unlock()
}

func (n *NotificationManager) enabled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.useNotifications
}

// Notify displays a desktop notification if enabled.
func (n *NotificationManager) Notify(title, message string) {
	if !n.enabled() {
		log.Printf("Notification suppressed: %s - %s", title, message)
		return
	}
	if err := n.platformNotify(title, message); err != nil {
		log.Printf("Error showing notification: %v", err)
	}
}

// NotifyLevel shows an administrative notification. Errors are shown even
// when notifications are disabled.
func (n *NotificationManager) NotifyLevel(level Level, title, message string) {
	log.Printf("[%s] %s: %s", level, title, message)
	if level < LevelError && !n.enabled() {
		return
	}
	if err := n.platformNotify(title, message); err != nil {
		log.Printf("Error showing notification: %v", err)
	}
}

// Global function for simplicity when detailed control isn't needed
var (
	globalMu                  sync.Mutex
	globalNotificationManager *NotificationManager
)

// InitGlobalNotifications initializes the global notification manager
func InitGlobalNotifications(useNotifications bool, appName string, embeddedIcon []byte) *NotificationManager {
	m := NewNotificationManager(useNotifications, appName, embeddedIcon)
	globalMu.Lock()
	globalNotificationManager = m
	globalMu.Unlock()
	return m
}

// ShowAdminNotification is a convenience wrapper around the global manager.
func ShowAdminNotification(level Level, title, message string) {
	globalMu.Lock()
	m := globalNotificationManager
	globalMu.Unlock()
	if m == nil {
		log.Printf("Notification not shown (manager not initialized): %s - %s", title, message)
		return
	}
	m.NotifyLevel(level, title, message)
}
