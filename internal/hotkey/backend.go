package hotkey

import "errors"

// ErrBackendNotAvailable is returned when a backend cannot be used on the current system.
var ErrBackendNotAvailable = errors.New("backend not available on this system")

// ErrUnsupportedKey is returned when a hotkey names a key the backend cannot map.
var ErrUnsupportedKey = errors.New("unsupported key")

// Backend abstracts the host's global shortcut registration. Hotkey strings
// are passed as configured; implementations compare them by Canonical form.
type Backend interface {
	// IsRegistered reports whether hotkeyStr is currently registered.
	IsRegistered(hotkeyStr string) bool

	// Register binds hotkeyStr so that callback runs on every key press.
	Register(hotkeyStr string, callback func()) error

	// Unregister removes a previously registered hotkey. Unknown hotkeys are not an error.
	Unregister(hotkeyStr string) error

	// UnregisterAll removes all hotkeys registered by this backend.
	UnregisterAll() error

	// Name returns a human-readable name for this backend (for logging).
	Name() string
}
