// Package native registers global shortcuts with the operating system
// through golang.design/x/hotkey (Windows, macOS and X11).
package native

import (
	"fmt"
	"log"
	"strings"
	"sync"

	xhotkey "golang.design/x/hotkey"

	"github.com/TanaroSch/translator-hotkeys/internal/hotkey"
)

// Backend wraps golang.design/x/hotkey. It does NOT support Wayland.
type Backend struct {
	mu             sync.RWMutex
	registeredKeys map[string]*nativeHotkey
	displayServer  hotkey.DisplayServer
}

// NewBackend creates a native backend, or returns ErrBackendNotAvailable
// when the display server cannot grab global keys.
func NewBackend() (*Backend, error) {
	ds := hotkey.DetectDisplayServer()
	log.Printf("Native backend: Detected display server: %s", ds)
	if !ds.SupportsGlobalShortcuts() {
		return nil, fmt.Errorf("%s: %w", ds, hotkey.ErrBackendNotAvailable)
	}
	return &Backend{
		registeredKeys: make(map[string]*nativeHotkey),
		displayServer:  ds,
	}, nil
}

// Name returns the name of this backend.
func (b *Backend) Name() string {
	return fmt.Sprintf("Native (golang.design/x/hotkey, %s)", b.displayServer)
}

// IsRegistered implements hotkey.Backend.
func (b *Backend) IsRegistered(hotkeyStr string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.registeredKeys[hotkey.Canonical(hotkeyStr)]
	return ok
}

// Register parses hotkeyStr and grabs it; callback runs on every key down.
func (b *Backend) Register(hotkeyStr string, callback func()) error {
	key := hotkey.Canonical(hotkeyStr)

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.registeredKeys[key]; exists {
		return fmt.Errorf("hotkey '%s' is already registered", hotkeyStr)
	}

	modifiers, k, err := parseHotkey(hotkey.Tokenize(hotkeyStr))
	if err != nil {
		return fmt.Errorf("failed to parse hotkey '%s': %w", hotkeyStr, err)
	}

	nh := &nativeHotkey{hotkeyStr: hotkeyStr, callback: callback, stopCh: make(chan struct{})}
	for _, mods := range expandModifiers(modifiers) {
		hk := xhotkey.New(mods, k)
		if err := hk.Register(); err != nil {
			// Lock-state variants are best effort once the base grab succeeded.
			if len(nh.grabs) > 0 {
				log.Printf("Native backend: Skipping lock-state variant of '%s': %v", hotkeyStr, err)
				continue
			}
			return fmt.Errorf("failed to register hotkey '%s': %w", hotkeyStr, err)
		}
		nh.grabs = append(nh.grabs, hk)
	}
	nh.listen()

	b.registeredKeys[key] = nh
	log.Printf("Native backend: Successfully registered hotkey '%s'", hotkeyStr)
	return nil
}

// Unregister removes a single hotkey.
func (b *Backend) Unregister(hotkeyStr string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := hotkey.Canonical(hotkeyStr)
	nh, exists := b.registeredKeys[key]
	if !exists {
		log.Printf("Native backend: Hotkey '%s' not found for unregister", hotkeyStr)
		return nil
	}
	delete(b.registeredKeys, key)

	if err := nh.Close(); err != nil {
		log.Printf("Native backend: Error unregistering '%s': %v", hotkeyStr, err)
		return err
	}
	log.Printf("Native backend: Unregistered hotkey '%s'", hotkeyStr)
	return nil
}

// UnregisterAll removes all registered hotkeys.
func (b *Backend) UnregisterAll() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	log.Printf("Native backend: Unregistering all %d hotkeys", len(b.registeredKeys))

	var failed []string
	for _, nh := range b.registeredKeys {
		if err := nh.Close(); err != nil {
			log.Printf("Native backend: Error unregistering '%s': %v", nh.hotkeyStr, err)
			failed = append(failed, nh.hotkeyStr)
		}
	}
	b.registeredKeys = make(map[string]*nativeHotkey)
	if len(failed) > 0 {
		return fmt.Errorf("failed to unregister %s", strings.Join(failed, ", "))
	}
	return nil
}

// nativeHotkey is one logical registration, possibly backed by several
// grabs (one per lock-modifier state on X11).
type nativeHotkey struct {
	hotkeyStr string
	callback  func()
	grabs     []*xhotkey.Hotkey
	stopCh    chan struct{}
	once      sync.Once
}

// listen forwards key-down events of every grab to the callback.
func (nh *nativeHotkey) listen() {
	for _, hk := range nh.grabs {
		go func(keydown <-chan xhotkey.Event) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("RECOVERED FROM PANIC IN HOTKEY LISTENER (%s): %v", nh.hotkeyStr, r)
				}
			}()
			for {
				select {
				case <-nh.stopCh:
					return
				case _, ok := <-keydown:
					if !ok {
						return
					}
					log.Printf("Hotkey '%s' pressed.", nh.hotkeyStr)
					if nh.callback != nil {
						nh.callback()
					}
				}
			}
		}(hk.Keydown())
	}
}

// Close stops the listeners and releases every grab.
func (nh *nativeHotkey) Close() error {
	var firstErr error
	nh.once.Do(func() {
		close(nh.stopCh)
		for _, hk := range nh.grabs {
			if err := hk.Unregister(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("failed to unregister hotkey '%s': %w", nh.hotkeyStr, err)
			}
		}
	})
	return firstErr
}

// parseHotkey converts hotkey tokens into golang.design/x/hotkey modifiers
// and exactly one key. Modifier names are mapped per platform.
func parseHotkey(tokens []string) ([]xhotkey.Modifier, xhotkey.Key, error) {
	var (
		modifiers []xhotkey.Modifier
		key       xhotkey.Key
		haveKey   bool
	)
	for _, token := range tokens {
		name := strings.ToLower(token)
		if hotkey.IsModifierKey(name) {
			mod := platformModifier(name)
			if !containsModifier(modifiers, mod) {
				modifiers = append(modifiers, mod)
			}
			continue
		}
		if haveKey {
			return nil, 0, fmt.Errorf("more than one normal key (%s): %w", token, hotkey.ErrUnsupportedKey)
		}
		k, ok := KeyMap[name]
		if !ok {
			return nil, 0, fmt.Errorf("%s: %w", token, hotkey.ErrUnsupportedKey)
		}
		key, haveKey = k, true
	}
	if !haveKey {
		return nil, 0, hotkey.ErrInvalidHotkey
	}
	return modifiers, key, nil
}

func containsModifier(mods []xhotkey.Modifier, mod xhotkey.Modifier) bool {
	for _, m := range mods {
		if m == mod {
			return true
		}
	}
	return false
}
