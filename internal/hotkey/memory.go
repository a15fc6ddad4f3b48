package hotkey

import (
	"fmt"
	"log"
	"sort"
	"sync"
)

// MemoryBackend keeps registrations in process without touching the OS.
// It backs the daemon's dry-run mode and the fallback used where no native
// backend exists; Trigger simulates a key press.
type MemoryBackend struct {
	mu        sync.RWMutex
	callbacks map[string]func()
	failures  map[string]error
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		callbacks: make(map[string]func()),
		failures:  make(map[string]error),
	}
}

// Name returns the name of this backend.
func (b *MemoryBackend) Name() string {
	return "In-memory (no OS registration)"
}

// IsRegistered implements Backend.
func (b *MemoryBackend) IsRegistered(hotkeyStr string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.callbacks[Canonical(hotkeyStr)]
	return ok
}

// Register implements Backend.
func (b *MemoryBackend) Register(hotkeyStr string, callback func()) error {
	if !Bindable(hotkeyStr) {
		return fmt.Errorf("failed to register hotkey '%s': %w", hotkeyStr, Check(hotkeyStr))
	}
	key := Canonical(hotkeyStr)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err, ok := b.failures[key]; ok {
		return fmt.Errorf("failed to register hotkey '%s': %w", hotkeyStr, err)
	}
	if _, exists := b.callbacks[key]; exists {
		return fmt.Errorf("hotkey '%s' is already registered", hotkeyStr)
	}
	b.callbacks[key] = callback
	log.Printf("Memory backend: Registered hotkey '%s'", hotkeyStr)
	return nil
}

// Unregister implements Backend.
func (b *MemoryBackend) Unregister(hotkeyStr string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := Canonical(hotkeyStr)
	if _, ok := b.callbacks[key]; !ok {
		return nil
	}
	delete(b.callbacks, key)
	log.Printf("Memory backend: Unregistered hotkey '%s'", hotkeyStr)
	return nil
}

// UnregisterAll implements Backend.
func (b *MemoryBackend) UnregisterAll() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callbacks = make(map[string]func())
	return nil
}

// FailOn makes future Register calls for hotkeyStr fail with err.
func (b *MemoryBackend) FailOn(hotkeyStr string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[Canonical(hotkeyStr)] = err
}

// Trigger runs the callback registered for hotkeyStr and reports whether one existed.
func (b *MemoryBackend) Trigger(hotkeyStr string) bool {
	b.mu.RLock()
	callback, ok := b.callbacks[Canonical(hotkeyStr)]
	b.mu.RUnlock()
	if !ok || callback == nil {
		return ok
	}
	callback()
	return true
}

// Registered returns the canonical forms of all registered hotkeys, sorted.
func (b *MemoryBackend) Registered() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.callbacks))
	for k := range b.callbacks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
