package clipboard

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/atotto/clipboard"
)

// ErrNoSelection is returned when the copy keystroke left the clipboard
// unchanged, meaning nothing was selected.
var ErrNoSelection = errors.New("no text selected")

// Default delays around the simulated copy.
const (
	DefaultCopyDelay    = 150 * time.Millisecond
	DefaultRestoreDelay = 300 * time.Millisecond
)

// Grabber captures the currently selected text by simulating the copy
// shortcut and reading the clipboard, restoring the previous contents
// afterwards.
type Grabber struct {
	mu sync.Mutex

	read  func() (string, error)
	write func(string) error
	copy  func() error
	sleep func(time.Duration)

	copyDelay    time.Duration
	restoreDelay time.Duration
}

// GrabberOption configures a Grabber.
type GrabberOption func(*Grabber)

// WithClipboard replaces the system clipboard accessors.
func WithClipboard(read func() (string, error), write func(string) error) GrabberOption {
	return func(g *Grabber) {
		g.read = read
		g.write = write
	}
}

// WithCopier replaces the copy keystroke simulation.
func WithCopier(fn func() error) GrabberOption {
	return func(g *Grabber) { g.copy = fn }
}

// WithDelays overrides the pause after the copy keystroke and before the
// restore.
func WithDelays(copyDelay, restoreDelay time.Duration) GrabberOption {
	return func(g *Grabber) {
		g.copyDelay = copyDelay
		g.restoreDelay = restoreDelay
	}
}

// NewGrabber returns a Grabber backed by the system clipboard.
func NewGrabber(opts ...GrabberOption) *Grabber {
	g := &Grabber{
		read:         clipboard.ReadAll,
		write:        clipboard.WriteAll,
		copy:         simulatePlatformCopy,
		sleep:        time.Sleep,
		copyDelay:    DefaultCopyDelay,
		restoreDelay: DefaultRestoreDelay,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ReadAll returns the current clipboard text.
func (g *Grabber) ReadAll() (string, error) {
	text, err := g.read()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}

// Selection returns the selected text of the focused application. When
// nothing is selected it falls back to the clipboard contents and returns
// ErrNoSelection alongside them.
func (g *Grabber) Selection() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	previous, err := g.read()
	if err != nil {
		log.Printf("Clipboard: failed to read previous contents: %v", err)
		previous = ""
	}

	// A sentinel distinguishes "copy produced the same text" from "copy did nothing".
	const marker = "\x00translator-hotkeys\x00"
	if err := g.write(marker); err != nil {
		return "", fmt.Errorf("failed to prepare clipboard: %w", err)
	}

	if err := g.copy(); err != nil {
		g.restore(previous)
		return "", fmt.Errorf("failed to simulate copy: %w", err)
	}
	g.sleep(g.copyDelay)

	selected, err := g.read()
	if err != nil {
		g.restore(previous)
		return "", fmt.Errorf("failed to read selection: %w", err)
	}

	g.sleep(g.restoreDelay)
	g.restore(previous)

	if selected == marker {
		return previous, ErrNoSelection
	}
	return selected, nil
}

func (g *Grabber) restore(previous string) {
	if err := g.write(previous); err != nil {
		log.Printf("Clipboard: failed to restore previous contents: %v", err)
	}
}
