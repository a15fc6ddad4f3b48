package hotkey

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyHotkey is returned by Check when no hotkey is configured.
	ErrEmptyHotkey = errors.New("no hotkey configured")

	// ErrInvalidHotkey is returned by Check when a hotkey has no normal key.
	ErrInvalidHotkey = errors.New("hotkey must contain at least one normal key")
)

// InvalidHotkeyError carries the offending hotkey string.
type InvalidHotkeyError struct {
	Hotkey string
}

func (e *InvalidHotkeyError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidHotkey, e.Hotkey)
}

func (e *InvalidHotkeyError) Unwrap() error {
	return ErrInvalidHotkey
}

// Status classifies a configured hotkey string.
type Status int

const (
	StatusAbsent Status = iota
	StatusInvalid
	StatusValid
)

func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusInvalid:
		return "invalid"
	case StatusValid:
		return "valid"
	default:
		return "unknown"
	}
}

// CommandOrControl is the cross-platform token a recorded Meta key maps to.
const CommandOrControl = "CommandOrControl"

// modifierKeys holds the upper-cased modifier identifiers, including the
// merged cross-platform aliases.
var modifierKeys = map[string]struct{}{
	"OPTION":           {},
	"ALT":              {},
	"CONTROL":          {},
	"CTRL":             {},
	"COMMAND":          {},
	"CMD":              {},
	"SUPER":            {},
	"SHIFT":            {},
	"COMMANDORCONTROL": {},
	"COMMANDORCTRL":    {},
	"CMDORCTRL":        {},
	"CMDORCONTROL":     {},
}

// Tokenize splits a hotkey string such as "Ctrl + Shift + K" or
// "ctrl-shift-k" into its key tokens. Whitespace around tokens is trimmed
// and empty segments are dropped, so it never fails.
func Tokenize(raw string) []string {
	raw = strings.ReplaceAll(raw, "-", "+")
	tokens := make([]string, 0, strings.Count(raw, "+")+1)
	for part := range strings.SplitSeq(raw, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tokens = append(tokens, part)
	}
	return tokens
}

// Join serializes tokens in the canonical "token+token" form.
func Join(tokens []string) string {
	return strings.Join(tokens, "+")
}

// Normalize rewrites raw into its canonical joined form.
func Normalize(raw string) string {
	return Join(Tokenize(raw))
}

// IsModifierKey reports whether token names a modifier key.
func IsModifierKey(token string) bool {
	_, ok := modifierKeys[strings.ToUpper(strings.TrimSpace(token))]
	return ok
}

// AllModifiers reports whether every token is a modifier. It is vacuously
// true for an empty sequence; callers must check for absence first.
func AllModifiers(tokens []string) bool {
	for _, token := range tokens {
		if !IsModifierKey(token) {
			return false
		}
	}
	return true
}

// IsMissingNormalKey reports whether raw lacks a normal key.
func IsMissingNormalKey(raw string) bool {
	return AllModifiers(Tokenize(raw))
}

// Classify separates the "not configured" case from the modifier-only case.
func Classify(raw string) Status {
	tokens := Tokenize(raw)
	switch {
	case len(tokens) == 0:
		return StatusAbsent
	case AllModifiers(tokens):
		return StatusInvalid
	default:
		return StatusValid
	}
}

// Bindable reports whether raw may be handed to a Backend.
func Bindable(raw string) bool {
	return Classify(raw) == StatusValid
}

// Check returns nil for a bindable hotkey, ErrEmptyHotkey when nothing is
// configured, or an *InvalidHotkeyError.
func Check(raw string) error {
	switch Classify(raw) {
	case StatusAbsent:
		return ErrEmptyHotkey
	case StatusInvalid:
		return &InvalidHotkeyError{Hotkey: raw}
	default:
		return nil
	}
}

// Canonical returns the lookup key used by backends, so that "Ctrl + K"
// and "ctrl+k" refer to the same registration.
func Canonical(raw string) string {
	return strings.ToLower(Normalize(raw))
}
