// Package termrec records a hotkey from raw terminal input.
package termrec

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind classifies a decoded input event.
type Kind int

const (
	KindKey Kind = iota
	KindEnter
	KindBackspace
	KindFocusIn
	KindFocusOut
)

// Event is one decoded terminal input.
type Event struct {
	Kind Kind
	Keys []string // for KindKey: modifiers first, then the key
	Rune rune     // the printable rune typed, 0 otherwise
}

const esc = 0x1b

var csiFinal = map[byte]string{
	'A': "Up",
	'B': "Down",
	'C': "Right",
	'D': "Left",
	'H': "Home",
	'F': "End",
	'P': "F1",
	'Q': "F2",
	'R': "F3",
	'S': "F4",
}

var csiTilde = map[string]string{
	"2":  "Insert",
	"3":  "Delete",
	"5":  "PageUp",
	"6":  "PageDown",
	"15": "F5",
	"17": "F6",
	"18": "F7",
	"19": "F8",
	"20": "F9",
	"21": "F10",
	"23": "F11",
	"24": "F12",
}

// xterm modifier parameter minus one, as a bit set.
func modifierNames(param int) []string {
	if param < 2 {
		return nil
	}
	bits := param - 1
	var mods []string
	if bits&4 != 0 {
		mods = append(mods, "Control")
	}
	if bits&2 != 0 {
		mods = append(mods, "Alt")
	}
	if bits&1 != 0 {
		mods = append(mods, "Shift")
	}
	return mods
}

// Decode splits a chunk of raw terminal input into events.
func Decode(buf []byte) []Event {
	var events []Event
	for len(buf) > 0 {
		ev, n := decodeOne(buf)
		buf = buf[n:]
		if ev != nil {
			events = append(events, *ev)
		}
	}
	return events
}

func key(keys ...string) *Event {
	return &Event{Kind: KindKey, Keys: keys}
}

func decodeOne(buf []byte) (*Event, int) {
	b := buf[0]
	switch {
	case b == '\r' || b == '\n':
		return &Event{Kind: KindEnter}, 1
	case b == 0x7f || b == 0x08:
		return &Event{Kind: KindBackspace}, 1
	case b == '\t':
		return key("Tab"), 1
	case b == esc:
		return decodeEscape(buf)
	case b == 0:
		return key("Control", "Space"), 1
	case b < 0x1b:
		return key("Control", string(rune('A'+b-1))), 1
	case b < 0x20:
		return nil, 1
	}

	r, n := utf8.DecodeRune(buf)
	if r == utf8.RuneError && n <= 1 {
		return nil, 1
	}
	ev := printable(r)
	return ev, n
}

func printable(r rune) *Event {
	var ev *Event
	switch {
	case r == ' ':
		ev = key("Space")
	case unicode.IsUpper(r):
		ev = key("Shift", string(r))
	case unicode.IsLower(r):
		ev = key(strings.ToUpper(string(r)))
	default:
		ev = key(string(r))
	}
	ev.Rune = r
	return ev
}

func decodeEscape(buf []byte) (*Event, int) {
	if len(buf) == 1 {
		return key("Escape"), 1
	}
	switch buf[1] {
	case '[':
		return decodeCSI(buf)
	case 'O':
		if len(buf) >= 3 {
			if name, ok := csiFinal[buf[2]]; ok {
				return key(name), 3
			}
		}
		return key("Alt", "Shift", "O"), 2
	case esc:
		return key("Escape"), 1
	}

	// ESC prefix is how terminals send Alt.
	ev, n := decodeOne(buf[1:])
	if ev == nil || ev.Kind != KindKey {
		return key("Alt", "Escape"), 1
	}
	ev.Keys = append([]string{"Alt"}, ev.Keys...)
	ev.Rune = 0
	return ev, n + 1
}

// decodeCSI parses ESC [ params final.
func decodeCSI(buf []byte) (*Event, int) {
	i := 2
	for i < len(buf) && (buf[i] >= '0' && buf[i] <= '9' || buf[i] == ';') {
		i++
	}
	if i >= len(buf) {
		return nil, len(buf)
	}
	final := buf[i]
	params := strings.Split(string(buf[2:i]), ";")
	n := i + 1

	var mods []string
	if len(params) == 2 {
		if p, err := strconv.Atoi(params[1]); err == nil {
			mods = modifierNames(p)
		}
	}

	switch final {
	case 'I':
		return &Event{Kind: KindFocusIn}, n
	case 'O':
		return &Event{Kind: KindFocusOut}, n
	case 'Z':
		return key("Shift", "Tab"), n
	case '~':
		if name, ok := csiTilde[params[0]]; ok {
			return key(append(mods, name)...), n
		}
		return nil, n
	}
	if name, ok := csiFinal[final]; ok {
		return key(append(mods, name)...), n
	}
	return nil, n
}
