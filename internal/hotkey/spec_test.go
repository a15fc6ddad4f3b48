package hotkey

import (
	"errors"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected []string
	}{
		{"ctrl-shift-k", []string{"ctrl", "shift", "k"}},
		{"Ctrl + Shift + K", []string{"Ctrl", "Shift", "K"}},
		{"CommandOrControl+Shift+K", []string{"CommandOrControl", "Shift", "K"}},
		{"ctrl++k", []string{"ctrl", "k"}},
		{" +alt- +f4+ ", []string{"alt", "f4"}},
		{"", []string{}},
		{"   ", []string{}},
		{"+-+", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Fatalf("Tokenize(%q) = %#v, expected %#v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTokenizeJoinRoundTrip(t *testing.T) {
	t.Parallel()

	for _, tokens := range [][]string{
		{"CommandOrControl", "Shift", "K"},
		{"Alt", "F4"},
		{"k"},
		{},
	} {
		got := Tokenize(Join(tokens))
		if !reflect.DeepEqual(got, tokens) {
			t.Fatalf("Tokenize(Join(%#v)) = %#v", tokens, got)
		}
	}
}

func TestIsModifierKey(t *testing.T) {
	t.Parallel()

	modifiers := []string{
		"Option", "alt", "CONTROL", "Ctrl", "command", "Cmd", "super", "Shift",
		"CommandOrControl", "commandorctrl", "CmdOrCtrl", "CMDORCONTROL",
	}
	for _, m := range modifiers {
		if !IsModifierKey(m) {
			t.Errorf("IsModifierKey(%q) = false, expected true", m)
		}
	}

	normal := []string{"k", "F1", "Space", "Enter", "meta", "win", "", "Ctrl+K"}
	for _, n := range normal {
		if IsModifierKey(n) {
			t.Errorf("IsModifierKey(%q) = true, expected false", n)
		}
	}
}

func TestIsMissingNormalKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		missing bool
	}{
		{"ctrl+shift", true},
		{"Ctrl-Alt", true},
		{"CMD + option - SHIFT", true},
		{"CmdOrCtrl", true},
		{"", true},
		{"ctrl+shift+k", false},
		{"k", false},
		{"Alt+F4", false},
		{"CommandOrControl-Space", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsMissingNormalKey(tt.input); got != tt.missing {
				t.Fatalf("IsMissingNormalKey(%q) = %v, expected %v", tt.input, got, tt.missing)
			}
		})
	}
}

func TestAllModifiersEmptyIsVacuouslyTrue(t *testing.T) {
	t.Parallel()

	if !AllModifiers(nil) {
		t.Fatal("AllModifiers(nil) = false, expected true")
	}
}

func TestClassifySeparatesAbsentFromInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected Status
	}{
		{"", StatusAbsent},
		{" + ", StatusAbsent},
		{"ctrl+shift", StatusInvalid},
		{"ctrl+shift+k", StatusValid},
	}

	for _, tt := range tests {
		if got := Classify(tt.input); got != tt.expected {
			t.Errorf("Classify(%q) = %s, expected %s", tt.input, got, tt.expected)
		}
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	if err := Check("ctrl+k"); err != nil {
		t.Fatalf("Check(valid) = %v", err)
	}
	if err := Check(""); !errors.Is(err, ErrEmptyHotkey) {
		t.Fatalf("Check(\"\") = %v, expected ErrEmptyHotkey", err)
	}

	err := Check("Ctrl+Shift")
	if !errors.Is(err, ErrInvalidHotkey) {
		t.Fatalf("Check(modifiers only) = %v, expected ErrInvalidHotkey", err)
	}
	var invalid *InvalidHotkeyError
	if !errors.As(err, &invalid) || invalid.Hotkey != "Ctrl+Shift" {
		t.Fatalf("expected *InvalidHotkeyError for Ctrl+Shift, got %#v", err)
	}
}

func TestCanonical(t *testing.T) {
	t.Parallel()

	if a, b := Canonical("Ctrl + Shift + K"), Canonical("ctrl-shift-k"); a != b {
		t.Fatalf("Canonical forms differ: %q vs %q", a, b)
	}
	if got := Normalize(" Alt +F4 "); got != "Alt+F4" {
		t.Fatalf("Normalize = %q, expected %q", got, "Alt+F4")
	}
}
