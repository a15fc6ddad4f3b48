package config

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		expected Role
	}{
		{"hotkey", Role{Kind: RolePrimary}},
		{"primary", Role{Kind: RolePrimary}},
		{" Display_Window ", Role{Kind: RoleDisplayWindow}},
		{"ocr", Role{Kind: RoleOCR}},
		{"writing", Role{Kind: RoleWriting}},
		{"action:42", ActionRole(42)},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", tt.in, err)
		}
		if got != tt.expected {
			t.Fatalf("ParseRole(%q) = %v, expected %v", tt.in, got, tt.expected)
		}
		if back, err := ParseRole(got.String()); err != nil || back != got {
			t.Fatalf("String() of %v does not parse back: %v, %v", got, back, err)
		}
	}

	for _, bad := range []string{"", "action:", "action:x", "tray"} {
		if _, err := ParseRole(bad); !errors.Is(err, ErrUnknownRole) {
			t.Fatalf("ParseRole(%q) err = %v, expected ErrUnknownRole", bad, err)
		}
	}
}

func TestRolesAndHotkeys(t *testing.T) {
	t.Parallel()

	s := &Settings{
		Hotkey:        "Alt+T",
		OCRHotkey:     "Alt+O",
		WritingHotkey: "Alt+W",
		Actions:       []Action{{ID: 3, Name: "Polish", Hotkey: "Alt+P"}, {ID: 5}},
	}

	expected := []Role{
		{Kind: RolePrimary}, {Kind: RoleDisplayWindow}, {Kind: RoleOCR}, {Kind: RoleWriting},
		ActionRole(3), ActionRole(5),
	}
	if got := s.Roles(); !reflect.DeepEqual(got, expected) {
		t.Fatalf("Roles() = %v", got)
	}

	if hk, ok := s.HotkeyFor(ActionRole(99)); ok || hk != "" {
		t.Fatalf("HotkeyFor(unknown action) = %q, %v", hk, ok)
	}
	if err := s.SetRoleHotkey(ActionRole(5), "Alt+5"); err != nil {
		t.Fatalf("SetRoleHotkey: %v", err)
	}
	if hk, _ := s.HotkeyFor(ActionRole(5)); hk != "Alt+5" {
		t.Fatalf("action hotkey = %q", hk)
	}
	if err := s.SetRoleHotkey(Role{Kind: RoleDisplayWindow}, "Alt+D"); err != nil || s.DisplayWindowHotkey != "Alt+D" {
		t.Fatalf("SetRoleHotkey(display_window): %v, %q", err, s.DisplayWindowHotkey)
	}
	if err := s.SetRoleHotkey(ActionRole(99), "x"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}

	if got := s.RoleLabel(ActionRole(3)); got != "Action: Polish" {
		t.Fatalf("RoleLabel = %q", got)
	}
	if got := s.RoleLabel(ActionRole(5)); got != "Action 5" {
		t.Fatalf("RoleLabel = %q", got)
	}
}

func TestNilSettingsRoles(t *testing.T) {
	t.Parallel()

	var s *Settings
	if got := len(s.Roles()); got != len(FixedRoles) {
		t.Fatalf("nil settings roles = %d", got)
	}
	if hk, ok := s.HotkeyFor(Role{Kind: RoleOCR}); !ok || hk != "" {
		t.Fatalf("nil settings HotkeyFor = %q, %v", hk, ok)
	}
}
