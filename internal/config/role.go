package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownRole is returned for role names that do not exist in the settings.
var ErrUnknownRole = errors.New("unknown hotkey role")

// RoleKind enumerates the hotkey roles.
type RoleKind int

const (
	RolePrimary RoleKind = iota
	RoleDisplayWindow
	RoleOCR
	RoleWriting
	RoleAction
)

// Role identifies one bindable hotkey slot in the settings.
type Role struct {
	Kind     RoleKind
	ActionID int64 // only for RoleAction
}

var roleNames = map[RoleKind]string{
	RolePrimary:       "hotkey",
	RoleDisplayWindow: "display_window",
	RoleOCR:           "ocr",
	RoleWriting:       "writing",
}

// FixedRoles lists the non-action roles in binding order.
var FixedRoles = []Role{
	{Kind: RolePrimary},
	{Kind: RoleDisplayWindow},
	{Kind: RoleOCR},
	{Kind: RoleWriting},
}

// ActionRole returns the role of the action with the given id.
func ActionRole(id int64) Role {
	return Role{Kind: RoleAction, ActionID: id}
}

func (r Role) String() string {
	if r.Kind == RoleAction {
		return "action:" + strconv.FormatInt(r.ActionID, 10)
	}
	if name, ok := roleNames[r.Kind]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r.Kind))
}

// ParseRole parses the names produced by Role.String. "primary" is accepted
// as an alias of "hotkey".
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "primary" {
		return Role{Kind: RolePrimary}, nil
	}
	for kind, name := range roleNames {
		if s == name {
			return Role{Kind: kind}, nil
		}
	}
	if rest, ok := strings.CutPrefix(s, "action:"); ok {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err == nil {
			return ActionRole(id), nil
		}
	}
	return Role{}, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Roles returns every role present in s: the fixed roles followed by one
// per action, in configuration order.
func (s *Settings) Roles() []Role {
	roles := append([]Role(nil), FixedRoles...)
	if s == nil {
		return roles
	}
	for _, a := range s.Actions {
		roles = append(roles, ActionRole(a.ID))
	}
	return roles
}

// Action returns the action with the given id.
func (s *Settings) Action(id int64) (Action, bool) {
	if s == nil {
		return Action{}, false
	}
	for _, a := range s.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

// HotkeyFor returns the hotkey configured for r. The boolean is false when
// r refers to an action that does not exist.
func (s *Settings) HotkeyFor(r Role) (string, bool) {
	if s == nil {
		return "", r.Kind != RoleAction
	}
	switch r.Kind {
	case RolePrimary:
		return s.Hotkey, true
	case RoleDisplayWindow:
		return s.DisplayWindowHotkey, true
	case RoleOCR:
		return s.OCRHotkey, true
	case RoleWriting:
		return s.WritingHotkey, true
	case RoleAction:
		a, ok := s.Action(r.ActionID)
		return a.Hotkey, ok
	}
	return "", false
}

// SetRoleHotkey stores value as the hotkey of r.
func (s *Settings) SetRoleHotkey(r Role, value string) error {
	switch r.Kind {
	case RolePrimary:
		s.Hotkey = value
	case RoleDisplayWindow:
		s.DisplayWindowHotkey = value
	case RoleOCR:
		s.OCRHotkey = value
	case RoleWriting:
		s.WritingHotkey = value
	case RoleAction:
		for i := range s.Actions {
			if s.Actions[i].ID == r.ActionID {
				s.Actions[i].Hotkey = value
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrUnknownRole, r)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownRole, r)
	}
	return nil
}

// RoleLabel returns a human-readable name for r.
func (s *Settings) RoleLabel(r Role) string {
	switch r.Kind {
	case RolePrimary:
		return "Translate"
	case RoleDisplayWindow:
		return "Show Window"
	case RoleOCR:
		return "OCR"
	case RoleWriting:
		return "Writing"
	case RoleAction:
		if a, ok := s.Action(r.ActionID); ok && a.Name != "" {
			return "Action: " + a.Name
		}
		return "Action " + strconv.FormatInt(r.ActionID, 10)
	}
	return r.String()
}
