//go:build linux

package native

import xhotkey "golang.design/x/hotkey"

// platformModifier maps a lower-cased modifier token to an X11 modifier.
//
// X11 notes:
// - Alt is typically Mod1
// - Super/Win is typically Mod4
func platformModifier(name string) xhotkey.Modifier {
	switch name {
	case "alt", "option":
		return xhotkey.Mod1
	case "shift":
		return xhotkey.ModShift
	case "super", "cmd", "command":
		return xhotkey.Mod4
	default:
		return xhotkey.ModCtrl
	}
}
