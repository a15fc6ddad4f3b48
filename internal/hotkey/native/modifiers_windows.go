//go:build windows

package native

import xhotkey "golang.design/x/hotkey"

// platformModifier maps a lower-cased modifier token to a Windows modifier.
// Command and Super name the Windows key; the merged aliases mean Ctrl.
func platformModifier(name string) xhotkey.Modifier {
	switch name {
	case "alt", "option":
		return xhotkey.ModAlt
	case "shift":
		return xhotkey.ModShift
	case "super", "cmd", "command":
		return xhotkey.ModWin
	default:
		return xhotkey.ModCtrl
	}
}
