//go:build darwin

package native

import xhotkey "golang.design/x/hotkey"

// platformModifier maps a lower-cased modifier token to a macOS modifier.
// The merged CommandOrControl aliases resolve to Command here.
func platformModifier(name string) xhotkey.Modifier {
	switch name {
	case "alt", "option":
		return xhotkey.ModOption
	case "shift":
		return xhotkey.ModShift
	case "ctrl", "control":
		return xhotkey.ModCtrl
	default:
		return xhotkey.ModCmd
	}
}
