//go:build !linux

package native

import xhotkey "golang.design/x/hotkey"

// expandModifiers returns only the base set; lock keys do not affect grabs here.
func expandModifiers(modifiers []xhotkey.Modifier) [][]xhotkey.Modifier {
	return [][]xhotkey.Modifier{modifiers}
}
