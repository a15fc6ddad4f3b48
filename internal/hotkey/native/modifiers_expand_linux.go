//go:build linux

package native

import xhotkey "golang.design/x/hotkey"

// X11 lock masks that commonly interfere with XGrabKey.
// CapsLock is LockMask (1<<1) and NumLock is often Mod2.
const (
	linuxCapsLockMask xhotkey.Modifier = 1 << 1
)

// expandModifiers returns the modifier sets to grab so the hotkey still
// triggers when NumLock or CapsLock is on. The first entry is the base set.
func expandModifiers(modifiers []xhotkey.Modifier) [][]xhotkey.Modifier {
	base := append([]xhotkey.Modifier(nil), modifiers...)
	withNum := append(append([]xhotkey.Modifier(nil), modifiers...), xhotkey.Mod2)
	withCaps := append(append([]xhotkey.Modifier(nil), modifiers...), linuxCapsLockMask)
	withBoth := append(append([]xhotkey.Modifier(nil), modifiers...), xhotkey.Mod2, linuxCapsLockMask)

	return [][]xhotkey.Modifier{base, withNum, withCaps, withBoth}
}
