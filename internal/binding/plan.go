// Package binding turns settings snapshots into hotkey registrations.
package binding

import (
	"fmt"

	"github.com/TanaroSch/translator-hotkeys/internal/config"
	"github.com/TanaroSch/translator-hotkeys/internal/hotkey"
)

// Op is the kind of work an Intent describes.
type Op int

const (
	OpUnbind Op = iota
	OpBind
	OpReject
)

func (o Op) String() string {
	switch o {
	case OpUnbind:
		return "unbind"
	case OpBind:
		return "bind"
	case OpReject:
		return "reject"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Intent is one planned effect on the hotkey backend.
type Intent struct {
	Op     Op
	Role   config.Role
	Hotkey string
}

func (i Intent) String() string {
	return fmt.Sprintf("%s %s %q", i.Op, i.Role, i.Hotkey)
}

// Plan computes the intents that move the registrations from old to new.
// A nil old means nothing is bound yet.
//
// Every bindable old value is unbound first, in role order. Then, per role,
// the new value is bound, rejected if it has no normal key, or skipped if
// it is absent. A hotkey moved or swapped between roles is therefore never
// released after its new role claimed it. Unchanged values are unbound and
// bound again so a rebind always starts from a clean registration.
func Plan(old, new *config.Settings) []Intent {
	roles := planRoles(old, new)
	var intents []Intent
	if old != nil {
		for _, role := range roles {
			if oldKey, _ := old.HotkeyFor(role); hotkey.Bindable(oldKey) {
				intents = append(intents, Intent{Op: OpUnbind, Role: role, Hotkey: oldKey})
			}
		}
	}
	for _, role := range roles {
		newKey, _ := new.HotkeyFor(role)
		switch hotkey.Classify(newKey) {
		case hotkey.StatusAbsent:
		case hotkey.StatusInvalid:
			intents = append(intents, Intent{Op: OpReject, Role: role, Hotkey: newKey})
		case hotkey.StatusValid:
			intents = append(intents, Intent{Op: OpBind, Role: role, Hotkey: newKey})
		}
	}
	return intents
}

// planRoles returns the fixed roles, then new's actions in order, then
// actions only present in old.
func planRoles(old, new *config.Settings) []config.Role {
	roles := new.Roles()
	if old == nil {
		return roles
	}
	for _, a := range old.Actions {
		if _, ok := new.Action(a.ID); !ok {
			roles = append(roles, config.ActionRole(a.ID))
		}
	}
	return roles
}
