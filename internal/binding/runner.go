package binding

import (
	"context"
	"fmt"
	"log"

	"github.com/TanaroSch/translator-hotkeys/internal/config"
	"github.com/TanaroSch/translator-hotkeys/internal/hotkey"
)

// Notification text shown when a hotkey has modifiers only.
const RejectTitle = "Cannot bind hotkey"

// RejectMessage returns the body of the rejection notification.
func RejectMessage(spec string) string {
	return "Hotkey must contain at least one normal key: " + spec
}

// Notifier shows a desktop notification.
type Notifier interface {
	Notify(title, body string)
}

// HandlerFunc returns the callback run when the hotkey of role fires.
type HandlerFunc func(role config.Role) func()

// Result records the outcome of one Intent.
type Result struct {
	Intent Intent
	Err    error
}

// Runner applies intents against a backend.
type Runner struct {
	backend  hotkey.Backend
	notifier Notifier
	handler  HandlerFunc
}

// NewRunner returns a Runner. A nil notifier drops rejection notices; a
// nil handler registers no-op callbacks.
func NewRunner(backend hotkey.Backend, notifier Notifier, handler HandlerFunc) *Runner {
	return &Runner{backend: backend, notifier: notifier, handler: handler}
}

// Backend returns the underlying backend.
func (r *Runner) Backend() hotkey.Backend {
	return r.backend
}

// Apply runs intents in order. A failing intent never stops the others;
// every intent yields one Result. Intents left when ctx is cancelled are
// reported with ctx's error.
func (r *Runner) Apply(ctx context.Context, intents []Intent) []Result {
	results := make([]Result, 0, len(intents))
	for _, in := range intents {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Intent: in, Err: err})
			continue
		}
		err := r.apply(in)
		if err != nil {
			log.Printf("Binding: %s failed: %v", in, err)
		}
		results = append(results, Result{Intent: in, Err: err})
	}
	return results
}

func (r *Runner) apply(in Intent) error {
	switch in.Op {
	case OpUnbind:
		if !r.backend.IsRegistered(in.Hotkey) {
			return nil
		}
		if err := r.backend.Unregister(in.Hotkey); err != nil {
			return fmt.Errorf("unregister %s: %w", in.Hotkey, err)
		}
		log.Printf("Binding: unregistered '%s' (%s)", in.Hotkey, in.Role)
		return nil

	case OpBind:
		if r.backend.IsRegistered(in.Hotkey) {
			if err := r.backend.Unregister(in.Hotkey); err != nil {
				return fmt.Errorf("unregister existing %s: %w", in.Hotkey, err)
			}
		}
		callback := func() {}
		if r.handler != nil {
			if fn := r.handler(in.Role); fn != nil {
				callback = fn
			}
		}
		if err := r.backend.Register(in.Hotkey, callback); err != nil {
			return fmt.Errorf("register %s: %w", in.Hotkey, err)
		}
		log.Printf("Binding: registered '%s' for %s", in.Hotkey, in.Role)
		return nil

	case OpReject:
		log.Printf("Binding: rejected '%s' for %s: no normal key", in.Hotkey, in.Role)
		if r.notifier != nil {
			r.notifier.Notify(RejectTitle, RejectMessage(in.Hotkey))
		}
		return &hotkey.InvalidHotkeyError{Hotkey: in.Hotkey}
	}
	return fmt.Errorf("unknown op %s", in.Op)
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, res := range results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}
