package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/TanaroSch/translator-hotkeys/internal/binding"
	"github.com/TanaroSch/translator-hotkeys/internal/clipboard"
	"github.com/TanaroSch/translator-hotkeys/internal/config"
	"github.com/TanaroSch/translator-hotkeys/internal/diffutil"
	"github.com/TanaroSch/translator-hotkeys/internal/hotkey"
)

// SelectionSource returns the text currently selected by the user.
type SelectionSource interface {
	Selection() (string, error)
}

// Options configures an Application.
type Options struct {
	ConfigPath string
	Backend    hotkey.Backend
	Notifier   binding.Notifier   // optional
	Selection  SelectionSource    // defaults to the system clipboard grabber
	Launcher   Launcher           // defaults to ExecLauncher
	Secrets    config.SecretStore // nil skips keyring access
	Watch      bool               // reload when the settings file changes
}

// RoleStatus describes the binding state of one role.
type RoleStatus struct {
	Role       config.Role
	Label      string
	Hotkey     string
	Status     hotkey.Status
	Registered bool
	Err        error
}

// Application owns the current settings snapshot and keeps the hotkey
// registrations in sync with it.
type Application struct {
	opts   Options
	runner *binding.Runner
	events *Events

	mu         sync.Mutex
	settings   *config.Settings
	raw        []byte
	results    []binding.Result
	lastChange diffutil.Summary
	pinned     bool
}

// New creates a new application instance
func New(opts Options) *Application {
	if opts.Backend == nil {
		opts.Backend = hotkey.NewMemoryBackend()
	}
	if opts.Selection == nil {
		opts.Selection = clipboard.NewGrabber()
	}
	if opts.Launcher == nil {
		opts.Launcher = ExecLauncher{}
	}
	a := &Application{
		opts:   opts,
		events: NewEvents(),
	}
	a.runner = binding.NewRunner(opts.Backend, opts.Notifier, a.handler)
	return a
}

// Events returns the bus that announces applied settings and pin changes.
func (a *Application) Events() *Events {
	return a.events
}

// Backend returns the hotkey backend in use.
func (a *Application) Backend() hotkey.Backend {
	return a.opts.Backend
}

// ConfigPath returns the settings file path.
func (a *Application) ConfigPath() string {
	return a.opts.ConfigPath
}

// Start loads the settings, binds every configured role and, if enabled,
// starts watching the settings file until ctx is done. The watcher is
// attached even when the first load fails, so fixing the file recovers.
func (a *Application) Start(ctx context.Context) error {
	log.Printf("Starting with %s backend, settings '%s'", a.opts.Backend.Name(), a.opts.ConfigPath)
	loadErr := a.reload(ctx, true)
	if !a.opts.Watch {
		return loadErr
	}
	watchErr := config.Watch(ctx, a.opts.ConfigPath, func() {
		if err := a.Reload(ctx); err != nil {
			log.Printf("Reload after settings change failed: %v", err)
		}
	})
	return errors.Join(loadErr, watchErr)
}

// Reload re-reads the settings file and applies the difference to the
// current registrations. An unchanged file is a no-op.
func (a *Application) Reload(ctx context.Context) error {
	return a.reload(ctx, false)
}

// ForceReload re-applies the settings file even when it is unchanged.
func (a *Application) ForceReload(ctx context.Context) error {
	return a.reload(ctx, true)
}

func (a *Application) reload(ctx context.Context, force bool) error {
	a.mu.Lock()

	raw, err := config.ReadFile(a.opts.ConfigPath)
	if err != nil {
		a.mu.Unlock()
		log.Printf("Error reloading configuration from '%s': %v", a.opts.ConfigPath, err)
		a.notify("Configuration Error", fmt.Sprintf("Failed to read settings %s. Error: %v", a.opts.ConfigPath, err))
		return err
	}
	if !force && a.settings != nil && bytes.Equal(raw, a.raw) {
		a.mu.Unlock()
		log.Println("Settings unchanged, skipping rebind.")
		return nil
	}
	// Decode the same bytes that are kept in a.raw.
	next, err := config.Parse(a.opts.ConfigPath, raw, a.opts.Secrets)
	if err != nil {
		a.mu.Unlock()
		log.Printf("Error reloading configuration from '%s': %v", a.opts.ConfigPath, err)
		a.notify("Configuration Error", fmt.Sprintf("Failed to load settings. Check %s. Error: %v", a.opts.ConfigPath, err))
		return err
	}

	prev := a.settings
	if prev != nil {
		a.lastChange = diffutil.Summarize(string(a.raw), string(raw))
		log.Print(a.lastChange.String())
	}

	results := a.runner.Apply(ctx, binding.Plan(prev, next))
	if failed := binding.Failed(results); len(failed) > 0 {
		log.Printf("Binding: %d of %d operations failed", len(failed), len(results))
	}
	a.settings = next
	a.raw = raw
	a.results = results

	// A first start with a non-default locale counts as a change.
	if config.LocaleChanged(prev, next) {
		a.updateLocale(next)
	}

	snapshot := next.Clone()
	a.mu.Unlock()

	a.events.Publish(Event{Kind: EventConfigUpdated, Settings: snapshot, Results: results, Pinned: a.Pinned()})
	return nil
}

// updateLocale runs the locale update command. Callers hold a.mu.
func (a *Application) updateLocale(s *config.Settings) {
	locale := s.Locale()
	if len(s.Commands.UpdateLocale) == 0 {
		log.Printf("Locale changed to '%s', no update_locale command configured.", locale)
		return
	}
	argv := expand(s.Commands.UpdateLocale, placeholders{locale: locale, pinned: a.pinned})
	if err := a.opts.Launcher.Launch(argv, s.SecretEnv()); err != nil {
		log.Printf("Failed to run update_locale command: %v", err)
		return
	}
	log.Printf("Locale updated to '%s'", locale)
}

// Settings returns a copy of the current settings, nil before Start.
func (a *Application) Settings() *config.Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settings.Clone()
}

// LastChange returns the line summary of the most recent settings change.
func (a *Application) LastChange() diffutil.Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastChange
}

// Results returns the outcome of the most recent rebind.
func (a *Application) Results() []binding.Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]binding.Result(nil), a.results...)
}

// Report describes every role of the current settings.
func (a *Application) Report() []RoleStatus {
	a.mu.Lock()
	defer a.mu.Unlock()

	errs := make(map[config.Role]error)
	for _, res := range a.results {
		if res.Err != nil && res.Intent.Op != binding.OpUnbind {
			errs[res.Intent.Role] = res.Err
		}
	}

	var report []RoleStatus
	for _, role := range a.settings.Roles() {
		hk, _ := a.settings.HotkeyFor(role)
		st := RoleStatus{
			Role:   role,
			Label:  a.settings.RoleLabel(role),
			Hotkey: hk,
			Status: hotkey.Classify(hk),
			Err:    errs[role],
		}
		if st.Status == hotkey.StatusValid {
			st.Registered = a.opts.Backend.IsRegistered(hk)
		}
		report = append(report, st)
	}
	return report
}

// Pinned reports whether the translator window is kept on top.
func (a *Application) Pinned() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pinned
}

// TogglePinned flips the pin flag and returns the new value.
func (a *Application) TogglePinned() bool {
	a.mu.Lock()
	a.pinned = !a.pinned
	pinned := a.pinned
	a.mu.Unlock()

	log.Printf("Window pinned: %t", pinned)
	a.events.Publish(Event{Kind: EventPinChanged, Pinned: pinned})
	return pinned
}

// SetRoleHotkey validates value, stores it for role, saves the settings
// and rebinds. An empty value clears the role.
func (a *Application) SetRoleHotkey(ctx context.Context, role config.Role, value string) error {
	value = hotkey.Normalize(value)
	if err := hotkey.Check(value); err != nil && !errors.Is(err, hotkey.ErrEmptyHotkey) {
		a.notify(binding.RejectTitle, binding.RejectMessage(value))
		return err
	}

	a.mu.Lock()
	if a.settings == nil {
		a.mu.Unlock()
		return errors.New("settings not loaded")
	}
	next := a.settings.Clone()
	a.mu.Unlock()

	if err := next.SetRoleHotkey(role, value); err != nil {
		return err
	}
	if err := next.Save(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	log.Printf("Hotkey for %s set to '%s'", role, value)
	return a.Reload(ctx)
}

// Fire runs the command of role as if its hotkey had been pressed.
func (a *Application) Fire(role config.Role) error {
	a.mu.Lock()
	s := a.settings
	pinned := a.pinned
	a.mu.Unlock()
	if s == nil {
		return errors.New("settings not loaded")
	}

	template := commandFor(s, role)
	if len(template) == 0 {
		return fmt.Errorf("%w for %s", ErrNoCommand, role)
	}

	p := placeholders{
		action: actionID(role),
		locale: s.Locale(),
		pinned: pinned,
	}
	if needsSelection(role) {
		text, err := a.opts.Selection.Selection()
		switch {
		case errors.Is(err, clipboard.ErrNoSelection):
			log.Printf("No selection for %s, using clipboard contents", role)
		case err != nil:
			log.Printf("Failed to capture selection for %s: %v", role, err)
		}
		p.text = text
	}

	if err := a.opts.Launcher.Launch(expand(template, p), s.SecretEnv()); err != nil {
		return fmt.Errorf("run %s command: %w", role, err)
	}
	return nil
}

// handler is the binding.HandlerFunc of the application.
func (a *Application) handler(role config.Role) func() {
	return func() {
		log.Printf("Hotkey triggered: %s", role)
		if err := a.Fire(role); err != nil {
			log.Printf("Hotkey %s: %v", role, err)
		}
	}
}

// Shutdown releases every registration.
func (a *Application) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.settings != nil {
		a.runner.Apply(ctx, binding.Plan(a.settings, nil))
	}
	if err := a.opts.Backend.UnregisterAll(); err != nil {
		return fmt.Errorf("failed to unregister hotkeys: %w", err)
	}
	log.Println("All hotkeys unregistered.")
	return nil
}

func (a *Application) notify(title, body string) {
	if a.opts.Notifier != nil {
		a.opts.Notifier.Notify(title, body)
	}
}
