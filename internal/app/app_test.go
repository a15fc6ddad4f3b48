package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/TanaroSch/translator-hotkeys/internal/binding"
	"github.com/TanaroSch/translator-hotkeys/internal/clipboard"
	"github.com/TanaroSch/translator-hotkeys/internal/config"
	"github.com/TanaroSch/translator-hotkeys/internal/hotkey"
)

type launch struct {
	argv []string
	env  []string
}

type recordingLauncher struct {
	mu       sync.Mutex
	launches []launch
}

func (r *recordingLauncher) Launch(argv, env []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.launches = append(r.launches, launch{argv, env})
	return nil
}

func (r *recordingLauncher) all() []launch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]launch(nil), r.launches...)
}

type fixedSelection struct {
	text string
	err  error
}

func (f fixedSelection) Selection() (string, error) { return f.text, f.err }

type fakeNotifier struct {
	mu     sync.Mutex
	bodies []string
}

func (f *fakeNotifier) Notify(title, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies = append(f.bodies, title+": "+body)
}

type fixture struct {
	app      *Application
	backend  *hotkey.MemoryBackend
	launcher *recordingLauncher
	notifier *fakeNotifier
	path     string
}

func newFixture(t *testing.T, s *config.Settings, sel SelectionSource) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	s.SetConfigPath(path)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	f := &fixture{
		backend:  hotkey.NewMemoryBackend(),
		launcher: &recordingLauncher{},
		notifier: &fakeNotifier{},
		path:     path,
	}
	if sel == nil {
		sel = fixedSelection{text: "hola"}
	}
	f.app = New(Options{
		ConfigPath: path,
		Backend:    f.backend,
		Notifier:   f.notifier,
		Selection:  sel,
		Launcher:   f.launcher,
	})
	return f
}

func baseSettings() *config.Settings {
	return &config.Settings{
		Hotkey:              "Alt+T",
		DisplayWindowHotkey: "Alt+D",
		OCRHotkey:           "Alt+O",
		WritingHotkey:       "Alt+W",
		Actions:             []config.Action{{ID: 3, Name: "Polish", Hotkey: "Alt+3"}},
		Commands: config.Commands{
			Translate:     []string{"translator", "--action", "{action}", "{text}"},
			DisplayWindow: []string{"translator", "--show", "--pinned={pinned}"},
			OCR:           []string{"translator", "--ocr"},
			Writing:       []string{"translator", "--write", "{text}"},
			UpdateLocale:  []string{"translator", "--locale", "{locale}"},
		},
	}
}

func TestStartBindsAndFires(t *testing.T) {
	t.Parallel()

	f := newFixture(t, baseSettings(), nil)
	if err := f.app.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	expected := []string{"alt+3", "alt+d", "alt+o", "alt+t", "alt+w"}
	if got := f.backend.Registered(); !reflect.DeepEqual(got, expected) {
		t.Fatalf("Registered() = %v", got)
	}

	f.backend.Trigger("alt+t")
	f.backend.Trigger("alt+3")
	f.backend.Trigger("alt+d")
	f.backend.Trigger("alt+w")
	f.backend.Trigger("alt+o")

	got := f.launcher.all()
	argvs := make([][]string, len(got))
	for i, l := range got {
		argvs[i] = l.argv
	}
	expectedArgv := [][]string{
		{"translator", "--action", "0", "hola"},
		{"translator", "--action", "3", "hola"},
		{"translator", "--show", "--pinned=false"},
		{"translator", "--write", "hola"},
		{"translator", "--ocr"},
	}
	if !reflect.DeepEqual(argvs, expectedArgv) {
		t.Fatalf("launched %v", argvs)
	}
}

func TestReloadRebindsChangedRoles(t *testing.T) {
	t.Parallel()

	f := newFixture(t, baseSettings(), nil)
	ctx := context.Background()
	if err := f.app.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var events []Event
	cancel := f.app.Events().Subscribe(func(ev Event) { events = append(events, ev) })
	defer cancel()

	next := f.app.Settings()
	next.Hotkey = "Alt+Y"
	next.OCRHotkey = "ctrl+shift"
	next.Actions = nil
	if err := next.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := f.app.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	expected := []string{"alt+d", "alt+w", "alt+y"}
	if got := f.backend.Registered(); !reflect.DeepEqual(got, expected) {
		t.Fatalf("Registered() = %v", got)
	}
	if len(f.notifier.bodies) != 1 || f.notifier.bodies[0] != "Cannot bind hotkey: Hotkey must contain at least one normal key: ctrl+shift" {
		t.Fatalf("notifications = %v", f.notifier.bodies)
	}
	if len(events) != 1 || events[0].Kind != EventConfigUpdated || events[0].Settings.Hotkey != "Alt+Y" {
		t.Fatalf("events = %+v", events)
	}
	if f.app.LastChange().Empty() {
		t.Fatal("expected a settings change summary")
	}

	// An unchanged file does not rebind or publish.
	if err := f.app.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("unchanged reload published %d events", len(events))
	}
}

func TestReloadKeepsBindingsOnParseError(t *testing.T) {
	t.Parallel()

	f := newFixture(t, baseSettings(), nil)
	ctx := context.Background()
	if err := f.app.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := os.WriteFile(f.path, []byte("{broken"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := f.app.Reload(ctx); err == nil {
		t.Fatal("expected reload error")
	}
	if !f.backend.IsRegistered("alt+t") {
		t.Fatal("bindings lost after failed reload")
	}
	if len(f.notifier.bodies) != 1 {
		t.Fatalf("expected a configuration error notification, got %v", f.notifier.bodies)
	}
}

func TestLocaleUpdate(t *testing.T) {
	t.Parallel()

	s := baseSettings()
	s.I18n = "en"
	f := newFixture(t, s, nil)
	ctx := context.Background()
	if err := f.app.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if n := len(f.launcher.all()); n != 0 {
		t.Fatalf("default locale must not run update_locale, got %d launches", n)
	}

	next := f.app.Settings()
	next.I18n = "pt_br"
	if err := next.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := f.app.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	got := f.launcher.all()
	if len(got) != 1 || !reflect.DeepEqual(got[0].argv, []string{"translator", "--locale", "pt-BR"}) {
		t.Fatalf("launches = %+v", got)
	}
}

func TestSetRoleHotkey(t *testing.T) {
	t.Parallel()

	f := newFixture(t, baseSettings(), nil)
	ctx := context.Background()
	if err := f.app.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := f.app.SetRoleHotkey(ctx, config.Role{Kind: config.RoleOCR}, "Ctrl - Shift - X"); err != nil {
		t.Fatalf("SetRoleHotkey: %v", err)
	}
	if !f.backend.IsRegistered("ctrl+shift+x") || f.backend.IsRegistered("alt+o") {
		t.Fatalf("Registered() = %v", f.backend.Registered())
	}
	loaded, err := config.LoadWithSecrets(f.path, nil)
	if err != nil {
		t.Fatalf("LoadWithSecrets: %v", err)
	}
	if loaded.OCRHotkey != "Ctrl+Shift+X" {
		t.Fatalf("saved ocr hotkey = %q", loaded.OCRHotkey)
	}

	err = f.app.SetRoleHotkey(ctx, config.Role{Kind: config.RoleOCR}, "Shift")
	if !errors.Is(err, hotkey.ErrInvalidHotkey) {
		t.Fatalf("expected ErrInvalidHotkey, got %v", err)
	}

	if err := f.app.SetRoleHotkey(ctx, config.Role{Kind: config.RoleOCR}, ""); err != nil {
		t.Fatalf("clearing a role: %v", err)
	}
	if f.backend.IsRegistered("ctrl+shift+x") {
		t.Fatal("cleared role is still registered")
	}

	if err := f.app.SetRoleHotkey(ctx, config.ActionRole(99), "Alt+9"); !errors.Is(err, config.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestFireWithoutSelectionUsesClipboard(t *testing.T) {
	t.Parallel()

	f := newFixture(t, baseSettings(), fixedSelection{text: "clip", err: clipboard.ErrNoSelection})
	if err := f.app.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := f.app.Fire(config.Role{Kind: config.RoleWriting}); err != nil {
		t.Fatalf("Fire: %v", err)
	}
	if got := f.launcher.all(); !reflect.DeepEqual(got[0].argv, []string{"translator", "--write", "clip"}) {
		t.Fatalf("launches = %+v", got)
	}
}

func TestFireWithoutCommand(t *testing.T) {
	t.Parallel()

	s := baseSettings()
	s.Commands.OCR = nil
	f := newFixture(t, s, nil)
	if err := f.app.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := f.app.Fire(config.Role{Kind: config.RoleOCR}); !errors.Is(err, ErrNoCommand) {
		t.Fatalf("expected ErrNoCommand, got %v", err)
	}
}

func TestPinnedFlag(t *testing.T) {
	t.Parallel()

	f := newFixture(t, baseSettings(), nil)
	if err := f.app.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	var pinEvents []bool
	f.app.Events().Subscribe(func(ev Event) {
		if ev.Kind == EventPinChanged {
			pinEvents = append(pinEvents, ev.Pinned)
		}
	})
	if !f.app.TogglePinned() {
		t.Fatal("expected pinned after first toggle")
	}
	if err := f.app.Fire(config.Role{Kind: config.RoleDisplayWindow}); err != nil {
		t.Fatalf("Fire: %v", err)
	}
	if got := f.launcher.all(); !reflect.DeepEqual(got[0].argv, []string{"translator", "--show", "--pinned=true"}) {
		t.Fatalf("launches = %+v", got)
	}
	if !reflect.DeepEqual(pinEvents, []bool{true}) {
		t.Fatalf("pin events = %v", pinEvents)
	}
}

func TestReportAndShutdown(t *testing.T) {
	t.Parallel()

	s := baseSettings()
	s.WritingHotkey = "Alt"
	s.DisplayWindowHotkey = ""
	f := newFixture(t, s, nil)
	ctx := context.Background()
	if err := f.app.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	byRole := map[string]RoleStatus{}
	for _, st := range f.app.Report() {
		byRole[st.Role.String()] = st
	}
	if st := byRole["hotkey"]; !st.Registered || st.Status != hotkey.StatusValid {
		t.Fatalf("primary status = %+v", st)
	}
	if st := byRole["writing"]; st.Status != hotkey.StatusInvalid || st.Err == nil || st.Registered {
		t.Fatalf("writing status = %+v", st)
	}
	if st := byRole["display_window"]; st.Status != hotkey.StatusAbsent {
		t.Fatalf("display_window status = %+v", st)
	}
	if st := byRole["action:3"]; st.Label != "Action: Polish" {
		t.Fatalf("action label = %q", st.Label)
	}

	if err := f.app.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if got := f.backend.Registered(); len(got) != 0 {
		t.Fatalf("registrations after shutdown: %v", got)
	}
}

func TestSecretsReachCommands(t *testing.T) {
	t.Parallel()

	s := baseSettings()
	s.Secrets = map[string]string{"deepl": "managed"}
	path := filepath.Join(t.TempDir(), "settings.json")
	s.SetConfigPath(path)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	launcher := &recordingLauncher{}
	a := New(Options{
		ConfigPath: path,
		Selection:  fixedSelection{text: "x"},
		Launcher:   launcher,
		Secrets:    staticStore{"deepl": "k3y"},
	})
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := a.Fire(config.Role{Kind: config.RolePrimary}); err != nil {
		t.Fatalf("Fire: %v", err)
	}
	if got := launcher.all()[0].env; !reflect.DeepEqual(got, []string{"TRANSLATOR_SECRET_DEEPL=k3y"}) {
		t.Fatalf("env = %v", got)
	}
}

type staticStore map[string]string

func (s staticStore) Get(name string) (string, error) {
	v, ok := s[name]
	if !ok {
		return "", config.ErrSecretNotFound
	}
	return v, nil
}
func (s staticStore) Set(string, string) error { return nil }
func (s staticStore) Remove(string) error      { return nil }

func TestWatchTriggersReload(t *testing.T) {
	f := newFixture(t, baseSettings(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.app.opts.Watch = true

	updated := make(chan *config.Settings, 4)
	f.app.Events().Subscribe(func(ev Event) {
		if ev.Kind == EventConfigUpdated {
			updated <- ev.Settings
		}
	})
	if err := f.app.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-updated

	time.Sleep(50 * time.Millisecond)
	next := f.app.Settings()
	next.Hotkey = "Alt+Z"
	if err := next.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	select {
	case s := <-updated:
		if s.Hotkey != "Alt+Z" {
			t.Fatalf("reloaded hotkey = %q", s.Hotkey)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("expected reload after settings change")
	}
	if !f.backend.IsRegistered("alt+z") {
		t.Fatal("new hotkey not bound after watch reload")
	}
}

func TestWatchRecoversFromBrokenStartup(t *testing.T) {
	f := newFixture(t, baseSettings(), nil)
	if err := os.WriteFile(f.path, []byte("{broken"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.app.opts.Watch = true

	updated := make(chan *config.Settings, 4)
	f.app.Events().Subscribe(func(ev Event) {
		if ev.Kind == EventConfigUpdated {
			updated <- ev.Settings
		}
	})
	if err := f.app.Start(ctx); err == nil {
		t.Fatal("expected Start to report the broken settings file")
	}
	if got := f.backend.Registered(); len(got) != 0 {
		t.Fatalf("registered = %v with broken settings", got)
	}

	time.Sleep(50 * time.Millisecond)
	fixed := baseSettings()
	fixed.SetConfigPath(f.path)
	if err := fixed.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	select {
	case <-updated:
	case <-time.After(3 * time.Second):
		t.Fatal("fixed settings file was never reloaded")
	}
	if !f.backend.IsRegistered("alt+t") {
		t.Fatalf("registered = %v after fixing settings", f.backend.Registered())
	}
}

// rewritingStore replaces the settings file the first time a secret is
// read, which happens while a reload is in progress.
type rewritingStore struct {
	once    sync.Once
	rewrite func()
}

func (s *rewritingStore) Get(string) (string, error) {
	s.once.Do(s.rewrite)
	return "v", nil
}
func (s *rewritingStore) Set(string, string) error { return nil }
func (s *rewritingStore) Remove(string) error      { return nil }

func TestReloadKeepsBytesOfAppliedSettings(t *testing.T) {
	t.Parallel()

	s := baseSettings()
	s.Secrets = map[string]string{"deepl": "managed"}
	f := newFixture(t, s, nil)

	store := &rewritingStore{rewrite: func() {
		changed := s.Clone()
		changed.Hotkey = "Alt+Z"
		if err := changed.Save(); err != nil {
			t.Errorf("Save: %v", err)
		}
	}}
	f.app.opts.Secrets = store

	ctx := context.Background()
	if err := f.app.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := f.app.Settings().Hotkey; got != "Alt+T" {
		t.Fatalf("applied hotkey = %q, expected the bytes read first", got)
	}

	// The file on disk differs from what was applied, so this must rebind.
	if err := f.app.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if !f.backend.IsRegistered("alt+z") || f.backend.IsRegistered("alt+t") {
		t.Fatalf("registered = %v after reload", f.backend.Registered())
	}
}

var _ binding.Notifier = (*fakeNotifier)(nil)
