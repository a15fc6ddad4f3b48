package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/getlantern/systray"

	"github.com/TanaroSch/translator-hotkeys/internal/app"
	"github.com/TanaroSch/translator-hotkeys/internal/config"
	"github.com/TanaroSch/translator-hotkeys/internal/hotkey"
)

// roleItem is a tray entry bound to one hotkey role.
type roleItem struct {
	role   config.Role
	title  string
	fire   *systray.MenuItem
	change *systray.MenuItem
}

// SystrayManager handles the system tray icon and menu
type SystrayManager struct {
	ctx          context.Context
	app          *app.Application
	version      string
	embeddedIcon []byte
	onQuit       func()

	mu          sync.Mutex
	items       []*roleItem
	miPin       *systray.MenuItem
	miStatus    *systray.MenuItem
	miChange    *systray.MenuItem
	unsubscribe func()
}

// NewSystrayManager creates a new system tray manager
func NewSystrayManager(ctx context.Context, a *app.Application, version string, embeddedIcon []byte, onQuit func()) *SystrayManager {
	return &SystrayManager{
		ctx:          ctx,
		app:          a,
		version:      version,
		embeddedIcon: embeddedIcon,
		onQuit:       onQuit,
	}
}

// Run initializes and starts the system tray. It blocks until Quit.
func (s *SystrayManager) Run() {
	systray.Run(s.onReady, s.onExit)
}

// Quit stops the tray loop.
func (s *SystrayManager) Quit() {
	systray.Quit()
}

func menuTitle(title, hk string) string {
	if hotkey.Classify(hk) == hotkey.StatusAbsent {
		return title
	}
	return fmt.Sprintf("%s (%s)", title, hotkey.Normalize(hk))
}

// onReady is called by systray once the tray is ready.
func (s *SystrayManager) onReady() {
	title := fmt.Sprintf("Translator Hotkeys %s", s.version)
	systray.SetTitle(title)
	systray.SetTooltip(title)
	if len(s.embeddedIcon) > 0 {
		systray.SetIcon(s.embeddedIcon)
	} else {
		log.Println("Warning: No embedded icon data to set for systray.")
	}

	miVersion := systray.AddMenuItem(fmt.Sprintf("Version: %s", s.version), "Translator Hotkeys version")
	miVersion.Disable()
	miSettings := systray.AddMenuItem("Settings", "Open the settings file in the default editor")
	systray.AddSeparator()

	settings := s.app.Settings()
	fixedTitles := map[config.RoleKind]string{
		config.RolePrimary:       "Translate",
		config.RoleOCR:           "OCR",
		config.RoleDisplayWindow: "Show",
		config.RoleWriting:       "Writing",
	}
	for _, role := range []config.Role{
		{Kind: config.RolePrimary}, {Kind: config.RoleOCR}, {Kind: config.RoleDisplayWindow}, {Kind: config.RoleWriting},
	} {
		s.addRoleItem(role, fixedTitles[role.Kind])
	}
	// settings is nil when the first load failed.
	if settings != nil {
		for _, action := range settings.Actions {
			s.addRoleItem(config.ActionRole(action.ID), settings.RoleLabel(config.ActionRole(action.ID)))
		}
	}

	s.miChange = systray.AddMenuItem("Change Hotkey…", "Edit the hotkey of a role")
	for _, it := range s.items {
		it.change = s.miChange.AddSubMenuItem(it.title, "Change the hotkey for "+it.title)
	}
	s.miPin = systray.AddMenuItem("Pin", "Keep the translator window on top")
	systray.AddSeparator()

	s.miStatus = systray.AddMenuItem("Bindings", "Show the state of every hotkey")
	miLastChange := systray.AddMenuItem("Last Settings Change", "Show what changed in the last reload")
	miReload := systray.AddMenuItem("Reload", "Re-read the settings file and rebind every hotkey")
	systray.AddSeparator()
	miQuit := systray.AddMenuItem("Quit", "Exit the application")

	s.refresh(settings)
	s.unsubscribe = s.app.Events().Subscribe(func(ev app.Event) {
		switch ev.Kind {
		case app.EventConfigUpdated:
			s.refresh(ev.Settings)
		case app.EventPinChanged:
			s.setPinned(ev.Pinned)
		}
	})

	for _, it := range s.items {
		go s.watchRoleItem(it)
	}

	go func() {
		for range miSettings.ClickedCh {
			log.Println("Settings menu item clicked.")
			if err := OpenFileInDefaultApp(s.app.ConfigPath()); err != nil {
				ShowAdminNotification(LevelWarn, "Error Opening File", fmt.Sprintf("Could not open settings '%s': %v", s.app.ConfigPath(), err))
			}
		}
	}()
	go func() {
		for range s.miPin.ClickedCh {
			s.app.TogglePinned()
		}
	}()
	go func() {
		for range s.miStatus.ClickedCh {
			ShowBindingReport(s.app.Report())
		}
	}()
	go func() {
		for range miLastChange.ClickedCh {
			ShowChangeSummary(s.app.LastChange().String())
		}
	}()
	go func() {
		for range miReload.ClickedCh {
			log.Println("Reload menu item clicked.")
			if err := s.app.ForceReload(s.ctx); err != nil {
				ShowAdminNotification(LevelError, "Configuration Error", err.Error())
			}
		}
	}()
	go func() {
		<-miQuit.ClickedCh
		log.Println("Quit menu item clicked.")
		if s.onQuit != nil {
			s.onQuit()
		}
		systray.Quit()
	}()

	log.Println("Systray ready and menu configured.")
}

func (s *SystrayManager) addRoleItem(role config.Role, title string) {
	it := &roleItem{
		role:  role,
		title: title,
		fire:  systray.AddMenuItem(title, "Run "+title),
	}
	s.items = append(s.items, it)
}

func (s *SystrayManager) watchRoleItem(it *roleItem) {
	for {
		select {
		case <-it.fire.ClickedCh:
			log.Printf("Tray: %s clicked", it.role)
			if err := s.app.Fire(it.role); err != nil {
				log.Printf("Tray: %s: %v", it.role, err)
				if errors.Is(err, app.ErrNoCommand) {
					ShowAdminNotification(LevelWarn, it.title, "No command configured for this role.")
				}
			}
		case <-it.change.ClickedCh:
			s.changeHotkey(it)
		}
	}
}

func (s *SystrayManager) changeHotkey(it *roleItem) {
	current, _ := s.app.Settings().HotkeyFor(it.role)
	value, err := PromptHotkey(it.title, current)
	if errors.Is(err, ErrCanceled) {
		log.Printf("Change hotkey for %s canceled.", it.role)
		return
	}
	if err != nil {
		log.Printf("Hotkey prompt failed: %v", err)
		return
	}
	if err := s.app.SetRoleHotkey(s.ctx, it.role, value); err != nil {
		ShowAdminNotification(LevelWarn, "Hotkey Not Changed", err.Error())
	}
}

// refresh updates labels with the hotkeys of settings, the tray
// counterpart of the hotkey-updated event.
func (s *SystrayManager) refresh(settings *config.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		hk, ok := settings.HotkeyFor(it.role)
		if !ok {
			it.fire.Hide()
			it.change.Hide()
			continue
		}
		if it.role.Kind == config.RoleAction {
			it.title = settings.RoleLabel(it.role)
		}
		it.fire.Show()
		it.change.Show()
		it.fire.SetTitle(menuTitle(it.title, hk))
		it.change.SetTitle(menuTitle(it.title, hk))
	}
	if settings != nil {
		for _, a := range settings.Actions {
			if !s.hasItem(config.ActionRole(a.ID)) {
				log.Printf("SystrayManager: action %d is new; restart to add its menu item.", a.ID)
			}
		}
	}

	ok, failed := 0, 0
	for _, st := range s.app.Report() {
		switch {
		case st.Registered:
			ok++
		case st.Status != hotkey.StatusAbsent:
			failed++
		}
	}
	if s.miStatus != nil {
		s.miStatus.SetTitle(fmt.Sprintf("Bindings: %d active, %d failed", ok, failed))
	}
}

func (s *SystrayManager) hasItem(role config.Role) bool {
	for _, it := range s.items {
		if it.role == role {
			return true
		}
	}
	return false
}

func (s *SystrayManager) setPinned(pinned bool) {
	if s.miPin == nil {
		return
	}
	if pinned {
		s.miPin.SetTitle("Unpin")
		s.miPin.Check()
	} else {
		s.miPin.SetTitle("Pin")
		s.miPin.Uncheck()
	}
}

// onExit is called when the systray is exiting
func (s *SystrayManager) onExit() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	log.Println("Systray exiting.")
}
