package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Action is a user-defined translation action with its own hotkey.
type Action struct {
	ID     int64  `json:"id" toml:"id"`
	Name   string `json:"name" toml:"name"`
	Hotkey string `json:"hotkey,omitempty" toml:"hotkey,omitempty"`
}

// Commands holds the argv templates launched when a role fires.
// Placeholders: {text}, {action}, {locale}, {pinned}.
type Commands struct {
	Translate     []string `json:"translate,omitempty" toml:"translate,omitempty"`
	DisplayWindow []string `json:"display_window,omitempty" toml:"display_window,omitempty"`
	OCR           []string `json:"ocr,omitempty" toml:"ocr,omitempty"`
	Writing       []string `json:"writing,omitempty" toml:"writing,omitempty"`
	UpdateLocale  []string `json:"update_locale,omitempty" toml:"update_locale,omitempty"`
}

// Settings holds the application configuration
type Settings struct {
	Hotkey              string            `json:"hotkey" toml:"hotkey"`
	DisplayWindowHotkey string            `json:"display_window_hotkey" toml:"display_window_hotkey"`
	OCRHotkey           string            `json:"ocr_hotkey" toml:"ocr_hotkey"`
	WritingHotkey       string            `json:"writing_hotkey" toml:"writing_hotkey"`
	I18n                string            `json:"i18n" toml:"i18n"`
	UseNotifications    bool              `json:"use_notifications" toml:"use_notifications"`
	Actions             []Action          `json:"actions,omitempty" toml:"actions,omitempty"`
	Commands            Commands          `json:"commands" toml:"commands"`
	Secrets             map[string]string `json:"secrets,omitempty" toml:"secrets,omitempty"` // Maps logical name -> "managed"

	// Non-serialized runtime state
	configPath      string
	resolvedSecrets map[string]string
}

// GetConfigPath returns the path the settings were loaded from.
func (s *Settings) GetConfigPath() string {
	return s.configPath
}

// SetConfigPath sets the path used by Save.
func (s *Settings) SetConfigPath(path string) {
	s.configPath = path
}

// GetResolvedSecrets returns the map of loaded secrets.
func (s *Settings) GetResolvedSecrets() map[string]string {
	if s.resolvedSecrets == nil {
		return make(map[string]string)
	}
	return s.resolvedSecrets
}

// Locale returns the canonical i18n tag, defaulting to "en".
func (s *Settings) Locale() string {
	return CanonicalLocale(s.I18n)
}

// Clone returns a deep copy that shares nothing with s. The binding planner
// works on clones so a reload never mutates the previous snapshot.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}
	c := *s
	c.Actions = append([]Action(nil), s.Actions...)
	c.Commands = Commands{
		Translate:     append([]string(nil), s.Commands.Translate...),
		DisplayWindow: append([]string(nil), s.Commands.DisplayWindow...),
		OCR:           append([]string(nil), s.Commands.OCR...),
		Writing:       append([]string(nil), s.Commands.Writing...),
		UpdateLocale:  append([]string(nil), s.Commands.UpdateLocale...),
	}
	c.Secrets = copyMap(s.Secrets)
	c.resolvedSecrets = copyMap(s.resolvedSecrets)
	return &c
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// isTOML reports whether path selects the TOML format.
func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads the settings file, creating a default one when missing, and
// resolves managed secrets from the OS keyring.
func Load(configPath string) (*Settings, error) {
	return LoadWithSecrets(configPath, NewKeyringStore(DefaultKeyringService))
}

// LoadWithSecrets is Load with an explicit secret store. A nil store skips
// secret resolution.
func LoadWithSecrets(configPath string, store SecretStore) (*Settings, error) {
	data, err := ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	return Parse(configPath, data, store)
}

// ReadFile returns the raw settings file, creating a default one when it
// is missing.
func ReadFile(configPath string) ([]byte, error) {
	data, err := os.ReadFile(configPath)
	if err == nil {
		return data, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}
	log.Printf("Config file '%s' not found. Attempting to create default.", configPath)
	if createErr := CreateDefaultConfig(configPath); createErr != nil {
		return nil, fmt.Errorf("config file not found and failed to create default '%s': %w", configPath, createErr)
	}
	data, err = os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s' even after creating default: %w", configPath, err)
	}
	return data, nil
}

// Parse decodes data read from configPath, resolves its secrets from store
// and canonicalizes the locale.
func Parse(configPath string, data []byte, store SecretStore) (*Settings, error) {
	settings, err := Decode(configPath, data)
	if err != nil {
		return nil, err
	}
	settings.configPath = configPath
	settings.resolvedSecrets = resolveSecrets(store, settings.Secrets)

	if canonical := CanonicalLocale(settings.I18n); settings.I18n != "" && canonical != settings.I18n {
		log.Printf("Config: normalized i18n '%s' to '%s'", settings.I18n, canonical)
		settings.I18n = canonical
	}
	return settings, nil
}

// Decode parses data in the format selected by path's extension.
func Decode(path string, data []byte) (*Settings, error) {
	var settings Settings
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &settings); err != nil {
			return nil, fmt.Errorf("failed to parse config file '%s': decode toml: %w", path, err)
		}
		return &settings, nil
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': decode json: %w", path, err)
	}
	return &settings, nil
}

// Encode serializes s in the format selected by path's extension.
func (s *Settings) Encode(path string) ([]byte, error) {
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(s); err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return buf.Bytes(), nil
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return append(data, '\n'), nil
}

// Save writes the current configuration back to its file.
func (s *Settings) Save() error {
	if s.configPath == "" {
		return fmt.Errorf("config path not set")
	}
	data, err := s.Encode(s.configPath)
	if err != nil {
		return err
	}
	// The file may reference secrets, keep it owner-only.
	return os.WriteFile(s.configPath, data, 0600)
}

// DefaultSettings returns the settings written on first start.
func DefaultSettings() *Settings {
	return &Settings{
		Hotkey:              "CommandOrControl+Shift+T",
		DisplayWindowHotkey: "CommandOrControl+Shift+D",
		OCRHotkey:           "CommandOrControl+Shift+O",
		WritingHotkey:       "",
		I18n:                "en",
		UseNotifications:    true,
		Actions: []Action{
			{ID: 1, Name: "Polish", Hotkey: ""},
		},
		Secrets: make(map[string]string),
	}
}

// CreateDefaultConfig creates a default configuration file if none exists
func CreateDefaultConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return nil // File exists, don't overwrite
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking config path '%s': %w", configPath, err)
	}

	log.Printf("Creating default configuration file at: %s", configPath)

	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create config directory '%s': %w", dir, err)
		}
	}

	defaults := DefaultSettings()
	defaults.configPath = configPath
	if err := defaults.Save(); err != nil {
		return fmt.Errorf("failed to write default config file '%s': %w", configPath, err)
	}

	log.Printf("Default configuration file created successfully.")
	return nil
}
