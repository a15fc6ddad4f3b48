package config

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/99designs/keyring"
)

// DefaultKeyringService is the service name used for keyring entries.
const DefaultKeyringService = "TranslatorHotkeys"

// SecretEnvPrefix prefixes the environment variables that expose resolved
// secrets to role commands.
const SecretEnvPrefix = "TRANSLATOR_SECRET_"

// ErrSecretNotFound is returned by a SecretStore for unknown names.
var ErrSecretNotFound = errors.New("secret not found")

// SecretStore persists secret values outside the config file.
type SecretStore interface {
	Get(name string) (string, error)
	Set(name, value string) error
	Remove(name string) error
}

// KeyringStore stores secrets in the OS keyring.
type KeyringStore struct {
	service string
}

// NewKeyringStore returns a store for the given keyring service.
func NewKeyringStore(service string) *KeyringStore {
	return &KeyringStore{service: service}
}

func (k *KeyringStore) open() (keyring.Keyring, error) {
	kr, err := keyring.Open(keyring.Config{
		ServiceName: k.service,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
		},
		LibSecretCollectionName:  "login",
		PassPrefix:               k.service,
		WinCredPrefix:            k.service,
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring for service '%s': %w", k.service, err)
	}
	return kr, nil
}

// Get returns the secret stored under name.
func (k *KeyringStore) Get(name string) (string, error) {
	kr, err := k.open()
	if err != nil {
		return "", err
	}
	item, err := kr.Get(name)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read secret '%s': %w", name, err)
	}
	return string(item.Data), nil
}

// Set stores value under name.
func (k *KeyringStore) Set(name, value string) error {
	kr, err := k.open()
	if err != nil {
		return err
	}
	err = kr.Set(keyring.Item{
		Key:         name,
		Data:        []byte(value),
		Label:       fmt.Sprintf("Secret for %s used by %s", name, k.service),
		Description: "Managed by translator-hotkeys",
	})
	if err != nil {
		return fmt.Errorf("failed to store secret '%s' in keyring: %w", name, err)
	}
	return nil
}

// Remove deletes name. Removing an unknown secret is not an error.
func (k *KeyringStore) Remove(name string) error {
	kr, err := k.open()
	if err != nil {
		return err
	}
	if err := kr.Remove(name); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete secret '%s' from keyring: %w", name, err)
	}
	return nil
}

// resolveSecrets loads every referenced secret. Missing or unreadable
// secrets are logged and skipped.
func resolveSecrets(store SecretStore, refs map[string]string) map[string]string {
	resolved := make(map[string]string)
	if store == nil || len(refs) == 0 {
		return resolved
	}
	for name := range refs {
		value, err := store.Get(name)
		switch {
		case err == nil:
			resolved[name] = value
		case errors.Is(err, ErrSecretNotFound):
			log.Printf("Warning: Secret '%s' not found in keyring. Commands using it may fail.", name)
		default:
			log.Printf("Error retrieving secret '%s': %v", name, err)
		}
	}
	return resolved
}

// AddSecretReference stores value in store and records name in the config.
func (s *Settings) AddSecretReference(store SecretStore, name, value string) error {
	if err := store.Set(name, value); err != nil {
		return err
	}
	if s.Secrets == nil {
		s.Secrets = make(map[string]string)
	}
	s.Secrets[name] = "managed"
	return s.Save()
}

// RemoveSecretReference deletes name from store and from the config.
func (s *Settings) RemoveSecretReference(store SecretStore, name string) error {
	if err := store.Remove(name); err != nil {
		log.Printf("Warning: %v", err)
	}
	delete(s.Secrets, name)
	return s.Save()
}

// GetSecretNames returns the logical names of managed secrets, sorted.
func (s *Settings) GetSecretNames() []string {
	names := make([]string, 0, len(s.Secrets))
	for name := range s.Secrets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SecretEnv returns the resolved secrets as KEY=VALUE pairs, one per
// secret, with names upper-cased and non-alphanumerics mapped to '_'.
func (s *Settings) SecretEnv() []string {
	resolved := s.GetResolvedSecrets()
	names := make([]string, 0, len(resolved))
	for name := range resolved {
		names = append(names, name)
	}
	sort.Strings(names)

	env := make([]string, 0, len(names))
	for _, name := range names {
		env = append(env, SecretEnvPrefix+envName(name)+"="+resolved[name])
	}
	return env
}

func envName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, name)
}
