// Package settings stores per-user credentials for the translation
// services in the XDG data directory:
//
//	$XDG_DATA_HOME/potui/auth.json  (default: ~/.local/share/potui/auth.json)
//
// The file is a JSON object keyed by service display name; permissions
// are 0600 (owner read/write only).
//
// Lookup order for API keys:
//  1. --api-key flag (highest priority)
//  2. POTUI_API_KEY environment variable
//  3. This credential store
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dataDirName = "potui"
	fileName    = "auth.json"
)

// Info is the stored credential for one service.
type Info struct {
	// Key is the API key.
	Key string `json:"key"`
	// Tier is "free" or "pro" where the service distinguishes.
	Tier string `json:"tier,omitempty"`
}

// Store holds all service credentials, keyed by service display name.
type Store map[string]*Info

// EnvAPIKey is the environment variable consulted before the store.
const EnvAPIKey = "POTUI_API_KEY"

// dataDir respects $XDG_DATA_HOME, falling back to ~/.local/share.
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json path for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// Load reads the credential store from disk. A missing or unreadable
// file loads as an empty store.
func Load() Store {
	path, err := filePath()
	if err != nil {
		return make(Store)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return make(Store)
	}
	var store Store
	if err := json.Unmarshal(data, &store); err != nil || store == nil {
		return make(Store)
	}
	return store
}

// Save writes the credential store with 0600 permissions.
func Save(store Store) error {
	path, err := filePath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// Get returns the credential for a service, or nil when none is stored.
func Get(service string) *Info {
	return Load()[service]
}

// Set upserts the credential for a service.
func Set(service string, info *Info) error {
	store := Load()
	store[service] = info
	return Save(store)
}

// Remove deletes the credential for a service.
func Remove(service string) error {
	store := Load()
	if _, ok := store[service]; !ok {
		return nil
	}
	delete(store, service)
	return Save(store)
}

// APIKey resolves the key for a service: explicit flag value first, the
// environment second, the store last. The returned tier comes from the
// store when the key does.
func APIKey(service, flagValue string) (key, tier string) {
	if flagValue != "" {
		return flagValue, ""
	}
	if env := os.Getenv(EnvAPIKey); env != "" {
		return env, ""
	}
	if info := Get(service); info != nil {
		return info.Key, info.Tier
	}
	return "", ""
}
