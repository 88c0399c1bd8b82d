// ABOUTME: Persistent record of mode transitions.
// ABOUTME: Seeds the initial mode on startup and survives daemon restarts.

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const maxHistoryEntries = 200

// ModeChange records one mode transition and what caused it.
type ModeChange struct {
	Mode   Mode      `json:"mode"`
	At     time.Time `json:"at"`
	Source string    `json:"source"` // what observed the change; detection owns all state moves
}

// ModeHistory manages the persistent transition log.
type ModeHistory struct {
	Changes []ModeChange `json:"changes"`
	path    string
	mu      sync.RWMutex
}

// NewModeHistory creates a history that persists to the given path.
func NewModeHistory(path string) *ModeHistory {
	return &ModeHistory{path: path}
}

// DefaultHistoryPath returns the history file path next to the config.
func DefaultHistoryPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}
	return filepath.Join(configDir, "daynight", "history.json")
}

// Load reads the history from disk. A missing file starts empty.
func (h *ModeHistory) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			h.Changes = nil
			return nil
		}
		return err
	}

	return json.Unmarshal(data, h)
}

// Save writes the history to disk.
func (h *ModeHistory) Save() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.save()
}

// Append records a transition and persists, trimming old entries.
func (h *ModeHistory) Append(m Mode, source string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.Changes = append(h.Changes, ModeChange{Mode: m, At: time.Now(), Source: source})
	if len(h.Changes) > maxHistoryEntries {
		h.Changes = h.Changes[len(h.Changes)-maxHistoryEntries:]
	}
	_ = h.save() // Best effort persist
}

// save persists without taking the lock; callers hold it.
func (h *ModeHistory) save() error {
	dir := filepath.Dir(h.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(h.path, data, 0600)
}

// Last returns the most recent transition.
func (h *ModeHistory) Last() (ModeChange, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.Changes) == 0 {
		return ModeChange{}, false
	}
	return h.Changes[len(h.Changes)-1], true
}

// List returns a copy of all recorded transitions.
func (h *ModeHistory) List() []ModeChange {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]ModeChange, len(h.Changes))
	copy(result, h.Changes)
	return result
}
