// ABOUTME: Configuration file handling for persistent settings.
// ABOUTME: Stores switcher tool, detection variant, sync and theme settings.

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// ModeTheme holds the theme settings gloam applies for one mode.
type ModeTheme struct {
	LookAndFeel string `json:"lookAndFeel,omitempty"`
	Wallpaper   string `json:"wallpaper,omitempty"`
	Font        string `json:"font,omitempty"`
}

// GloamConfig holds the switcher CLI settings.
type GloamConfig struct {
	Dark  ModeTheme `json:"dark,omitempty"`
	Light ModeTheme `json:"light,omitempty"`
}

// Config holds the persistent configuration shared by the daemon and gloam.
type Config struct {
	Tool                 string      `json:"tool,omitempty"`       // switcher command, default "gloam"
	StatusFile           string      `json:"statusFile,omitempty"` // default $XDG_RUNTIME_DIR/plasma-daynight-mode
	Detection            string      `json:"detection,omitempty"`  // statusfile | kde | auto
	PollIntervalSeconds  int         `json:"pollIntervalSeconds,omitempty"`
	ToggleTimeoutSeconds int         `json:"toggleTimeoutSeconds,omitempty"`
	Listen               string      `json:"listen,omitempty"` // sync server address, empty = off
	Secret               string      `json:"secret,omitempty"`
	Follow               string      `json:"follow,omitempty"` // remote daemon websocket URL
	ScriptsDir           string      `json:"scriptsDir,omitempty"`
	Gloam                GloamConfig `json:"gloam,omitempty"`
}

// ConfigPath returns the platform-appropriate path for the config file.
func ConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}
	return filepath.Join(configDir, "daynight", "config.json")
}

// LoadConfig reads the configuration from the given path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the given path, creating directories as needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// EffectiveTool returns the configured switcher command or the default.
func (c *Config) EffectiveTool() string {
	if c.Tool != "" {
		return c.Tool
	}
	return "gloam"
}

// EffectiveStatusFile returns the configured status file path or the default.
func (c *Config) EffectiveStatusFile() string {
	if c.StatusFile != "" {
		return c.StatusFile
	}
	return DefaultStatusFile()
}

// PollInterval returns the detection poll interval, default 1s.
func (c *Config) PollInterval() time.Duration {
	if c.PollIntervalSeconds > 0 {
		return time.Duration(c.PollIntervalSeconds) * time.Second
	}
	return time.Second
}

// ToggleTimeout returns the switcher command timeout, default 30s.
func (c *Config) ToggleTimeout() time.Duration {
	if c.ToggleTimeoutSeconds > 0 {
		return time.Duration(c.ToggleTimeoutSeconds) * time.Second
	}
	return defaultToggleTimeout
}

// ScriptsPath returns the configured scripts dir or the default next to
// the config file.
func (c *Config) ScriptsPath() string {
	if c.ScriptsDir != "" {
		return c.ScriptsDir
	}
	return filepath.Join(filepath.Dir(ConfigPath()), "scripts")
}
