// ABOUTME: Tests for configuration file loading and saving.
// ABOUTME: Covers config persistence and derived defaults.

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := &Config{
		Tool:                "gloam",
		StatusFile:          "/run/user/1000/plasma-daynight-mode",
		Detection:           "kde",
		PollIntervalSeconds: 2,
		Listen:              ":9350",
		Secret:              "my-secret-key",
		Follow:              "ws://desk:9350/ws",
		Gloam: GloamConfig{
			Dark:  ModeTheme{LookAndFeel: "org.kde.breezedark.desktop", Wallpaper: "/usr/share/wallpapers/Next/night.png"},
			Light: ModeTheme{LookAndFeel: "org.kde.breeze.desktop"},
		},
	}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Tool != cfg.Tool {
		t.Errorf("Tool mismatch: got %q, want %q", loaded.Tool, cfg.Tool)
	}
	if loaded.Detection != cfg.Detection {
		t.Errorf("Detection mismatch: got %q, want %q", loaded.Detection, cfg.Detection)
	}
	if loaded.Secret != cfg.Secret {
		t.Errorf("Secret mismatch: got %q, want %q", loaded.Secret, cfg.Secret)
	}
	if loaded.Gloam.Dark.LookAndFeel != cfg.Gloam.Dark.LookAndFeel {
		t.Errorf("Dark look-and-feel mismatch: got %q", loaded.Gloam.Dark.LookAndFeel)
	}
	if loaded.Gloam.Light.LookAndFeel != cfg.Gloam.Light.LookAndFeel {
		t.Errorf("Light look-and-feel mismatch: got %q", loaded.Gloam.Light.LookAndFeel)
	}
}

func TestConfigLoadNonexistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.json")

	_, err := LoadConfig(path)
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
	if !os.IsNotExist(err) {
		t.Errorf("expected os.IsNotExist error, got %v", err)
	}
}

func TestConfigSaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config.json")

	cfg := &Config{Tool: "gloam"}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}

	if cfg.EffectiveTool() != "gloam" {
		t.Errorf("EffectiveTool: got %q, want gloam", cfg.EffectiveTool())
	}
	if cfg.PollInterval() != time.Second {
		t.Errorf("PollInterval: got %v, want 1s", cfg.PollInterval())
	}
	if cfg.ToggleTimeout() != defaultToggleTimeout {
		t.Errorf("ToggleTimeout: got %v, want %v", cfg.ToggleTimeout(), defaultToggleTimeout)
	}
	if filepath.Base(cfg.EffectiveStatusFile()) != "plasma-daynight-mode" {
		t.Errorf("EffectiveStatusFile: got %q", cfg.EffectiveStatusFile())
	}

	cfg.Tool = "darkman"
	cfg.PollIntervalSeconds = 5
	cfg.ToggleTimeoutSeconds = 10
	cfg.StatusFile = "/tmp/mode"

	if cfg.EffectiveTool() != "darkman" {
		t.Errorf("EffectiveTool override: got %q", cfg.EffectiveTool())
	}
	if cfg.PollInterval() != 5*time.Second {
		t.Errorf("PollInterval override: got %v", cfg.PollInterval())
	}
	if cfg.ToggleTimeout() != 10*time.Second {
		t.Errorf("ToggleTimeout override: got %v", cfg.ToggleTimeout())
	}
	if cfg.EffectiveStatusFile() != "/tmp/mode" {
		t.Errorf("EffectiveStatusFile override: got %q", cfg.EffectiveStatusFile())
	}
}

func TestConfigPath(t *testing.T) {
	path := ConfigPath()
	if path == "" {
		t.Error("ConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.json" {
		t.Errorf("expected config.json, got %s", filepath.Base(path))
	}
}
