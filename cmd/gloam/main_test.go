// ABOUTME: Tests for the gloam switcher CLI.
// ABOUTME: Covers status file handling and theme command invocation.

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteStatusFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plasma-daynight-mode")

	if err := writeStatusFile(path, "dark"); err != nil {
		t.Fatalf("writeStatusFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read status file: %v", err)
	}
	if string(data) != "dark\n" {
		t.Errorf("status file contents: got %q, want %q", data, "dark\n")
	}

	// No temp file left behind.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file not cleaned up")
	}

	// Overwriting flips the recorded mode.
	if err := writeStatusFile(path, "light"); err != nil {
		t.Fatalf("writeStatusFile failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "light\n" {
		t.Errorf("status file contents after rewrite: got %q", data)
	}
}

func TestCurrentModeFromStatusFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plasma-daynight-mode")

	if err := os.WriteFile(path, []byte("dark\n"), 0644); err != nil {
		t.Fatalf("write status file: %v", err)
	}
	if got := currentMode(path); got != "dark" {
		t.Errorf("currentMode: got %q, want dark", got)
	}

	if err := os.WriteFile(path, []byte(" light \n"), 0644); err != nil {
		t.Fatalf("write status file: %v", err)
	}
	if got := currentMode(path); got != "light" {
		t.Errorf("currentMode: got %q, want light", got)
	}
}

func TestApplyRunsThemeCommands(t *testing.T) {
	type call struct {
		name string
		args []string
	}
	var calls []call
	orig := runCommand
	runCommand = func(name string, args ...string) error {
		calls = append(calls, call{name, args})
		return nil
	}
	defer func() { runCommand = orig }()

	statusFile := filepath.Join(t.TempDir(), "plasma-daynight-mode")
	cfg := &Config{}
	cfg.Gloam.Dark = ModeTheme{
		LookAndFeel: "org.kde.breezedark.desktop",
		Wallpaper:   "/usr/share/wallpapers/night.png",
		Font:        "Noto Sans,10,-1,5,50,0,0,0,0,0",
	}

	if err := apply(cfg, statusFile, "dark"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if len(calls) != 3 {
		t.Fatalf("commands run: got %d, want 3 (%v)", len(calls), calls)
	}

	// Look-and-feel applier gets the package name.
	if got := calls[0].args[len(calls[0].args)-1]; got != "org.kde.breezedark.desktop" {
		t.Errorf("look-and-feel arg: got %q", got)
	}
	if calls[1].name != "plasma-apply-wallpaperimage" {
		t.Errorf("wallpaper command: got %q", calls[1].name)
	}
	if calls[2].name != "kwriteconfig6" {
		t.Errorf("font command: got %q", calls[2].name)
	}

	data, err := os.ReadFile(statusFile)
	if err != nil {
		t.Fatalf("status file not written: %v", err)
	}
	if string(data) != "dark\n" {
		t.Errorf("status file: got %q, want %q", data, "dark\n")
	}
}

func TestApplySkipsUnconfiguredSteps(t *testing.T) {
	var calls int
	orig := runCommand
	runCommand = func(name string, args ...string) error {
		calls++
		return nil
	}
	defer func() { runCommand = orig }()

	statusFile := filepath.Join(t.TempDir(), "plasma-daynight-mode")
	cfg := &Config{}

	if err := apply(cfg, statusFile, "light"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if calls != 0 {
		t.Errorf("commands run: got %d, want 0", calls)
	}

	data, err := os.ReadFile(statusFile)
	if err != nil {
		t.Fatalf("status file not written: %v", err)
	}
	if string(data) != "light\n" {
		t.Errorf("status file: got %q", data)
	}
}
