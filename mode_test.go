// ABOUTME: Tests for the mode state machine and toggle guard.
// ABOUTME: Covers detection handling, re-entrant toggle drops, and icon mapping.

package main

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		mode  Mode
		ok    bool
	}{
		{"dark", ModeDark, true},
		{"light", ModeLight, true},
		{"", "", false},
		{"Dark", "", false},
		{"darkish", "", false},
		{"auto", "", false},
	}

	for _, tt := range tests {
		mode, ok := ParseMode(tt.input)
		if ok != tt.ok || mode != tt.mode {
			t.Errorf("ParseMode(%q) = (%q, %v), want (%q, %v)", tt.input, mode, ok, tt.mode, tt.ok)
		}
	}
}

func TestModePureFunctions(t *testing.T) {
	if ModeDark.IconName() != "weather-clear-night" {
		t.Errorf("dark icon: got %q", ModeDark.IconName())
	}
	if ModeLight.IconName() != "weather-clear" {
		t.Errorf("light icon: got %q", ModeLight.IconName())
	}
	if ModeDark.Tooltip() != "Dark Mode" {
		t.Errorf("dark tooltip: got %q", ModeDark.Tooltip())
	}
	if ModeLight.Tooltip() != "Light Mode" {
		t.Errorf("light tooltip: got %q", ModeLight.Tooltip())
	}
	if ModeDark.Toggle() != ModeLight || ModeLight.Toggle() != ModeDark {
		t.Error("Toggle should invert the mode")
	}
}

func TestSetDetected(t *testing.T) {
	toggle := NewModeToggle("gloam", time.Second)

	// Initial state is light.
	if toggle.Mode() != ModeLight {
		t.Fatalf("initial mode: got %q, want light", toggle.Mode())
	}

	var changes []Mode
	toggle.OnChange = func(m Mode) { changes = append(changes, m) }

	// Detecting "dark" flips the state and fires the callback.
	toggle.SetDetected(ParseMode("dark"))
	if toggle.Mode() != ModeDark {
		t.Errorf("after dark detection: got %q", toggle.Mode())
	}
	if toggle.Mode().IconName() != "weather-clear-night" {
		t.Errorf("icon after dark detection: got %q", toggle.Mode().IconName())
	}
	if toggle.Mode().Tooltip() != "Dark Mode" {
		t.Errorf("tooltip after dark detection: got %q", toggle.Mode().Tooltip())
	}

	// Garbage detection results leave the state unchanged.
	toggle.SetDetected(ParseMode("something-else"))
	toggle.SetDetected(ParseMode(""))
	if toggle.Mode() != ModeDark {
		t.Errorf("after garbage detection: got %q", toggle.Mode())
	}

	// Re-detecting the same mode does not fire the callback again.
	toggle.SetDetected(ParseMode("dark"))
	if len(changes) != 1 || changes[0] != ModeDark {
		t.Errorf("changes: got %v, want [dark]", changes)
	}

	toggle.SetDetected(ParseMode("light"))
	if toggle.Mode() != ModeLight {
		t.Errorf("after light detection: got %q", toggle.Mode())
	}
	if len(changes) != 2 || changes[1] != ModeLight {
		t.Errorf("changes: got %v", changes)
	}
}

func TestToggleDropsWhileRunning(t *testing.T) {
	block := make(chan struct{})
	var invocations []string
	runToolCommand = func(ctx context.Context, tool, mode string) error {
		invocations = append(invocations, tool+" "+mode)
		<-block
		return nil
	}
	defer func() { runToolCommand = runToolCommandDefault }()

	toggle := NewModeToggle("gloam", time.Second)

	redetected := make(chan struct{}, 1)
	toggle.SetRedetect(func() { redetected <- struct{}{} })

	if !toggle.Toggle(context.Background()) {
		t.Fatal("first toggle should start")
	}

	// Clicking again while running is dropped, not queued.
	if toggle.Toggle(context.Background()) {
		t.Error("second toggle should be a no-op")
	}
	if !toggle.IsRunning() {
		t.Error("toggle should still be in flight")
	}

	close(block)

	select {
	case <-redetected:
	case <-time.After(2 * time.Second):
		t.Fatal("redetect not called after toggle completed")
	}

	if toggle.IsRunning() {
		t.Error("running should be cleared after completion")
	}
	if len(invocations) != 1 {
		t.Fatalf("invocations: got %v, want one", invocations)
	}
	// State starts light, so the first toggle asks for dark.
	if invocations[0] != "gloam dark" {
		t.Errorf("invocation: got %q, want %q", invocations[0], "gloam dark")
	}
}

func TestToggleClearsRunningOnFailure(t *testing.T) {
	runToolCommand = func(ctx context.Context, tool, mode string) error {
		return errors.New("exit status 1")
	}
	defer func() { runToolCommand = runToolCommandDefault }()

	toggle := NewModeToggle("gloam", time.Second)

	redetected := make(chan struct{}, 1)
	toggle.SetRedetect(func() { redetected <- struct{}{} })

	if !toggle.Toggle(context.Background()) {
		t.Fatal("toggle should start")
	}

	select {
	case <-redetected:
	case <-time.After(2 * time.Second):
		t.Fatal("redetect not called after failed toggle")
	}

	if toggle.IsRunning() {
		t.Error("running must be cleared even when the tool fails")
	}
	// A failed toggle doesn't move the mode; detection owns the state.
	if toggle.Mode() != ModeLight {
		t.Errorf("mode after failed toggle: got %q, want light", toggle.Mode())
	}
}

func TestToggleInvokesInverseMode(t *testing.T) {
	modes := make(chan string, 1)
	runToolCommand = func(ctx context.Context, tool, mode string) error {
		modes <- mode
		return nil
	}
	defer func() { runToolCommand = runToolCommandDefault }()

	toggle := NewModeToggle("gloam", time.Second)
	toggle.SetDetected(ModeDark, true)

	if !toggle.Toggle(context.Background()) {
		t.Fatal("toggle should start")
	}

	select {
	case mode := <-modes:
		if mode != "light" {
			t.Errorf("toggle from dark: invoked %q, want light", mode)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tool never invoked")
	}
}

func TestApplyTargetMode(t *testing.T) {
	modes := make(chan string, 1)
	runToolCommand = func(ctx context.Context, tool, mode string) error {
		modes <- mode
		return nil
	}
	defer func() { runToolCommand = runToolCommandDefault }()

	toggle := NewModeToggle("gloam", time.Second)

	if !toggle.Apply(context.Background(), ModeDark) {
		t.Fatal("apply should start")
	}

	select {
	case mode := <-modes:
		if mode != "dark" {
			t.Errorf("apply dark: invoked %q", mode)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tool never invoked")
	}
}
