// ABOUTME: Core dark/light mode state machine shared by the tray and sync server.
// ABOUTME: Tracks the current mode and guards toggle invocations against overlap.

package main

import (
	"context"
	"log"
	"sync"
	"time"
)

// Mode is the desktop color mode.
type Mode string

const (
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

// ParseMode maps a detection result to a Mode. Anything other than
// "dark" or "light" (empty output, garbage, read errors upstream) is
// not a mode and must leave state untouched.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeDark:
		return ModeDark, true
	case ModeLight:
		return ModeLight, true
	}
	return "", false
}

// Toggle returns the opposite mode.
func (m Mode) Toggle() Mode {
	if m == ModeDark {
		return ModeLight
	}
	return ModeDark
}

// IconName returns the freedesktop icon name for the mode.
func (m Mode) IconName() string {
	if m == ModeDark {
		return "weather-clear-night"
	}
	return "weather-clear"
}

// Tooltip returns the tray tooltip text for the mode.
func (m Mode) Tooltip() string {
	if m == ModeDark {
		return "Dark Mode"
	}
	return "Light Mode"
}

// ModeToggle tracks the current mode and serializes toggle requests.
// The mode only changes through SetDetected; Toggle never flips it
// directly, it just asks the switcher tool and waits for detection to
// confirm.
type ModeToggle struct {
	mu      sync.Mutex
	dark    bool
	running bool

	tool    string
	timeout time.Duration

	// OnChange is called (off the lock) whenever the mode flips.
	OnChange func(Mode)

	// redetect is called after every toggle completes, successful or not.
	redetect func()
}

// NewModeToggle creates a toggle that invokes the given switcher tool.
func NewModeToggle(tool string, timeout time.Duration) *ModeToggle {
	if timeout <= 0 {
		timeout = defaultToggleTimeout
	}
	return &ModeToggle{tool: tool, timeout: timeout}
}

// Mode returns the current mode.
func (t *ModeToggle) Mode() Mode {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dark {
		return ModeDark
	}
	return ModeLight
}

// IsRunning reports whether a toggle command is in flight.
func (t *ModeToggle) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// SetRedetect installs the post-toggle detection hook.
func (t *ModeToggle) SetRedetect(f func()) {
	t.mu.Lock()
	t.redetect = f
	t.mu.Unlock()
}

// SetDetected applies a detection result. Results that are not a valid
// mode are dropped so a failed read never moves the state.
func (t *ModeToggle) SetDetected(m Mode, ok bool) {
	if !ok {
		return
	}
	dark := m == ModeDark

	t.mu.Lock()
	changed := t.dark != dark
	t.dark = dark
	onChange := t.OnChange
	t.mu.Unlock()

	if changed && onChange != nil {
		onChange(m)
	}
}

// Toggle invokes the switcher tool with the inverse of the current mode.
// A toggle already in flight makes this a no-op: the request is dropped,
// not queued. Returns true if a toggle was started.
func (t *ModeToggle) Toggle(ctx context.Context) bool {
	return t.Apply(ctx, "")
}

// Apply invokes the switcher tool for the given target mode, or for the
// inverse of the current mode when target is empty. Shares the in-flight
// guard with Toggle.
func (t *ModeToggle) Apply(ctx context.Context, target Mode) bool {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return false
	}
	t.running = true
	if target == "" {
		target = ModeDark
		if t.dark {
			target = ModeLight
		}
	}
	tool := t.tool
	timeout := t.timeout
	t.mu.Unlock()

	go func() {
		cmdCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		// Exit status is advisory only: a failed switch leaves the UI
		// out of sync until the next detection cycle corrects it.
		if err := runToolCommand(cmdCtx, tool, string(target)); err != nil {
			log.Printf("switcher %s %s: %v", tool, target, err)
		}

		t.mu.Lock()
		t.running = false
		redetect := t.redetect
		t.mu.Unlock()

		if redetect != nil {
			redetect()
		}
	}()

	return true
}
