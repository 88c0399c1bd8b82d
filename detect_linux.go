// ABOUTME: Linux OS-level mode detection via the freedesktop settings portal.
// ABOUTME: Reads org.freedesktop.appearance color-scheme over the session bus.

//go:build linux

package main

import (
	"github.com/godbus/dbus/v5"
)

type portalDetector struct{}

func osDetector() Detector { return &portalDetector{} }

func (d *portalDetector) Name() string { return "portal" }
func (d *portalDetector) Priority() int { return 10 }

func (d *portalDetector) Available() bool {
	conn, err := dbus.SessionBus()
	return err == nil && conn != nil
}

// Detect asks the desktop portal for the color-scheme preference.
// 1 = prefer dark, 2 = prefer light, 0 = no preference (no result).
func (d *portalDetector) Detect() (Mode, bool) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return "", false
	}

	obj := conn.Object("org.freedesktop.portal.Desktop", "/org/freedesktop/portal/desktop")
	var out dbus.Variant
	err = obj.Call("org.freedesktop.portal.Settings.Read", 0,
		"org.freedesktop.appearance", "color-scheme").Store(&out)
	if err != nil {
		return "", false
	}

	// The portal wraps the value in a nested variant.
	value := out.Value()
	if inner, ok := value.(dbus.Variant); ok {
		value = inner.Value()
	}

	scheme, ok := value.(uint32)
	if !ok {
		return "", false
	}

	switch scheme {
	case 1:
		return ModeDark, true
	case 2:
		return ModeLight, true
	}
	return "", false
}
