// ABOUTME: Windows OS-level mode detection.
// ABOUTME: Reads the AppsUseLightTheme personalization registry value.

//go:build windows

package main

import (
	"golang.org/x/sys/windows/registry"
)

const personalizeKey = `Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`

type registryDetector struct{}

func osDetector() Detector { return &registryDetector{} }

func (d *registryDetector) Name() string { return "registry" }
func (d *registryDetector) Priority() int { return 10 }
func (d *registryDetector) Available() bool { return true }

func (d *registryDetector) Detect() (Mode, bool) {
	k, err := registry.OpenKey(registry.CURRENT_USER, personalizeKey, registry.QUERY_VALUE)
	if err != nil {
		return "", false
	}
	defer k.Close()

	light, _, err := k.GetIntegerValue("AppsUseLightTheme")
	if err != nil {
		return "", false
	}
	if light == 0 {
		return ModeDark, true
	}
	return ModeLight, true
}
