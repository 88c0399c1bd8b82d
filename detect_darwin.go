// ABOUTME: macOS OS-level mode detection.
// ABOUTME: Checks AppleInterfaceStyle to determine dark/light mode.

//go:build darwin

package main

import (
	"os/exec"
	"strings"
)

type appleDetector struct{}

func osDetector() Detector { return &appleDetector{} }

func (d *appleDetector) Name() string { return "defaults" }
func (d *appleDetector) Priority() int { return 10 }
func (d *appleDetector) Available() bool { return true }

func (d *appleDetector) Detect() (Mode, bool) {
	out, err := exec.Command("defaults", "read", "-g", "AppleInterfaceStyle").Output()
	if err != nil {
		// Property doesn't exist = light mode
		return ModeLight, true
	}
	if strings.TrimSpace(string(out)) == "Dark" {
		return ModeDark, true
	}
	return ModeLight, true
}
