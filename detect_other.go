// ABOUTME: OS-level detection stub for platforms without a known source.
// ABOUTME: Never reports a result so state only moves via the status file or KDE keys.

//go:build !linux && !darwin && !windows

package main

type nullDetector struct{}

func osDetector() Detector { return &nullDetector{} }

func (d *nullDetector) Name() string { return "none" }
func (d *nullDetector) Priority() int { return 0 }
func (d *nullDetector) Available() bool { return false }
func (d *nullDetector) Detect() (Mode, bool) { return "", false }
