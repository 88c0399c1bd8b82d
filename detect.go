// ABOUTME: Mode detection from external ground truth.
// ABOUTME: Status-file reads, KDE kdeglobals key comparison, and a per-OS fallback chain.

package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const statusFileName = "plasma-daynight-mode"

// DefaultStatusFile returns the runtime status file path written by the
// switcher tool and polled by the daemon.
func DefaultStatusFile() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, statusFileName)
}

// Detector reads the current mode from one source of ground truth.
type Detector interface {
	// Name identifies the detector in logs.
	Name() string

	// Priority orders detectors; higher is consulted first.
	Priority() int

	// Available reports whether this detector can run on this system.
	Available() bool

	// Detect returns the current mode. ok is false when the source is
	// unreadable or holds something that is not a mode.
	Detect() (mode Mode, ok bool)
}

// StatusFileDetector reads the trimmed contents of the status file.
// Missing files and garbage contents are expected and yield no result.
type StatusFileDetector struct {
	Path string
}

func (d *StatusFileDetector) Name() string { return "statusfile" }
func (d *StatusFileDetector) Priority() int { return 80 }
func (d *StatusFileDetector) Available() bool { return true }

func (d *StatusFileDetector) Detect() (Mode, bool) {
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return "", false
	}
	return ParseMode(strings.TrimSpace(string(data)))
}

// readConfigKey is the function used to read a kdeglobals key.
// Replaceable for testing.
var readConfigKey = readConfigKeyDefault

func readConfigKeyDefault(key string) (string, error) {
	out, err := exec.Command("kreadconfig6", "--file", "kdeglobals", "--group", "KDE", "--key", key).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// lookAndFeelProbe carries both halves of the kdeglobals comparison so
// the two reads stay explicitly ordered and typed.
type lookAndFeelProbe struct {
	Package     string
	DarkDefault string
}

func (p lookAndFeelProbe) Mode() Mode {
	if p.Package == p.DarkDefault {
		return ModeDark
	}
	return ModeLight
}

// KDEConfigDetector compares the active look-and-feel package against
// the configured dark default: equal means dark mode.
type KDEConfigDetector struct{}

func (d *KDEConfigDetector) Name() string { return "kdeglobals" }
func (d *KDEConfigDetector) Priority() int { return 100 }

func (d *KDEConfigDetector) Available() bool {
	_, err := exec.LookPath("kreadconfig6")
	return err == nil
}

func (d *KDEConfigDetector) Detect() (Mode, bool) {
	probe, err := d.probe()
	if err != nil {
		return "", false
	}
	return probe.Mode(), true
}

func (d *KDEConfigDetector) probe() (lookAndFeelProbe, error) {
	var p lookAndFeelProbe
	var err error
	if p.Package, err = readConfigKey("LookAndFeelPackage"); err != nil {
		return p, err
	}
	if p.DarkDefault, err = readConfigKey("DefaultDarkLookAndFeel"); err != nil {
		return p, err
	}
	return p, nil
}

// DetectorChain consults registered detectors in priority order and
// returns the first result.
type DetectorChain struct {
	mu        sync.Mutex
	detectors []Detector
}

// Register adds a detector to the chain.
func (c *DetectorChain) Register(d Detector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detectors = append(c.detectors, d)
	sort.SliceStable(c.detectors, func(i, j int) bool {
		return c.detectors[i].Priority() > c.detectors[j].Priority()
	})
}

// Detect returns the first available detector's result, or ok=false if
// every source came up empty.
func (c *DetectorChain) Detect() (Mode, bool) {
	c.mu.Lock()
	detectors := make([]Detector, len(c.detectors))
	copy(detectors, c.detectors)
	c.mu.Unlock()

	for _, d := range detectors {
		if !d.Available() {
			continue
		}
		if mode, ok := d.Detect(); ok {
			return mode, true
		}
	}
	return "", false
}

// NewDetectorChain builds the chain for the configured variant.
// "statusfile" and "kde" pin a single source; "auto" stacks everything
// and lets priority plus availability decide, with the OS detector as
// the last resort.
func NewDetectorChain(variant, statusFile string) *DetectorChain {
	chain := &DetectorChain{}
	switch variant {
	case "statusfile":
		chain.Register(&StatusFileDetector{Path: statusFile})
	case "kde":
		chain.Register(&KDEConfigDetector{})
	default:
		chain.Register(&KDEConfigDetector{})
		chain.Register(&StatusFileDetector{Path: statusFile})
		chain.Register(osDetector())
	}
	return chain
}
