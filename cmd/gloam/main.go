// ABOUTME: gloam, the theme switcher CLI the daynight daemon shells out to.
// ABOUTME: Applies look-and-feel, wallpaper, and fonts per mode; supports self-update.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	version        = "0.4.2"
	statusFileName = "plasma-daynight-mode"
	releasesURL    = "https://api.github.com/repos/daynight/gloam/releases/latest"
)

// ModeTheme holds the theme settings applied for one mode.
type ModeTheme struct {
	LookAndFeel string `json:"lookAndFeel,omitempty"`
	Wallpaper   string `json:"wallpaper,omitempty"`
	Font        string `json:"font,omitempty"`
}

// Config mirrors the gloam section of the shared daynight config file.
type Config struct {
	StatusFile string `json:"statusFile,omitempty"`
	Gloam      struct {
		Dark  ModeTheme `json:"dark,omitempty"`
		Light ModeTheme `json:"light,omitempty"`
	} `json:"gloam,omitempty"`
}

// runCommand executes an external tool. Replaceable for testing.
var runCommand = func(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func configPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}
	return filepath.Join(configDir, "daynight", "config.json")
}

func loadConfig(path string) (*Config, error) {
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

func statusFilePath(cfg *Config) string {
	if cfg.StatusFile != "" {
		return cfg.StatusFile
	}
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, statusFileName)
}

// currentMode reads the status file, falling back to the kdeglobals
// look-and-feel comparison. Defaults to light when nothing answers.
func currentMode(statusFile string) string {
	if data, err := os.ReadFile(statusFile); err == nil {
		switch mode := strings.TrimSpace(string(data)); mode {
		case "dark", "light":
			return mode
		}
	}

	pkg, err1 := readKDEKey("LookAndFeelPackage")
	dark, err2 := readKDEKey("DefaultDarkLookAndFeel")
	if err1 == nil && err2 == nil && pkg == dark {
		return "dark"
	}
	return "light"
}

func readKDEKey(key string) (string, error) {
	out, err := exec.Command("kreadconfig6", "--file", "kdeglobals", "--group", "KDE", "--key", key).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// apply switches the desktop to the given mode and records it in the
// status file. Individual theme steps are best effort: a missing
// wallpaper tool shouldn't abort the look-and-feel switch.
func apply(cfg *Config, statusFile, mode string) error {
	theme := cfg.Gloam.Light
	if mode == "dark" {
		theme = cfg.Gloam.Dark
	}

	if theme.LookAndFeel != "" {
		if err := applyLookAndFeel(theme.LookAndFeel); err != nil {
			log.Printf("look-and-feel %s: %v", theme.LookAndFeel, err)
		}
	}
	if theme.Wallpaper != "" {
		if err := runCommand("plasma-apply-wallpaperimage", theme.Wallpaper); err != nil {
			log.Printf("wallpaper %s: %v", theme.Wallpaper, err)
		}
	}
	if theme.Font != "" {
		if err := runCommand("kwriteconfig6", "--file", "kdeglobals", "--group", "General", "--key", "font", theme.Font); err != nil {
			log.Printf("font %s: %v", theme.Font, err)
		}
	}

	return writeStatusFile(statusFile, mode)
}

// applyLookAndFeel prefers the Plasma 6 applier, falling back to the
// older lookandfeeltool.
func applyLookAndFeel(pkg string) error {
	if _, err := exec.LookPath("plasma-apply-lookandfeel"); err == nil {
		return runCommand("plasma-apply-lookandfeel", "-a", pkg)
	}
	return runCommand("lookandfeeltool", "-a", pkg)
}

// writeStatusFile atomically replaces the status file so pollers never
// observe a partial write.
func writeStatusFile(path, mode string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(mode+"\n"), 0644); err != nil {
		return fmt.Errorf("write status file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace status file: %w", err)
	}
	return nil
}

// selfUpdate downloads the latest release binary for this platform and
// replaces the running executable.
func selfUpdate() error {
	client := &http.Client{Timeout: 30 * time.Second}

	resp, err := client.Get(releasesURL)
	if err != nil {
		return fmt.Errorf("query releases: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("query releases: HTTP %d", resp.StatusCode)
	}

	var release struct {
		TagName string `json:"tag_name"`
		Assets  []struct {
			Name string `json:"name"`
			URL  string `json:"browser_download_url"`
		} `json:"assets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return fmt.Errorf("decode release: %w", err)
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	if latest == version {
		log.Printf("Already up to date (%s)", version)
		return nil
	}

	want := fmt.Sprintf("gloam-%s-%s", runtime.GOOS, runtime.GOARCH)
	var assetURL string
	for _, asset := range release.Assets {
		if strings.HasPrefix(asset.Name, want) {
			assetURL = asset.URL
			break
		}
	}
	if assetURL == "" {
		return fmt.Errorf("no release asset for %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	download, err := client.Get(assetURL)
	if err != nil {
		return fmt.Errorf("download %s: %w", assetURL, err)
	}
	defer download.Body.Close()
	if download.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: HTTP %d", assetURL, download.StatusCode)
	}

	tmp := execPath + ".update"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return fmt.Errorf("create update file: %w", err)
	}
	if _, err := io.Copy(f, download.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write update: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close update: %w", err)
	}

	if err := os.Rename(tmp, execPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("install update: %w", err)
	}

	log.Printf("Updated %s -> %s", version, latest)
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `gloam %s - desktop theme switcher

Usage:
  gloam dark      apply the dark theme and record dark mode
  gloam light     apply the light theme and record light mode
  gloam toggle    switch to the opposite mode
  gloam status    print the current mode
  gloam update    self-update from the latest release
`, version)
	os.Exit(2)
}

func main() {
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	if flag.NArg() != 1 {
		usage()
	}

	cfg, err := loadConfig(configPath())
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: failed to load config: %v", err)
		}
		cfg = &Config{}
	}
	statusFile := statusFilePath(cfg)

	switch flag.Arg(0) {
	case "dark", "light":
		if err := apply(cfg, statusFile, flag.Arg(0)); err != nil {
			log.Fatalf("Apply %s failed: %v", flag.Arg(0), err)
		}
	case "toggle":
		mode := "dark"
		if currentMode(statusFile) == "dark" {
			mode = "light"
		}
		if err := apply(cfg, statusFile, mode); err != nil {
			log.Fatalf("Apply %s failed: %v", mode, err)
		}
	case "status":
		fmt.Println(currentMode(statusFile))
	case "update":
		if err := selfUpdate(); err != nil {
			log.Fatalf("Update failed: %v", err)
		}
	default:
		usage()
	}
}
