// ABOUTME: Dark/light mode tray daemon. Polls external ground truth for the
// ABOUTME: current mode and toggles it via the configured switcher tool.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
)

func main() {
	tool := flag.String("tool", "", "Switcher command to invoke (default from config, then \"gloam\")")
	statusFile := flag.String("status-file", "", "Status file to poll (default $XDG_RUNTIME_DIR/plasma-daynight-mode)")
	detection := flag.String("detection", "", "Detection variant: statusfile, kde, or auto")
	listen := flag.String("listen", "", "Serve mode sync on this address (or DAYNIGHT_LISTEN env)")
	follow := flag.String("follow", "", "WebSocket URL of a daemon to follow (or DAYNIGHT_FOLLOW env)")
	secret := flag.String("secret", "", "Shared secret for mode sync (or DAYNIGHT_SECRET env)")
	printHistory := flag.Bool("history", false, "Print recorded mode transitions and exit")
	installAuto := flag.Bool("install-autostart", false, "Install the daemon as an autostart service and exit")
	uninstallAuto := flag.Bool("uninstall-autostart", false, "Remove the autostart service and exit")
	initConfig := flag.Bool("init", false, "Write a default config file and exit")

	flag.Parse()

	// Environment variables as fallbacks
	if *secret == "" {
		*secret = os.Getenv("DAYNIGHT_SECRET")
	}
	if *listen == "" {
		*listen = os.Getenv("DAYNIGHT_LISTEN")
	}
	if *follow == "" {
		*follow = os.Getenv("DAYNIGHT_FOLLOW")
	}

	switch {
	case *installAuto:
		if IsAutostartInstalled() {
			log.Println("Autostart already installed, reinstalling")
		}
		if err := InstallAutostart(); err != nil {
			log.Fatalf("Install autostart failed: %v", err)
		}
		log.Println("Autostart installed")
		return
	case *uninstallAuto:
		if err := UninstallAutostart(); err != nil {
			log.Fatalf("Uninstall autostart failed: %v", err)
		}
		log.Println("Autostart removed")
		return
	case *printHistory:
		history := NewModeHistory(DefaultHistoryPath())
		if err := history.Load(); err != nil {
			log.Fatalf("Load history failed: %v", err)
		}
		for _, change := range history.List() {
			fmt.Printf("%s  %-5s  %s\n", change.At.Format("2006-01-02 15:04:05"), change.Mode, change.Source)
		}
		return
	case *initConfig:
		path := ConfigPath()
		cfg := &Config{Tool: "gloam", Detection: "auto", PollIntervalSeconds: 1}
		if err := cfg.Save(path); err != nil {
			log.Fatalf("Write config failed: %v", err)
		}
		log.Printf("Config written to %s", path)
		return
	}

	cfg, err := LoadConfig(ConfigPath())
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: failed to load config: %v", err)
		}
		cfg = &Config{}
	}

	// CLI flags override config
	if *tool != "" {
		cfg.Tool = *tool
	}
	if *statusFile != "" {
		cfg.StatusFile = *statusFile
	}
	if *detection != "" {
		cfg.Detection = *detection
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *follow != "" {
		cfg.Follow = *follow
	}
	if *secret != "" {
		cfg.Secret = *secret
	}

	runDaemon(cfg)
}

func runDaemon(cfg *Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	toggle := NewModeToggle(cfg.EffectiveTool(), cfg.ToggleTimeout())

	// Seed the mode from the last recorded transition so the icon is
	// right before the first detection pass lands.
	history := NewModeHistory(DefaultHistoryPath())
	if err := history.Load(); err != nil {
		log.Printf("Warning: failed to load history: %v", err)
	}
	if last, ok := history.Last(); ok {
		toggle.SetDetected(ParseMode(string(last.Mode)))
	}

	status := cfg.EffectiveStatusFile()
	chain := NewDetectorChain(cfg.Detection, status)
	watcher := NewWatcher(chain, toggle, status, cfg.PollInterval(), pollEnabled(cfg.Detection))
	toggle.SetRedetect(watcher.Detect)

	var server *ModeServer
	if cfg.Listen != "" {
		if cfg.Secret == "" {
			log.Fatal("Serving mode sync requires -secret or DAYNIGHT_SECRET")
		}
		server = NewModeServer(cfg.Secret, toggle)
		go func() {
			log.Printf("Mode sync listening on %s", cfg.Listen)
			if err := http.ListenAndServe(cfg.Listen, server.Handler()); err != nil {
				log.Fatalf("Mode sync server failed: %v", err)
			}
		}()
	}

	if cfg.Follow != "" {
		if cfg.Secret == "" {
			log.Fatal("Following a daemon requires -secret or DAYNIGHT_SECRET")
		}
		follower := NewModeFollower(cfg.Follow, cfg.Secret, func(m Mode) {
			if toggle.Mode() == m {
				return
			}
			if !toggle.Apply(ctx, m) {
				log.Printf("Dropped remote %s switch: toggle in flight", m)
			}
		})
		follower.OnConnect = func() { log.Printf("Following %s", cfg.Follow) }
		follower.OnDisconnect = func() { log.Printf("Lost connection to %s", cfg.Follow) }
		defer follower.Close()
		go func() {
			if err := follower.Connect(); err != nil {
				log.Printf("Failed to connect to %s: %v", cfg.Follow, err)
			}
		}()
	}

	tray := NewTray(toggle, cancel)

	scripts := cfg.ScriptsPath()
	toggle.OnChange = func(m Mode) {
		log.Printf("Mode changed to %s", m)
		tray.Refresh(m)
		history.Append(m, "detection")
		go RunScripts(scripts, m)
		if server != nil {
			server.BroadcastMode()
		}
	}

	go watcher.Run(ctx)

	tray.Run(ctx)
}
