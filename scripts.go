// ABOUTME: User hook scripts run on every mode change.
// ABOUTME: Each executable in the scripts dir gets the mode word as its argument.

package main

import (
	"log"
	"os"
	"os/exec"
	"path/filepath"
)

// RunScripts executes every file in dir with the mode as argv[1].
// Failures are logged and ignored; a broken hook must not block a
// mode change.
func RunScripts(dir string, m Mode) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("read scripts dir: %v", err)
		}
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		script := filepath.Join(dir, entry.Name())
		if err := exec.Command(script, string(m)).Run(); err != nil {
			log.Printf("script %s: %v", entry.Name(), err)
		}
	}
}
