// ABOUTME: Detection loop driving the ModeToggle from external ground truth.
// ABOUTME: Combines a fixed-interval poll with an fsnotify watch on the status file.

package main

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher owns the detection schedule for one daemon instance: started
// on init, stopped on teardown, never ambient.
type Watcher struct {
	chain      *DetectorChain
	toggle     *ModeToggle
	statusFile string
	interval   time.Duration
	poll       bool
}

// pollEnabled reports whether the detection variant wants periodic
// polling. The kdeglobals comparison is event-triggered only: startup
// and after each toggle.
func pollEnabled(variant string) bool {
	return variant != "kde"
}

// NewWatcher creates a watcher that feeds detection results into toggle.
// With poll false the watcher detects once on startup and then only
// when Detect is called explicitly.
func NewWatcher(chain *DetectorChain, toggle *ModeToggle, statusFile string, interval time.Duration, poll bool) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Watcher{
		chain:      chain,
		toggle:     toggle,
		statusFile: statusFile,
		interval:   interval,
		poll:       poll,
	}
}

// Detect runs one detection pass immediately.
func (w *Watcher) Detect() {
	w.toggle.SetDetected(w.chain.Detect())
}

// Run polls on the configured interval and additionally reacts to
// status-file writes until the context is cancelled. Blocks. An
// event-triggered watcher skips the ticker and the file watch entirely.
func (w *Watcher) Run(ctx context.Context) {
	w.Detect()

	if !w.poll {
		<-ctx.Done()
		return
	}

	events := w.watchStatusFile(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Detect()
		case _, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			w.Detect()
		}
	}
}

// watchStatusFile watches the status file's directory and emits an event
// for every write or create of the file itself. The watch is best
// effort: if the runtime dir can't be watched the poll still covers us.
func (w *Watcher) watchStatusFile(ctx context.Context) <-chan struct{} {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("status file watch unavailable: %v", err)
		return nil
	}

	dir := filepath.Dir(w.statusFile)
	if err := watcher.Add(dir); err != nil {
		log.Printf("watch %s: %v", dir, err)
		watcher.Close()
		return nil
	}

	events := make(chan struct{}, 1)
	go func() {
		defer watcher.Close()
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != w.statusFile {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				select {
				case events <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("status file watch: %v", err)
			}
		}
	}()
	return events
}
