// ABOUTME: System tray surface: sun/moon icon, tooltip, and toggle menu.
// ABOUTME: The icon and tooltip are recomputed from the mode on every change.

package main

import (
	"context"
	"log"

	"fyne.io/systray"
)

// Tray owns the tray icon for one daemon instance.
type Tray struct {
	toggle *ModeToggle
	onQuit func()

	mMode   *systray.MenuItem
	mToggle *systray.MenuItem
}

// NewTray creates the tray surface. onQuit is called when the user picks
// Quit, before systray shuts down.
func NewTray(toggle *ModeToggle, onQuit func()) *Tray {
	return &Tray{toggle: toggle, onQuit: onQuit}
}

// Run starts the tray event loop. Blocks until Quit.
func (t *Tray) Run(ctx context.Context) {
	systray.Run(func() { t.onReady(ctx) }, nil)
}

func (t *Tray) onReady(ctx context.Context) {
	t.mMode = systray.AddMenuItem("", "Current mode")
	t.mMode.Disable()
	systray.AddSeparator()
	t.mToggle = systray.AddMenuItem("Toggle", "Switch between dark and light mode")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit daynight")

	t.Refresh(t.toggle.Mode())

	// Handle menu clicks in background
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.mToggle.ClickedCh:
				// Dropped, not queued, while a toggle is in flight.
				if !t.toggle.Toggle(ctx) {
					log.Printf("Toggle already in flight, click ignored")
				}
			case <-mQuit.ClickedCh:
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()
}

// Refresh redraws the icon, tooltip, and menu labels for the mode.
func (t *Tray) Refresh(m Mode) {
	icon, err := ModeIcon(m)
	if err != nil {
		log.Printf("render tray icon: %v", err)
	} else {
		systray.SetIcon(icon)
	}
	systray.SetTooltip(m.Tooltip())

	if t.mMode != nil {
		t.mMode.SetTitle(m.Tooltip())
	}
	if t.mToggle != nil {
		t.mToggle.SetTitle("Switch to " + m.Toggle().Tooltip())
	}
}
