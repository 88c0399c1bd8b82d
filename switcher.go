// ABOUTME: Invocation of the external theme-switcher tool.
// ABOUTME: Wraps exec with a timeout so an in-flight toggle can never wedge the daemon.

package main

import (
	"context"
	"os/exec"
	"time"
)

const defaultToggleTimeout = 30 * time.Second

// runToolCommand is the function used to run the switcher tool.
// Replaceable for testing.
var runToolCommand = runToolCommandDefault

// runToolCommandDefault executes `tool <mode>` and waits for it to exit.
// The context deadline kills a hung tool.
func runToolCommandDefault(ctx context.Context, tool, mode string) error {
	cmd := exec.CommandContext(ctx, tool, mode)
	return cmd.Run()
}
