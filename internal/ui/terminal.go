package ui

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ShouldUseColor reports whether stdout should get ANSI colors, honoring
// NO_COLOR, CLICOLOR_FORCE, CLICOLOR, and whether stdout is a TTY.
func ShouldUseColor() bool {
	// Any non-empty NO_COLOR disables color (https://no-color.org).
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1" {
		// Forced on even without a TTY.
		return true
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR")) == "0" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
