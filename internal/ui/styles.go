package ui

import (
	"fmt"

	"github.com/ozgurkzlkaya/fixlog/internal/model"
)

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent = 74  // blue
	colorCmd    = 250 // light gray
	colorMuted  = 245 // medium gray
	colorOK     = 114 // green
	colorWarn   = 215 // orange
	colorBad    = 203 // red
)

var noColor bool

func render(color int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", color, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	return render(colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	return render(colorMuted, s)
}

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string {
	return render(colorCmd, s)
}

// RenderIssueStatus colors an issue status by workflow stage: open and
// blocked states warm, terminal states green.
func RenderIssueStatus(s model.IssueStatus) string {
	switch s {
	case model.IssueOpen:
		return render(colorBad, string(s))
	case model.IssueInRepair, model.IssueWaitingParts:
		return render(colorWarn, string(s))
	case model.IssueResolved, model.IssueClosed:
		return render(colorOK, string(s))
	}
	return string(s)
}

// RenderShipmentStatus colors a shipment status by transit stage.
func RenderShipmentStatus(s model.ShipmentStatus) string {
	switch s {
	case model.ShipmentPreparing:
		return render(colorMuted, string(s))
	case model.ShipmentShipped:
		return render(colorWarn, string(s))
	case model.ShipmentDelivered:
		return render(colorOK, string(s))
	case model.ShipmentLost:
		return render(colorBad, string(s))
	}
	return string(s)
}

// RenderPriority renders a numeric priority, highlighting urgent ones.
func RenderPriority(p int) string {
	s := fmt.Sprintf("P%d", p)
	if p >= 3 {
		return render(colorBad, s)
	}
	if p == 2 {
		return render(colorWarn, s)
	}
	return render(colorMuted, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
