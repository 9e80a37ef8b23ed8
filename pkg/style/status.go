package style

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// Status is the display class of one reported item
type Status string

const (
	StatusSuccess Status = "success" // compliant or repaired
	StatusError   Status = "error"   // still failing
	StatusQueue   Status = "queue"   // would be deployed
	StatusAlert   Status = "alert"   // nothing can fix it from here
)

// StatusStyle returns the appropriate pterm style for a status
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusSuccess:
		return pterm.NewStyle(pterm.BgGreen, pterm.FgWhite)
	case StatusError:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	case StatusQueue:
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	case StatusAlert:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// Line is one row of a status listing
type Line struct {
	Label   string
	Name    string
	Status  Status
	Message string
}

// RenderLine renders "    label : name : message" with the label styled by status
func RenderLine(l Line) string {
	label := StatusStyle(l.Status).Sprint(fmt.Sprintf("%-8s", l.Label))
	return fmt.Sprintf("    %s : %-28s : %s", label, l.Name, l.Message)
}

// RenderLines renders lines under a heading
func RenderLines(heading string, lines []Line) string {
	var b strings.Builder
	if heading != "" {
		b.WriteString(heading + "\n")
	}
	for _, l := range lines {
		b.WriteString(RenderLine(l) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Aggregate returns the worst status of lines
func Aggregate(lines []Line) Status {
	agg := StatusSuccess
	for _, l := range lines {
		switch l.Status {
		case StatusAlert:
			return StatusAlert
		case StatusError:
			agg = StatusError
		case StatusQueue:
			if agg == StatusSuccess {
				agg = StatusQueue
			}
		}
	}
	return agg
}
