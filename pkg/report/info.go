package report

import (
	"fmt"
	"strings"

	"github.com/textyre/bootstrap/pkg/display"
	"github.com/textyre/bootstrap/pkg/style"
)

// MaxListedModes caps the available modes shown per monitor
const MaxListedModes = 5

// MonitorInfo is the reported view of one connected monitor
type MonitorInfo struct {
	Name      string              `json:"name" yaml:"name"`
	Primary   bool                `json:"primary" yaml:"primary"`
	Current   *display.Resolution `json:"current,omitempty" yaml:"current,omitempty"`
	Best      *display.Resolution `json:"best,omitempty" yaml:"best,omitempty"`
	Available []string            `json:"available,omitempty" yaml:"available,omitempty"`
}

// Info summarises the connected monitors
type Info struct {
	Connected int           `json:"connected" yaml:"connected"`
	Monitors  []MonitorInfo `json:"monitors" yaml:"monitors"`
}

// Selector picks the best resolution for a monitor. *display.Detector
// satisfies it.
type Selector interface {
	SelectBest(m display.Monitor) (display.Resolution, bool)
}

// BuildInfo summarises the connected monitors among monitors
func BuildInfo(monitors []display.Monitor, selector Selector) Info {
	connected := display.Connected(monitors)
	info := Info{Connected: len(connected), Monitors: make([]MonitorInfo, 0, len(connected))}

	for _, m := range connected {
		mi := MonitorInfo{Name: m.Name, Primary: m.Primary, Current: m.Current}
		if best, ok := selector.SelectBest(m); ok {
			mi.Best = &best
		}
		for i, r := range m.Available {
			if i == MaxListedModes {
				break
			}
			mi.Available = append(mi.Available, r.Size())
		}
		info.Monitors = append(info.Monitors, mi)
	}
	return info
}

// NoMonitorsMessage is the report when nothing is connected
const NoMonitorsMessage = "No connected monitors detected"

func infoText(info Info) string {
	if info.Connected == 0 {
		return NoMonitorsMessage
	}

	lines := []string{fmt.Sprintf("Connected monitors: %d", info.Connected)}
	for _, m := range info.Monitors {
		lines = append(lines, fmt.Sprintf("\n  %s:", m.Name))
		if m.Primary {
			lines = append(lines, "    [PRIMARY]")
		}
		if m.Current != nil {
			lines = append(lines, fmt.Sprintf("    Current: %s", m.Current))
		}
		if m.Best != nil {
			lines = append(lines, fmt.Sprintf("    Best: %s", m.Best))
		}
		if len(m.Available) > 0 {
			lines = append(lines, fmt.Sprintf("    Available: %s", strings.Join(m.Available, ", ")))
		}
	}
	return strings.Join(lines, "\n")
}

func infoTerm(info Info) string {
	if info.Connected == 0 {
		return style.WarningStyle.Render(NoMonitorsMessage)
	}

	var b strings.Builder
	b.WriteString(style.TitleStyle.Render(fmt.Sprintf("Connected monitors: %d", info.Connected)))
	b.WriteString("\n")
	for _, m := range info.Monitors {
		var body []string
		header := style.SubtitleStyle.Render(m.Name)
		if m.Primary {
			header += " " + style.PrimaryMonitorStyle.Render("[PRIMARY]")
		}
		body = append(body, header)
		if m.Current != nil {
			body = append(body, style.MutedStyle.Render("Current:   ")+style.ModeStyle.Render(m.Current.String()))
		}
		if m.Best != nil {
			body = append(body, style.MutedStyle.Render("Best:      ")+style.SuccessStyle.Render(m.Best.String()))
		}
		if len(m.Available) > 0 {
			body = append(body, style.MutedStyle.Render("Available: ")+style.NormalStyle.Render(strings.Join(m.Available, ", ")))
		}
		b.WriteString(style.BoxStyle.Render(strings.Join(body, "\n")))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func infoMarkdown(info Info) string {
	if info.Connected == 0 {
		return "# Displays\n\n" + NoMonitorsMessage + "\n"
	}

	var b strings.Builder
	b.WriteString("# Displays\n\n")
	fmt.Fprintf(&b, "Connected monitors: **%d**\n\n", info.Connected)
	b.WriteString("| Output | Primary | Current | Best | Available |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, m := range info.Monitors {
		primary := ""
		if m.Primary {
			primary = "yes"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			m.Name, primary, resolutionCell(m.Current), resolutionCell(m.Best), strings.Join(m.Available, ", "))
	}
	return b.String()
}

func resolutionCell(r *display.Resolution) string {
	if r == nil {
		return "-"
	}
	return "`" + r.String() + "`"
}
