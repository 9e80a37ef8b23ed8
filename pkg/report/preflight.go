package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/textyre/bootstrap/pkg/preflight"
	"github.com/textyre/bootstrap/pkg/style"
	"github.com/textyre/bootstrap/pkg/ui"
)

// Doctor wraps a preflight report for rendering
type Doctor struct {
	preflight.Report `yaml:",inline"`
	OK               bool   `json:"ok" yaml:"ok"`
	InstallHint      string `json:"install_hint,omitempty" yaml:"install_hint,omitempty"`
}

// FromPreflight reports a binary check
func FromPreflight(r preflight.Report) Doctor {
	return Doctor{Report: r, OK: r.OK(), InstallHint: r.InstallHint()}
}

func (d Doctor) text() string {
	var lines []string
	for _, b := range d.Binaries {
		if b.Found {
			lines = append(lines, fmt.Sprintf("ok       %s (%s)", b.Name, b.Path))
		} else {
			lines = append(lines, fmt.Sprintf("missing  %s (package %s)", b.Name, b.Package))
		}
	}
	lines = append(lines, d.footer())
	return strings.Join(lines, "\n")
}

func (d Doctor) footer() string {
	if d.OK {
		return "Required binaries present"
	}
	return "Suggested install (Arch): " + d.InstallHint
}

func (d Doctor) term() string {
	lines := make([]style.Line, 0, len(d.Binaries))
	for _, b := range d.Binaries {
		l := style.Line{Label: "binary", Name: b.Name, Status: style.StatusSuccess, Message: b.Path}
		if !b.Found {
			l.Status = style.StatusError
			l.Message = "missing, provided by " + b.Package
		}
		lines = append(lines, l)
	}

	footer := style.SuccessStyle.Render(d.footer())
	if !d.OK {
		footer = style.WarningStyle.Render("Suggested install (Arch): ") + style.CodeStyle.Render(d.InstallHint)
	}
	return style.RenderLines("Preflight:", lines) + "\n\n" + footer
}

func (d Doctor) markdown() string {
	var b strings.Builder
	b.WriteString("# Preflight\n\n")
	for _, bin := range d.Binaries {
		if bin.Found {
			fmt.Fprintf(&b, "- [x] `%s`\n", bin.Name)
		} else {
			fmt.Fprintf(&b, "- [ ] `%s` (package `%s`)\n", bin.Name, bin.Package)
		}
	}
	if !d.OK {
		fmt.Fprintf(&b, "\n```sh\n%s\n```\n", d.InstallHint)
	}
	return b.String()
}

// RenderDoctor writes a preflight report
func RenderDoctor(w io.Writer, format ui.Format, d Doctor) error {
	return render(w, format, d)
}
