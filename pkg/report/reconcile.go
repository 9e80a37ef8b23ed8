package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/textyre/bootstrap/pkg/reconcile"
	"github.com/textyre/bootstrap/pkg/style"
	"github.com/textyre/bootstrap/pkg/ui"
)

// FileRow is the reported view of one managed file
type FileRow struct {
	Kind     string `json:"kind" yaml:"kind"`
	Target   string `json:"target" yaml:"target"`
	Initial  string `json:"initial" yaml:"initial"`
	Final    string `json:"final" yaml:"final"`
	Outcome  string `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	Observed string `json:"observed,omitempty" yaml:"observed,omitempty"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Reconciliation is the report of a reconcile or check run
type Reconciliation struct {
	// CheckOnly is set when nothing was deployed by design
	CheckOnly bool      `json:"check_only" yaml:"check_only"`
	OK        bool      `json:"ok" yaml:"ok"`
	Files     []FileRow `json:"files" yaml:"files"`
}

// FromResult reports a reconciliation run
func FromResult(result reconcile.Result) Reconciliation {
	rep := Reconciliation{OK: result.OK, Files: make([]FileRow, 0, len(result.Files))}
	for _, f := range result.Files {
		row := FileRow{
			Kind:    f.File.Kind.String(),
			Target:  f.File.Target,
			Initial: string(f.Initial),
			Final:   string(f.Final),
			Outcome: string(f.Outcome),
		}
		if f.DeployErr != nil {
			row.Error = f.DeployErr.Error()
		}
		rep.Files = append(rep.Files, row)
	}
	return rep
}

// FromChecks reports a read-only check
func FromChecks(checks []reconcile.FileCheck) Reconciliation {
	rep := Reconciliation{CheckOnly: true, OK: true, Files: make([]FileRow, 0, len(checks))}
	for _, c := range checks {
		row := FileRow{
			Kind:    c.File.Kind.String(),
			Target:  c.File.Target,
			Initial: string(c.State),
			Final:   string(c.State),
		}
		if c.Observed != nil {
			row.Observed = c.Observed.String()
		}
		if c.State != reconcile.StateCompliant {
			rep.OK = false
		}
		rep.Files = append(rep.Files, row)
	}
	return rep
}

func (r Reconciliation) status(row FileRow) style.Status {
	switch {
	case row.Final == string(reconcile.StateCompliant):
		return style.StatusSuccess
	case row.Final == string(reconcile.StateSourceMissing):
		return style.StatusAlert
	case r.CheckOnly:
		return style.StatusQueue
	default:
		return style.StatusError
	}
}

func (r Reconciliation) message(row FileRow) string {
	msg := row.Final
	if row.Outcome != "" {
		msg = row.Outcome
		if row.Outcome == string(reconcile.OutcomeNonCompliant) {
			msg += " (" + row.Final + ")"
		}
	}
	if row.Observed != "" {
		msg += " observed " + row.Observed
	}
	if row.Error != "" {
		msg += ": " + row.Error
	}
	return msg
}

func (r Reconciliation) summary() string {
	switch {
	case r.OK:
		return "All managed files compliant"
	case r.CheckOnly:
		return "Managed files need deployment"
	default:
		return "Managed files still not compliant"
	}
}

func (r Reconciliation) text() string {
	lines := make([]string, 0, len(r.Files)+1)
	for _, row := range r.Files {
		lines = append(lines, fmt.Sprintf("%-7s %s: %s", row.Kind, row.Target, r.message(row)))
	}
	lines = append(lines, r.summary())
	return strings.Join(lines, "\n")
}

func (r Reconciliation) table() pterm.TableData {
	data := pterm.TableData{{"Kind", "Target", "State", "Result"}}
	for _, row := range r.Files {
		state := style.StatusStyle(r.status(row)).Sprint(" " + row.Final + " ")
		data = append(data, []string{row.Kind, row.Target, state, r.message(row)})
	}
	return data
}

func (r Reconciliation) term() string {
	summary := style.SuccessStyle.Render(r.summary())
	if !r.OK {
		summary = style.ErrorStyle.Render(r.summary())
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(r.table()).Srender()
	if err != nil {
		return r.text()
	}
	return strings.TrimRight(table, "\n") + "\n\n" + summary
}

func (r Reconciliation) markdown() string {
	var b strings.Builder
	b.WriteString("# Reconciliation\n\n")
	b.WriteString("| Kind | Target | State | Result |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, row := range r.Files {
		fmt.Fprintf(&b, "| %s | `%s` | %s | %s |\n", row.Kind, row.Target, row.Final, r.message(row))
	}
	b.WriteString("\n" + r.summary() + "\n")
	return b.String()
}

// RenderReconciliation writes a reconcile or check report
func RenderReconciliation(w io.Writer, format ui.Format, rep Reconciliation) error {
	return render(w, format, rep)
}
