package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"gopkg.in/yaml.v3"

	"github.com/textyre/bootstrap/pkg/errors"
	"github.com/textyre/bootstrap/pkg/ui"
)

// document is anything with a human rendering per format
type document interface {
	text() string
	term() string
	markdown() string
}

func (i Info) text() string     { return infoText(i) }
func (i Info) term() string     { return infoTerm(i) }
func (i Info) markdown() string { return infoMarkdown(i) }

// render writes v in format. FormatAuto must be resolved by the caller.
func render(w io.Writer, format ui.Format, v document) error {
	var out string
	switch format {
	case ui.FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode json")
		}
		out = string(data) + "\n"
	case ui.FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode yaml")
		}
		out = string(data)
	case ui.FormatMarkdown:
		out = renderMarkdown(v.markdown())
	case ui.FormatTerminal:
		out = v.term() + "\n"
	default:
		out = v.text() + "\n"
	}
	if _, err := io.WriteString(w, out); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to write output")
	}
	return nil
}

// renderMarkdown renders through glamour, returning the source on failure
func renderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// RenderInfo writes the display information report
func RenderInfo(w io.Writer, format ui.Format, info Info) error {
	return render(w, format, info)
}

// RenderCommands writes generated mode-setting commands one per line
func RenderCommands(w io.Writer, commands []string) error {
	for _, c := range commands {
		if _, err := fmt.Fprintln(w, c); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to write output")
		}
	}
	return nil
}
