// Package xinitrc maintains the generated display block inside an X init
// script. The block is delimited by MarkerStart and MarkerEnd; applying the
// same section twice leaves the file unchanged.
package xinitrc

import (
	"context"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/textyre/bootstrap/pkg/errors"
	"github.com/textyre/bootstrap/pkg/filesystem"
	"github.com/textyre/bootstrap/pkg/logging"
	"github.com/textyre/bootstrap/pkg/types"
)

const (
	MarkerStart = "# [DISPLAY_CONFIG_START]"
	MarkerEnd   = "# [DISPLAY_CONFIG_END]"

	// ScriptMode is applied after every patch
	ScriptMode fs.FileMode = 0755
)

var blockPattern = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(MarkerStart) + `.*?` + regexp.QuoteMeta(MarkerEnd))

// SectionGenerator produces the command block to inject
type SectionGenerator interface {
	Section(ctx context.Context) (string, error)
}

// Patcher injects generated display commands into one script
type Patcher struct {
	fs        types.FS
	path      string
	generator SectionGenerator
	logger    zerolog.Logger
}

// NewPatcher creates a patcher for the script at path
func NewPatcher(fsys types.FS, path string, generator SectionGenerator) *Patcher {
	return &Patcher{
		fs:        fsys,
		path:      path,
		generator: generator,
		logger:    logging.GetLogger("xinitrc"),
	}
}

// Path returns the patched script path
func (p *Patcher) Path() string {
	return p.path
}

// Apply regenerates the display block and writes it into the script,
// leaving the script executable. A missing script or an empty section is
// reported as an error and nothing is written.
func (p *Patcher) Apply(ctx context.Context) error {
	logger := p.logger.With().Str("path", p.path).Logger()

	content, err := p.fs.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Error().Msg("Init script not found")
			return errors.Wrap(err, errors.ErrFileNotFound, "init script not found").WithDetail("path", p.path)
		}
		logger.Error().Err(err).Msg("Failed to read init script")
		return errors.Wrap(err, errors.ErrFileAccess, "failed to read init script").WithDetail("path", p.path)
	}

	section, err := p.generator.Section(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate display configuration")
		return errors.Wrap(err, errors.ErrGenerate, "failed to generate display configuration").WithDetail("path", p.path)
	}
	if strings.TrimSpace(section) == "" {
		logger.Error().Msg("Generated display configuration is empty")
		return errors.New(errors.ErrGenerate, "generated display configuration is empty").WithDetail("path", p.path)
	}

	updated := Inject(string(content), section)
	if err := filesystem.WriteFileAtomic(p.fs, p.path, []byte(updated), ScriptMode); err != nil {
		logger.Error().Err(err).Msg("Failed to write init script")
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write init script").WithDetail("path", p.path)
	}

	logger.Info().Msg("Updated init script")
	return nil
}

// Inject returns content with the display block set to section. An existing
// marker pair is replaced; otherwise the block is inserted after the leading
// shebang and comment lines.
func Inject(content, section string) string {
	if strings.Contains(content, MarkerStart) && strings.Contains(content, MarkerEnd) {
		return ReplaceBetweenMarkers(content, section)
	}
	return InsertAfterComments(content, section)
}

// ReplaceBetweenMarkers replaces the first start/end marker pair, markers
// included, with a fresh block.
func ReplaceBetweenMarkers(content, section string) string {
	loc := blockPattern.FindStringIndex(content)
	if loc == nil {
		return content
	}
	return content[:loc[0]] + block(section) + content[loc[1]:]
}

// InsertAfterComments inserts the block, padded by blank lines, at
// InsertPosition.
func InsertAfterComments(content, section string) string {
	lines := strings.Split(content, "\n")
	pos := InsertPosition(lines)

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:pos]...)
	out = append(out, "\n"+block(section)+"\n")
	out = append(out, lines[pos:]...)
	return strings.Join(out, "\n")
}

// InsertPosition returns the index just past the leading shebang and
// comment lines, or 0 when the script starts with anything else.
func InsertPosition(lines []string) int {
	pos := 0
	for i, line := range lines {
		if strings.HasPrefix(line, "#!") || strings.HasPrefix(strings.TrimSpace(line), "#") {
			pos = i + 1
			continue
		}
		break
	}
	return pos
}

func block(section string) string {
	return MarkerStart + "\n" + section + "\n" + MarkerEnd
}
