package display

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/textyre/bootstrap/pkg/edid"
	"github.com/textyre/bootstrap/pkg/logging"
	"github.com/textyre/bootstrap/pkg/types"
)

// DefaultRefresh is used when no refresh rate is requested
const DefaultRefresh = 60

const modelineKeyword = "Modeline"

// ModeLine is an X11 modeline: a mode name and its timing parameters
type ModeLine struct {
	Name   string
	Params string
}

// String renders the modeline as xrandr --newmode arguments
func (m ModeLine) String() string {
	return fmt.Sprintf("%q %s", m.Name, m.Params)
}

// TimingTool is an external modeline generator
type TimingTool struct {
	Name string
	Args func(width, height, refresh int) []string
}

// DefaultTimingTools are tried in order
var DefaultTimingTools = []TimingTool{
	{
		Name: "cvt",
		Args: func(w, h, r int) []string {
			return []string{strconv.Itoa(w), strconv.Itoa(h), strconv.Itoa(r)}
		},
	},
	{
		Name: "gtf",
		Args: func(w, h, r int) []string {
			return []string{strconv.Itoa(w), strconv.Itoa(h), strconv.Itoa(r), "1"}
		},
	},
}

// ModeLineResolver produces modelines for a target mode
type ModeLineResolver struct {
	runner types.Runner
	fs     types.FS
	tools  []TimingTool
	logger zerolog.Logger
}

// NewModeLineResolver creates a resolver using DefaultTimingTools
func NewModeLineResolver(runner types.Runner, fsys types.FS) *ModeLineResolver {
	return &ModeLineResolver{
		runner: runner,
		fs:     fsys,
		tools:  DefaultTimingTools,
		logger: logging.GetLogger("display.modeline"),
	}
}

// WithTools replaces the generator list
func (r *ModeLineResolver) WithTools(tools []TimingTool) *ModeLineResolver {
	r.tools = tools
	return r
}

// Resolve returns a modeline for width x height at refresh Hz (0 means
// DefaultRefresh). When descriptorPath is set and its preferred timing has
// the requested size, the descriptor's refresh rate wins. It reports false
// when no generator is installed or none produced a modeline.
func (r *ModeLineResolver) Resolve(ctx context.Context, width, height, refresh int, descriptorPath string) (ModeLine, bool) {
	if descriptorPath != "" {
		if pref, ok := edid.DecodeFile(r.fs, descriptorPath); ok && pref.Width == width && pref.Height == height {
			r.logger.Debug().
				Str("path", descriptorPath).
				Int("refresh", pref.Refresh).
				Msg("Using EDID preferred refresh")
			refresh = pref.Refresh
		}
	}
	if refresh <= 0 {
		refresh = DefaultRefresh
	}

	for _, tool := range r.tools {
		if _, err := r.runner.LookPath(tool.Name); err != nil {
			continue
		}
		out, err := r.runner.Run(ctx, nil, tool.Name, tool.Args(width, height, refresh)...)
		if err != nil {
			r.logger.Debug().Err(err).Str("tool", tool.Name).Msg("Timing generator failed")
			continue
		}
		if ml, ok := ParseModeLine(string(out)); ok {
			return ml, true
		}
	}

	r.logger.Warn().
		Int("width", width).
		Int("height", height).
		Int("refresh", refresh).
		Msg("No modeline generator succeeded")
	return ModeLine{}, false
}

// ParseModeLine finds the first line starting with "Modeline" and splits it
// into the quoted name and the remaining parameters.
func ParseModeLine(output string) (ModeLine, bool) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, modelineKeyword) {
			continue
		}
		parts := splitN(line, 3)
		if len(parts) < 3 {
			continue
		}
		return ModeLine{Name: strings.Trim(parts[1], `"`), Params: parts[2]}, true
	}
	return ModeLine{}, false
}

// splitN splits s on runs of whitespace into at most n parts; the last part
// keeps its inner spacing.
func splitN(s string, n int) []string {
	var parts []string
	rest := strings.TrimSpace(s)
	for len(parts) < n-1 && rest != "" {
		idx := strings.IndexAny(rest, " \t")
		if idx < 0 {
			break
		}
		parts = append(parts, rest[:idx])
		rest = strings.TrimLeft(rest[idx:], " \t")
	}
	if rest != "" {
		parts = append(parts, rest)
	}
	return parts
}
