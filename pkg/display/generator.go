package display

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/textyre/bootstrap/pkg/edid"
	"github.com/textyre/bootstrap/pkg/errors"
	"github.com/textyre/bootstrap/pkg/logging"
	"github.com/textyre/bootstrap/pkg/types"
)

// SectionHeader opens every generated command block
const SectionHeader = "# Display configuration generated by displayctl"

// Generator turns detected monitors into xrandr commands
type Generator struct {
	detector *Detector
	resolver *ModeLineResolver
	fs       types.FS
	logger   zerolog.Logger
}

// NewGenerator creates a command generator
func NewGenerator(detector *Detector, resolver *ModeLineResolver, fsys types.FS) *Generator {
	return &Generator{
		detector: detector,
		resolver: resolver,
		fs:       fsys,
		logger:   logging.GetLogger("display.generator"),
	}
}

// Commands renders one mode-setting sequence per connected monitor.
// Monitors without advertised modes are configured from their EDID
// preferred timing through a new mode.
func (g *Generator) Commands(ctx context.Context, monitors []Monitor) []string {
	primary, hasPrimary := Primary(monitors)

	var lines []string
	for _, m := range Connected(monitors) {
		isPrimary := hasPrimary && m.Name == primary.Name

		if best, ok := SelectBest(m); ok {
			lines = append(lines, outputCommand(m.Name, best.Size(), best.Refresh, isPrimary))
			continue
		}

		if m.DescriptorPath == "" {
			g.logger.Warn().Str("monitor", m.Name).Msg("No modes or EDID available, skipping")
			continue
		}
		timing, ok := edid.DecodeFile(g.fs, m.DescriptorPath)
		if !ok {
			g.logger.Warn().Str("monitor", m.Name).Str("path", m.DescriptorPath).Msg("EDID has no preferred timing")
			continue
		}
		ml, ok := g.resolver.Resolve(ctx, timing.Width, timing.Height, timing.Refresh, m.DescriptorPath)
		if !ok {
			continue
		}
		lines = append(lines,
			fmt.Sprintf("xrandr --newmode %s", ml),
			fmt.Sprintf("xrandr --addmode %s %q", m.Name, ml.Name),
			outputCommand(m.Name, strconv.Quote(ml.Name), 0, isPrimary),
		)
	}
	return lines
}

func outputCommand(output, mode string, refresh float64, primary bool) string {
	cmd := fmt.Sprintf("xrandr --output %s --mode %s", output, mode)
	if refresh > 0 {
		cmd += " --rate " + strconv.FormatFloat(refresh, 'f', -1, 64)
	}
	if primary {
		cmd += " --primary"
	}
	return cmd
}

// Section detects monitors and renders the commands as a script block.
// An empty block is reported as ErrGenerate.
func (g *Generator) Section(ctx context.Context) (string, error) {
	monitors := g.detector.Detect(ctx)
	if len(Connected(monitors)) == 0 {
		return "", errors.New(errors.ErrNoMonitors, "no connected monitors detected")
	}

	lines := g.Commands(ctx, monitors)
	if len(lines) == 0 {
		return "", errors.New(errors.ErrGenerate, "no mode-setting commands could be generated")
	}
	return SectionHeader + "\n" + strings.Join(lines, "\n"), nil
}
