package display

import (
	"context"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/textyre/bootstrap/pkg/logging"
	"github.com/textyre/bootstrap/pkg/types"
)

const (
	// DefaultQueryTool is the live display query tool
	DefaultQueryTool = "xrandr"
	// DefaultSysfsRoot is where the DRM connector tree is mounted
	DefaultSysfsRoot = "/sys"
)

var (
	geometryPattern = regexp.MustCompile(`^(\d+)x(\d+)\+`)
	modePattern     = regexp.MustCompile(`^(\d+)x(\d+)$`)
)

// DetectorOptions configures a Detector
type DetectorOptions struct {
	// QueryTool defaults to DefaultQueryTool
	QueryTool string
	// SysfsRoot defaults to DefaultSysfsRoot
	SysfsRoot string
}

// Detector enumerates monitors. Whether the query tool works is probed once
// in NewDetector and kept for the detector's lifetime.
type Detector struct {
	runner        types.Runner
	fs            types.FS
	queryTool     string
	sysfsRoot     string
	toolAvailable bool
	logger        zerolog.Logger
}

// NewDetector creates a detector and probes the query tool with --version
func NewDetector(ctx context.Context, runner types.Runner, fsys types.FS, opts DetectorOptions) *Detector {
	d := &Detector{
		runner:    runner,
		fs:        fsys,
		queryTool: opts.QueryTool,
		sysfsRoot: opts.SysfsRoot,
		logger:    logging.GetLogger("display.detector"),
	}
	if d.queryTool == "" {
		d.queryTool = DefaultQueryTool
	}
	if d.sysfsRoot == "" {
		d.sysfsRoot = DefaultSysfsRoot
	}

	if _, err := runner.Run(ctx, nil, d.queryTool, "--version"); err != nil {
		d.logger.Warn().Err(err).Str("tool", d.queryTool).Msg("Query tool not found or not executable")
	} else {
		d.toolAvailable = true
		d.logger.Debug().Str("tool", d.queryTool).Msg("Query tool is available")
	}
	return d
}

// ToolAvailable reports the cached probe result
func (d *Detector) ToolAvailable() bool {
	return d.toolAvailable
}

// Detect returns every monitor reported by the query tool, or by the sysfs
// connector tree when the tool is unavailable or its query fails.
func (d *Detector) Detect(ctx context.Context) []Monitor {
	if d.toolAvailable {
		out, err := d.runner.Run(ctx, nil, d.queryTool, "--query")
		if err == nil {
			monitors := ParseQuery(string(out))
			d.logger.Info().
				Int("connected", len(Connected(monitors))).
				Str("source", d.queryTool).
				Msg("Detected monitors")
			return monitors
		}
		d.logger.Error().Err(err).Str("tool", d.queryTool).Msg("Query failed, falling back to sysfs")
	}

	monitors := d.scanSysfs()
	d.logger.Info().
		Int("connected", len(Connected(monitors))).
		Str("source", "sysfs").
		Msg("Detected monitors")
	return monitors
}

// ConnectedMonitors runs Detect and keeps connected monitors
func (d *Detector) ConnectedMonitors(ctx context.Context) []Monitor {
	return Connected(d.Detect(ctx))
}

// PrimaryMonitor runs Detect and returns the primary connected monitor
func (d *Detector) PrimaryMonitor(ctx context.Context) (Monitor, bool) {
	return Primary(d.Detect(ctx))
}

// SelectBest applies the resolution policy to m
func (d *Detector) SelectBest(m Monitor) (Resolution, bool) {
	best, ok := SelectBest(m)
	if ok {
		d.logger.Debug().Str("monitor", m.Name).Str("resolution", best.String()).Msg("Selected resolution")
	}
	return best, ok
}

// ParseQuery parses `xrandr --query` output.
//
// Header lines contain " connected" or " disconnected"; mode lines that
// follow a connected header contribute its available resolutions.
// Malformed mode lines are skipped.
func ParseQuery(output string) []Monitor {
	var monitors []Monitor
	current := -1

	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, " connected") || strings.Contains(line, " disconnected") {
			parts := strings.Fields(line)
			if len(parts) == 0 {
				continue
			}
			monitors = append(monitors, parseHeader(line, parts))
			current = len(monitors) - 1
			continue
		}

		if current < 0 || !monitors[current].Connected || strings.TrimSpace(line) == "" {
			continue
		}
		if res, ok := parseModeLine(line); ok {
			monitors[current].Available = append(monitors[current].Available, res)
		}
	}
	return monitors
}

func parseHeader(line string, parts []string) Monitor {
	m := Monitor{
		Name:      parts[0],
		Connected: strings.Contains(line, "connected") && !strings.Contains(line, "disconnected"),
		Primary:   strings.Contains(line, "primary"),
	}
	for _, part := range parts[1:] {
		match := geometryPattern.FindStringSubmatch(part)
		if match == nil {
			continue
		}
		w, errW := strconv.Atoi(match[1])
		h, errH := strconv.Atoi(match[2])
		if errW == nil && errH == nil {
			m.Current = &Resolution{Width: w, Height: h}
			break
		}
	}
	return m
}

// parseModeLine reads "   1920x1080     60.00*+  59.94". The rate markers
// * (current) and + (preferred) are dropped; an unparseable rate leaves the
// refresh unset.
func parseModeLine(line string) (Resolution, bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Resolution{}, false
	}
	match := modePattern.FindStringSubmatch(parts[0])
	if match == nil {
		return Resolution{}, false
	}
	w, errW := strconv.Atoi(match[1])
	h, errH := strconv.Atoi(match[2])
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return Resolution{}, false
	}

	res := Resolution{Width: w, Height: h}
	if len(parts) > 1 {
		rate, err := strconv.ParseFloat(strings.TrimRight(parts[1], "*+"), 64)
		if err == nil && rate > 0 {
			res.Refresh = rate
		}
	}
	return res, true
}

// scanSysfs lists <sysfs>/class/drm/*-* connectors
func (d *Detector) scanSysfs() []Monitor {
	drmDir := filepath.Join(d.sysfsRoot, "class", "drm")
	entries, err := d.fs.ReadDir(drmDir)
	if err != nil {
		d.logger.Warn().Err(err).Str("path", drmDir).Msg("Cannot read DRM connectors")
		return nil
	}

	var monitors []Monitor
	for _, entry := range entries {
		dirName := entry.Name()
		_, name, found := strings.Cut(dirName, "-")
		if !found {
			continue
		}
		dir := filepath.Join(drmDir, dirName)

		m := Monitor{Name: name}
		if status, err := d.fs.ReadFile(filepath.Join(dir, "status")); err == nil {
			m.Connected = strings.TrimSpace(string(status)) == "connected"
		}

		descriptor := filepath.Join(dir, "edid")
		if info, err := d.fs.Stat(descriptor); err == nil {
			m.DescriptorSize = info.Size()
			m.DescriptorPath = descriptor
		}

		monitors = append(monitors, m)
	}
	return monitors
}
