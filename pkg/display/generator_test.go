package display

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/textyre/bootstrap/pkg/errors"
	"github.com/textyre/bootstrap/pkg/filesystem"
	"github.com/textyre/bootstrap/pkg/testutil"
	"github.com/textyre/bootstrap/pkg/types"
)

func newTestGenerator(t *testing.T, runner *testutil.FakeRunner, fsys types.FS) *Generator {
	t.Helper()
	d := NewDetector(context.Background(), runner, fsys, DetectorOptions{})
	return NewGenerator(d, NewModeLineResolver(runner, fsys), fsys)
}

func TestCommands_FromAdvertisedModes(t *testing.T) {
	fsys := filesystem.NewMemory()
	runner := testutil.NewFakeRunner()
	g := newTestGenerator(t, runner, fsys)

	lines := g.Commands(context.Background(), ParseQuery(xrandrQuery))
	assert.Equal(t, []string{
		"xrandr --output DP-1 --mode 2560x1440 --rate 60 --primary",
		"xrandr --output HDMI-1 --mode 1920x1080 --rate 60",
	}, lines)
}

func TestCommands_FromDescriptor(t *testing.T) {
	fsys := filesystem.NewMemory()
	testutil.WriteFile(t, fsys, "/sys/class/drm/card0-DP-1/edid", string(edidBlock(14850, 1920, 160, 1080, 31)), 0444)

	runner := testutil.NewFakeRunner("cvt").On("cvt 1920 1080 64", cvtOutput, nil)
	g := newTestGenerator(t, runner, fsys)

	monitors := []Monitor{{Name: "DP-1", Connected: true, DescriptorPath: "/sys/class/drm/card0-DP-1/edid"}}
	lines := g.Commands(context.Background(), monitors)
	assert.Equal(t, []string{
		`xrandr --newmode "1920x1080_60.00" 173.00  1920 2048 2248 2576  1080 1083 1088 1120 -hsync +vsync`,
		`xrandr --addmode DP-1 "1920x1080_60.00"`,
		`xrandr --output DP-1 --mode "1920x1080_60.00" --primary`,
	}, lines)
}

func TestCommands_SkipsMonitorsWithoutModes(t *testing.T) {
	g := newTestGenerator(t, testutil.NewFakeRunner(), filesystem.NewMemory())

	lines := g.Commands(context.Background(), []Monitor{{Name: "DP-1", Connected: true}})
	assert.Empty(t, lines)
}

func TestSection(t *testing.T) {
	runner := testutil.NewFakeRunner().
		On("xrandr --version", "", nil).
		On("xrandr --query", xrandrQuery, nil)
	g := newTestGenerator(t, runner, filesystem.NewMemory())

	section, err := g.Section(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(section, SectionHeader+"\n"))
	assert.Contains(t, section, "--output DP-1 --mode 2560x1440")
}

func TestSection_NoMonitors(t *testing.T) {
	runner := testutil.NewFakeRunner().On("xrandr --version", "", errors.New("missing"))
	g := newTestGenerator(t, runner, filesystem.NewMemory())

	_, err := g.Section(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorCode(err, apperrors.ErrNoMonitors))
}

func TestSection_NothingGenerated(t *testing.T) {
	runner := testutil.NewFakeRunner().
		On("xrandr --version", "", nil).
		On("xrandr --query", "DP-1 connected\n", nil)
	g := newTestGenerator(t, runner, filesystem.NewMemory())

	_, err := g.Section(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorCode(err, apperrors.ErrGenerate))
}
