package xinitrc

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/textyre/bootstrap/pkg/errors"
	"github.com/textyre/bootstrap/pkg/filesystem"
	"github.com/textyre/bootstrap/pkg/testutil"
)

type staticSection struct {
	section string
	err     error
	calls   int
}

func (s *staticSection) Section(context.Context) (string, error) {
	s.calls++
	return s.section, s.err
}

const section = "# Display configuration generated by displayctl\nxrandr --output DP-1 --mode 2560x1440 --rate 60 --primary"

func TestInsertPosition(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  int
	}{
		{"shebang and comments", []string{"#!/bin/sh", "# start X", "  # indented", "exec i3"}, 3},
		{"no header", []string{"exec i3"}, 0},
		{"blank line stops the scan", []string{"#!/bin/sh", "", "# later"}, 1},
		{"only comments", []string{"#!/bin/sh", "# a"}, 2},
		{"empty file", []string{""}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InsertPosition(tt.lines))
		})
	}
}

func TestInject_InsertsAfterHeader(t *testing.T) {
	content := "#!/bin/sh\n# xinitrc\nexec i3\n"

	got := Inject(content, "xrandr --auto")

	want := "#!/bin/sh\n# xinitrc\n\n" + MarkerStart + "\nxrandr --auto\n" + MarkerEnd + "\n\nexec i3\n"
	assert.Equal(t, want, got)
}

func TestInject_InsertsAtTopWithoutHeader(t *testing.T) {
	got := Inject("exec i3\n", "xrandr --auto")
	assert.True(t, strings.HasPrefix(got, "\n"+MarkerStart+"\n"), got)
	assert.True(t, strings.HasSuffix(got, MarkerEnd+"\n\nexec i3\n"), got)
}

func TestInject_ReplacesBetweenMarkers(t *testing.T) {
	content := "#!/bin/sh\n" + MarkerStart + "\nxrandr --output OLD\nxrandr --more\n" + MarkerEnd + "\nexec i3\n"

	got := Inject(content, "xrandr --output NEW")

	assert.Equal(t, "#!/bin/sh\n"+MarkerStart+"\nxrandr --output NEW\n"+MarkerEnd+"\nexec i3\n", got)
	assert.Equal(t, 1, strings.Count(got, MarkerStart))
	assert.Equal(t, 1, strings.Count(got, MarkerEnd))
}

func TestInject_ReplacesOnlyFirstPair(t *testing.T) {
	pair := MarkerStart + "\nold\n" + MarkerEnd
	content := pair + "\n" + pair + "\n"

	got := ReplaceBetweenMarkers(content, "new")
	assert.Equal(t, MarkerStart+"\nnew\n"+MarkerEnd+"\n"+pair+"\n", got)
}

func TestInject_EndBeforeStartIsLeftAlone(t *testing.T) {
	content := MarkerEnd + "\n" + MarkerStart + "\n"
	assert.Equal(t, content, Inject(content, "new"))
}

func TestInject_Idempotent(t *testing.T) {
	inputs := []string{
		"#!/bin/sh\n# xinitrc\nexec i3\n",
		"exec i3",
		"",
		"#!/bin/sh\n" + MarkerStart + "\nstale\n" + MarkerEnd + "\nexec i3\n",
	}
	for _, in := range inputs {
		once := Inject(in, section)
		twice := Inject(once, section)
		assert.Equal(t, once, twice, "input %q", in)
		assert.Equal(t, 1, strings.Count(twice, MarkerStart))
		assert.Equal(t, 1, strings.Count(twice, MarkerEnd))
	}
}

func TestApply(t *testing.T) {
	fsys := filesystem.NewMemory()
	testutil.WriteFile(t, fsys, "/home/user/dotfiles/dot_xinitrc", "#!/bin/sh\nexec i3\n", 0644)

	gen := &staticSection{section: section}
	p := NewPatcher(fsys, "/home/user/dotfiles/dot_xinitrc", gen)

	require.NoError(t, p.Apply(context.Background()))
	first := testutil.ReadFile(t, fsys, p.Path())
	assert.Contains(t, first, section)

	info, err := fsys.Stat(p.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	require.NoError(t, p.Apply(context.Background()))
	assert.Equal(t, first, testutil.ReadFile(t, fsys, p.Path()))
	assert.Equal(t, 2, gen.calls)
}

func TestApply_MissingScript(t *testing.T) {
	gen := &staticSection{section: section}
	p := NewPatcher(filesystem.NewMemory(), "/home/user/.xinitrc", gen)

	err := p.Apply(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorCode(err, apperrors.ErrFileNotFound))
	assert.Equal(t, "/home/user/.xinitrc", apperrors.GetErrorDetails(err)["path"])
	assert.Zero(t, gen.calls, "generator is not consulted without a script")
}

func TestApply_EmptySectionLeavesScriptUntouched(t *testing.T) {
	fsys := filesystem.NewMemory()
	testutil.WriteFile(t, fsys, "/home/user/.xinitrc", "exec i3\n", 0644)

	for _, gen := range []*staticSection{
		{section: "  \n"},
		{err: apperrors.New(apperrors.ErrNoMonitors, "no connected monitors detected")},
	} {
		err := NewPatcher(fsys, "/home/user/.xinitrc", gen).Apply(context.Background())
		require.Error(t, err)
		assert.True(t, apperrors.IsErrorCode(err, apperrors.ErrGenerate))
		assert.Equal(t, "exec i3\n", testutil.ReadFile(t, fsys, "/home/user/.xinitrc"))
	}
}
