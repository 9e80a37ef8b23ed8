package preflight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textyre/bootstrap/pkg/testutil"
)

var packages = map[string]string{
	"Xorg":      "xorg",
	"i3":        "i3",
	"alacritty": "alacritty",
	"lightdm":   "lightdm",
}

func TestCheck_AllPresent(t *testing.T) {
	runner := testutil.NewFakeRunner("Xorg", "i3")

	report := NewChecker(runner, packages).Check([]string{"Xorg", "i3"})

	assert.True(t, report.OK())
	assert.Empty(t, report.Missing())
	assert.Empty(t, report.InstallHint())
	require.Len(t, report.Binaries, 2)
	assert.True(t, report.Binaries[0].Found)
	assert.NotEmpty(t, report.Binaries[0].Path)
}

func TestCheck_MissingSuggestsSortedPackages(t *testing.T) {
	runner := testutil.NewFakeRunner("i3")

	report := NewChecker(runner, packages).Check([]string{"lightdm", "Xorg", "i3", "picom"})

	assert.False(t, report.OK())
	assert.Equal(t, []string{"lightdm", "Xorg", "picom"}, report.Missing())
	assert.Equal(t, []string{"lightdm", "picom", "xorg"}, report.Packages())
	assert.Equal(t, "sudo pacman -S --needed lightdm picom xorg", report.InstallHint())
}

func TestCheck_DeduplicatesPackages(t *testing.T) {
	runner := testutil.NewFakeRunner()
	shared := map[string]string{"Xorg": "xorg", "Xwayland": "xorg"}

	report := NewChecker(runner, shared).Check([]string{"Xorg", "Xwayland"})

	assert.Equal(t, []string{"xorg"}, report.Packages())
}
