package config

import (
	"os"
	"path/filepath"
	"testing"

	gotoml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/textyre/bootstrap/pkg/errors"
)

func load(t *testing.T, opts LoadOptions) *Config {
	t.Helper()
	if opts.Environ == nil {
		opts.Environ = []string{}
	}
	cfg, err := Load(opts)
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := load(t, LoadOptions{})

	assert.Equal(t, "", cfg.Paths.SourceRoot)
	assert.Equal(t, "/sys", cfg.Paths.SysfsRoot)
	assert.Equal(t, "xrandr", cfg.Display.QueryTool)
	assert.Equal(t, "sudo", cfg.Privilege.Command)
	assert.Equal(t, []string{"Xorg", "i3", "alacritty", "lightdm"}, cfg.Preflight.Binaries)
	assert.Equal(t, "xorg", cfg.Preflight.Packages["Xorg"])
}

func TestLoad_UserFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[paths]
source_root = "/srv/dotfiles"

[privilege]
command = "doas"
`), 0644))

	cfg := load(t, LoadOptions{UserConfigPath: path})

	assert.Equal(t, "/srv/dotfiles", cfg.Paths.SourceRoot)
	assert.Equal(t, "doas", cfg.Privilege.Command)
	assert.Equal(t, "xrandr", cfg.Display.QueryTool, "untouched keys keep defaults")
}

func TestLoad_MissingUserFileIsIgnored(t *testing.T) {
	cfg := load(t, LoadOptions{UserConfigPath: filepath.Join(t.TempDir(), "absent.toml")})
	assert.Equal(t, "sudo", cfg.Privilege.Command)
}

func TestLoad_InvalidUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[paths\nsource_root = "), 0644))

	_, err := Load(LoadOptions{UserConfigPath: path, Environ: []string{}})
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorCode(err, apperrors.ErrConfigParse))
	assert.Equal(t, path, apperrors.GetErrorDetails(err)["path"])
}

func TestLoad_Environment(t *testing.T) {
	cfg := load(t, LoadOptions{Environ: []string{
		"DISPLAYCTL_PATHS_SOURCE_ROOT=/env/dotfiles",
		"DISPLAYCTL_DISPLAY_QUERY_TOOL=/usr/local/bin/xrandr",
		"DISPLAYCTL_PREFLIGHT_BINARIES=Xorg,i3",
		"UNRELATED_PATHS_XINITRC=/ignored",
	}})

	assert.Equal(t, "/env/dotfiles", cfg.Paths.SourceRoot)
	assert.Equal(t, "/usr/local/bin/xrandr", cfg.Display.QueryTool)
	assert.Equal(t, []string{"Xorg", "i3"}, cfg.Preflight.Binaries)
	assert.Equal(t, "", cfg.Paths.Xinitrc)
}

func TestLoad_OverridesWinOverEnvironment(t *testing.T) {
	cfg := load(t, LoadOptions{
		Environ:   []string{"DISPLAYCTL_PATHS_XINITRC=/env/xinitrc"},
		Overrides: map[string]interface{}{"paths.xinitrc": "/flag/xinitrc"},
	})
	assert.Equal(t, "/flag/xinitrc", cfg.Paths.Xinitrc)
}

func TestDump_RoundTrips(t *testing.T) {
	cfg := load(t, LoadOptions{})

	out, err := Dump(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "query_tool = 'xrandr'")

	var back Config
	require.NoError(t, gotoml.Unmarshal(out, &back))
	assert.Equal(t, *cfg, back)
}

func TestDefaults(t *testing.T) {
	assert.Contains(t, Defaults(), "[preflight.packages]")
}
