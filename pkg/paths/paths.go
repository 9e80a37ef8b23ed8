package paths

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	// AppDir is the directory name used under XDG base directories
	AppDir = "displayctl"

	// EnvDotfilesRoot overrides the source-of-truth root when the config is empty
	EnvDotfilesRoot = "DOTFILES_ROOT"

	// DefaultSourceDir is the source root relative to the user's home
	DefaultSourceDir = "dotfiles"

	// XinitrcTemplate is the init script template relative to the source root
	XinitrcTemplate = "dot_xinitrc"
)

// ConfigFile returns the user configuration file path
func ConfigFile() string {
	return filepath.Join(xdg.ConfigHome, AppDir, "config.toml")
}

// StateDir returns the directory for logs and lock files
func StateDir() string {
	return filepath.Join(xdg.StateHome, AppDir)
}

// LockFile returns the lock serialising mutating commands
func LockFile() string {
	return filepath.Join(StateDir(), AppDir+".lock")
}

// Resolver derives the source root and init script path
type Resolver struct {
	// SourceRoot and Xinitrc are configured values; empty means derive
	SourceRoot string
	Xinitrc    string
	// Home is the home directory of the target user
	Home   string
	Getenv func(string) string
}

// SourceRootPath returns the configured root, then $DOTFILES_ROOT, then
// <home>/dotfiles.
func (r Resolver) SourceRootPath() string {
	if r.SourceRoot != "" {
		return expandHome(r.SourceRoot, r.Home)
	}
	if r.Getenv != nil {
		if v := r.Getenv(EnvDotfilesRoot); v != "" {
			return expandHome(v, r.Home)
		}
	}
	return filepath.Join(r.Home, DefaultSourceDir)
}

// XinitrcPath returns the configured init script or the template inside
// the source root.
func (r Resolver) XinitrcPath() string {
	if r.Xinitrc != "" {
		return expandHome(r.Xinitrc, r.Home)
	}
	return filepath.Join(r.SourceRootPath(), XinitrcTemplate)
}

func expandHome(path, home string) string {
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
