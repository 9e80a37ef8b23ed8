// Package config loads displayctl configuration.
//
// Sources are layered in order, later ones winning:
//
//   - embedded defaults (embedded/defaults.toml)
//   - the user file at $XDG_CONFIG_HOME/displayctl/config.toml
//   - DISPLAYCTL_* environment variables, where the first underscore after
//     the prefix separates section and key (DISPLAYCTL_PATHS_SOURCE_ROOT sets
//     paths.source_root)
//   - explicit overrides, usually from command-line flags
package config
