// Package paths resolves the locations displayctl works with: its own XDG
// config and state files, the source-of-truth tree, and the init script
// template inside it.
package paths
