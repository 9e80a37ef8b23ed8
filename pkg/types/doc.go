// Package types holds the narrow interfaces shared across displayctl packages:
// the filesystem, subprocess runner and ownership lookup used by detection,
// init-script patching and reconciliation.
package types
