// Package filesystem provides filesystem implementations for displayctl.
//
// This package contains implementations of the types.FS interface backed by
// the OS or by afero, an ownership lookup for real files, and an atomic
// whole-file replace helper.
package filesystem
