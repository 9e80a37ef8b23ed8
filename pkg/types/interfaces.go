package types

import (
	"context"
	"io/fs"
)

// FS is the filesystem interface required for displayctl operations
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	MkdirAll(path string, perm fs.FileMode) error
	Chmod(name string, mode fs.FileMode) error
	Rename(oldpath, newpath string) error
	Remove(name string) error
}

// Runner executes external tools.
// Run returns stdout; a non-zero exit is reported as an error.
type Runner interface {
	Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)
	LookPath(name string) (string, error)
}

// OwnerLookup resolves the owner and group names of a path
type OwnerLookup interface {
	Owner(path string) (owner string, group string, err error)
}
