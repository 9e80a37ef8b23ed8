package filesystem

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/textyre/bootstrap/pkg/types"
)

// WriteFileAtomic replaces path with data so that readers observe either
// the old or the new content. The temporary sibling is removed on failure.
//
// A symlinked path is followed so the link survives and its target is
// replaced. When the filesystem can copy ownership, an existing file keeps
// its owner and group.
func WriteFileAtomic(fsys types.FS, path string, data []byte, perm fs.FileMode) error {
	if r, ok := fsys.(symlinkResolver); ok {
		if resolved, err := r.EvalSymlinks(path); err == nil {
			path = resolved
		}
	}

	tmp := filepath.Join(filepath.Dir(path),
		fmt.Sprintf(".%s.tmp-%d", filepath.Base(path), time.Now().UnixNano()))

	if err := fsys.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := fsys.Chmod(tmp, perm); err != nil {
		_ = fsys.Remove(tmp)
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if c, ok := fsys.(ownerCopier); ok {
		if _, err := fsys.Stat(path); err == nil {
			if err := c.CopyOwner(path, tmp); err != nil {
				_ = fsys.Remove(tmp)
				return fmt.Errorf("failed to keep ownership of %s: %w", path, err)
			}
		}
	}
	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

type symlinkResolver interface {
	EvalSymlinks(name string) (string, error)
}

type ownerCopier interface {
	CopyOwner(src, dst string) error
}
