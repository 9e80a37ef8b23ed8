package testutil

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/textyre/bootstrap/pkg/types"
)

// WriteFile creates path (and its parents) on fsys with content and mode
func WriteFile(t *testing.T, fsys types.FS, path, content string, mode fs.FileMode) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, fsys.WriteFile(path, []byte(content), mode))
	require.NoError(t, fsys.Chmod(path, mode))
}

// ReadFile returns the content of path on fsys
func ReadFile(t *testing.T, fsys types.FS, path string) string {
	t.Helper()
	data, err := fsys.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
