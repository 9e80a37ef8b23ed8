package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textyre/bootstrap/pkg/filesystem"
	"github.com/textyre/bootstrap/pkg/testutil"
)

func TestSourceDirs_Deduplicates(t *testing.T) {
	m := NewManager(filesystem.NewMemory(), testutil.NewOwners(), &fakeWriter{}, "/dots")
	assert.Equal(t, []string{"/dots/etc/lightdm/lightdm.conf.d"}, m.SourceDirs())
}

func TestWatch_DebouncedCallback(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{dir}, 50*time.Millisecond, func() { calls <- struct{}{} })
	}()

	// Give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "10-config.conf"), []byte{byte('a' + i)}, 0644))
	}

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("callback not called after change")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop on cancel")
	}
	assert.LessOrEqual(t, len(calls), 1, "burst collapses into one run")
}

func TestWatch_MissingDir(t *testing.T) {
	err := Watch(context.Background(), []string{filepath.Join(t.TempDir(), "absent")}, time.Millisecond, func() {})
	require.Error(t, err)
}
