package reconcile

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/textyre/bootstrap/pkg/errors"
	"github.com/textyre/bootstrap/pkg/logging"
)

// DefaultDebounce groups bursts of editor writes into one run
const DefaultDebounce = 500 * time.Millisecond

// SourceDirs returns the distinct source directories of the managed files
func (m *Manager) SourceDirs() []string {
	seen := map[string]bool{}
	var dirs []string
	for _, f := range m.files {
		dir := filepath.Dir(m.SourcePath(f))
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Watch calls fn after changes under dirs settle for debounce, until ctx is
// done. fn is not called for the initial state.
func Watch(ctx context.Context, dirs []string, debounce time.Duration, fn func()) error {
	logger := logging.GetLogger("reconcile.watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to create watcher")
	}
	defer func() { _ = watcher.Close() }()

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to watch %s", dir).
				WithDetail("path", dir)
		}
		logger.Info().Str("dir", dir).Msg("Watching")
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("Source changed")
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("Watcher error")
		case <-timer.C:
			fn()
		}
	}
}
