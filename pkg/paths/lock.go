package paths

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/textyre/bootstrap/pkg/errors"
)

const (
	// LockTimeout bounds how long a command waits for another instance
	LockTimeout = 10 * time.Second
	lockRetry   = 100 * time.Millisecond
)

// Lock takes an exclusive lock on path, waiting up to LockTimeout. The
// returned function releases it.
func Lock(ctx context.Context, path string) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, errors.ErrLock, "failed to create lock directory").
			WithDetail("path", path)
	}

	fileLock := flock.New(path)
	lockCtx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(lockCtx, lockRetry)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrLock, "failed to acquire lock").
			WithDetail("path", path)
	}
	if !locked {
		return nil, errors.Newf(errors.ErrLock, "failed to acquire lock: timeout after %v", LockTimeout).
			WithDetail("path", path)
	}
	return fileLock.Unlock, nil
}
