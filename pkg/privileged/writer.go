// Package privileged writes system files through an escalation command
// (sudo by default).
//
// Every step is a separate escalated subprocess: mkdir, tee, chmod, chown
// and a final mv. Content lands in a temporary sibling first, so the target
// only ever shows its old or its complete new content. A failing step aborts
// the remaining ones. Steps that already ran are not rolled back.
package privileged

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/textyre/bootstrap/pkg/errors"
	"github.com/textyre/bootstrap/pkg/logging"
	"github.com/textyre/bootstrap/pkg/types"
)

// Writer performs escalated file writes
type Writer struct {
	runner  types.Runner
	elevate []string
	logger  zerolog.Logger
}

// NewWriter creates a writer that prefixes every step with elevate,
// e.g. "sudo". With no prefix the steps run as the current user.
func NewWriter(runner types.Runner, elevate ...string) *Writer {
	return &Writer{
		runner:  runner,
		elevate: elevate,
		logger:  logging.GetLogger("privileged"),
	}
}

// DefaultElevation returns nil when already running as root and
// command otherwise.
func DefaultElevation(command string) []string {
	if os.Geteuid() == 0 || command == "" {
		return nil
	}
	return []string{command}
}

// TempPath is the sibling used to stage content for path
func TempPath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".displayctl.tmp")
}

// Write replaces path with content, then applies mode and, when either is
// set, owner and group.
func (w *Writer) Write(ctx context.Context, path string, content []byte, mode fs.FileMode, owner, group string) error {
	tmp := TempPath(path)

	if err := w.step(ctx, path, "mkdir", nil, "mkdir", "-p", filepath.Dir(path)); err != nil {
		return err
	}
	if err := w.step(ctx, path, "write", content, "tee", tmp); err != nil {
		w.cleanup(ctx, tmp)
		return err
	}
	if err := w.applyMetadata(ctx, path, tmp, mode, owner, group); err != nil {
		w.cleanup(ctx, tmp)
		return err
	}
	if err := w.step(ctx, path, "rename", nil, "mv", "-f", tmp, path); err != nil {
		w.cleanup(ctx, tmp)
		return err
	}

	w.logger.Info().Str("path", path).Str("mode", fmt.Sprintf("%04o", mode.Perm())).Msg("Wrote file")
	return nil
}

// EnsureDir creates path and its parents, then applies mode and ownership
func (w *Writer) EnsureDir(ctx context.Context, path string, mode fs.FileMode, owner, group string) error {
	if err := w.step(ctx, path, "mkdir", nil, "mkdir", "-p", path); err != nil {
		return err
	}
	if err := w.applyMetadata(ctx, path, path, mode, owner, group); err != nil {
		return err
	}
	w.logger.Info().Str("path", path).Msg("Ensured directory")
	return nil
}

func (w *Writer) applyMetadata(ctx context.Context, path, target string, mode fs.FileMode, owner, group string) error {
	if err := w.step(ctx, path, "chmod", nil, "chmod", fmt.Sprintf("%o", mode.Perm()), target); err != nil {
		return err
	}
	if arg := ownership(owner, group); arg != "" {
		if err := w.step(ctx, path, "chown", nil, "chown", arg, target); err != nil {
			return err
		}
	}
	return nil
}

// ownership renders the chown argument. A bare owner keeps the group, since
// "owner:" would switch it to the owner's login group.
func ownership(owner, group string) string {
	switch {
	case group == "":
		return owner
	case owner == "":
		return ":" + group
	default:
		return owner + ":" + group
	}
}

func (w *Writer) step(ctx context.Context, path, step string, stdin []byte, args ...string) error {
	name, rest := w.command(args)
	if _, err := w.runner.Run(ctx, stdin, name, rest...); err != nil {
		w.logger.Error().Err(err).Str("path", path).Str("step", step).Msg("Privileged operation failed")
		return errors.Wrapf(err, errors.ErrPrivilegedOp, "%s failed for %s", step, path).
			WithDetail("path", path).
			WithDetail("step", step)
	}
	return nil
}

func (w *Writer) cleanup(ctx context.Context, tmp string) {
	name, rest := w.command([]string{"rm", "-f", tmp})
	if _, err := w.runner.Run(ctx, nil, name, rest...); err != nil {
		w.logger.Debug().Err(err).Str("path", tmp).Msg("Failed to remove temp file")
	}
}

func (w *Writer) command(args []string) (string, []string) {
	full := append(append([]string(nil), w.elevate...), args...)
	return full[0], full[1:]
}
