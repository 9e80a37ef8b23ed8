package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"github.com/textyre/bootstrap/pkg/logging"
	"github.com/textyre/bootstrap/pkg/types"
)

// Executor implements types.Runner with os/exec
type Executor struct {
	logger zerolog.Logger
}

// New creates a new command executor
func New() *Executor {
	return &Executor{
		logger: logging.GetLogger("executor"),
	}
}

var _ types.Runner = (*Executor)(nil)

// Run executes name with args, feeding stdin when non-nil, and returns stdout.
// A non-zero exit status is returned as an error carrying stderr.
func (e *Executor) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	logging.LogCommand(e.logger, name, args)

	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		e.logger.Debug().
			Err(err).
			Str("command", name).
			Str("stderr", msg).
			Msg("Command failed")
		if msg != "" {
			return stdout.Bytes(), fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return stdout.Bytes(), fmt.Errorf("%s: %w", name, err)
	}

	return stdout.Bytes(), nil
}

// LookPath searches PATH for an executable
func (e *Executor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
