package reconcile

import (
	"bytes"
	"context"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/textyre/bootstrap/pkg/errors"
	"github.com/textyre/bootstrap/pkg/logging"
	"github.com/textyre/bootstrap/pkg/types"
)

// Writer deploys file content with explicit metadata.
// privileged.Writer satisfies it.
type Writer interface {
	Write(ctx context.Context, path string, content []byte, mode fs.FileMode, owner, group string) error
}

// Manager checks and repairs a fixed set of managed files
type Manager struct {
	fs         types.FS
	owners     types.OwnerLookup
	writer     Writer
	sourceRoot string
	files      []ManagedFile
	logger     zerolog.Logger
}

// NewManager creates a manager for files below sourceRoot. With no files
// DefaultFiles is used.
func NewManager(fsys types.FS, owners types.OwnerLookup, writer Writer, sourceRoot string, files ...ManagedFile) *Manager {
	if len(files) == 0 {
		files = DefaultFiles()
	}
	return &Manager{
		fs:         fsys,
		owners:     owners,
		writer:     writer,
		sourceRoot: sourceRoot,
		files:      files,
		logger:     logging.GetLogger("reconcile"),
	}
}

// Files returns the managed file declarations
func (m *Manager) Files() []ManagedFile {
	return m.files
}

// SourcePath resolves f.Source below the source root
func (m *Manager) SourcePath(f ManagedFile) string {
	return filepath.Join(m.sourceRoot, f.Source)
}

// Check inspects every managed file without writing anything
func (m *Manager) Check() []FileCheck {
	checks := make([]FileCheck, 0, len(m.files))
	for _, f := range m.files {
		checks = append(checks, m.CheckFile(f))
	}
	return checks
}

// CheckFile inspects one file. The checks run in order and stop at the
// first failure: source exists, target exists, content matches, metadata
// matches.
func (m *Manager) CheckFile(f ManagedFile) FileCheck {
	source := m.SourcePath(f)
	check := FileCheck{File: f, SourcePath: source, State: StateUnchecked}
	logger := m.logger.With().Str("file", f.Kind.String()).Str("target", f.Target).Logger()

	if _, err := m.fs.Stat(source); err != nil {
		logger.Error().Str("source", source).Msg("Source missing")
		check.State = StateSourceMissing
		return check
	}
	if _, err := m.fs.Stat(f.Target); err != nil {
		logger.Info().Msg("Target missing")
		check.State = StateMissing
		return check
	}

	if !m.contentMatches(source, f.Target) {
		logger.Info().Msg("Content mismatch")
		check.State = StateContentMismatch
		return check
	}

	observed, err := m.metadata(f.Target)
	if err != nil {
		logger.Info().Err(err).Msg("Cannot read target metadata")
		check.State = StateMetadataMismatch
		return check
	}
	if observed.Owner != f.Owner || observed.Group != f.Group || observed.Mode.Perm() != f.Mode.Perm() {
		expected := Metadata{Owner: f.Owner, Group: f.Group, Mode: f.Mode}
		logger.Info().
			Str("observed", observed.String()).
			Str("expected", expected.String()).
			Msg("Metadata mismatch")
		check.State = StateMetadataMismatch
		check.Observed = &observed
		return check
	}

	check.State = StateCompliant
	return check
}

func (m *Manager) contentMatches(source, target string) bool {
	want, err := m.fs.ReadFile(source)
	if err != nil {
		return false
	}
	got, err := m.fs.ReadFile(target)
	if err != nil {
		return false
	}
	return bytes.Equal(want, got)
}

func (m *Manager) metadata(path string) (Metadata, error) {
	info, err := m.fs.Stat(path)
	if err != nil {
		return Metadata{}, err
	}
	owner, group, err := m.owners.Owner(path)
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{Owner: owner, Group: group, Mode: info.Mode().Perm()}, nil
}

// Deploy copies one file from the source tree to its target with the
// declared mode, owner and group.
func (m *Manager) Deploy(ctx context.Context, f ManagedFile) error {
	source := m.SourcePath(f)
	logger := m.logger.With().Str("file", f.Kind.String()).Str("target", f.Target).Logger()

	if _, err := m.fs.Stat(source); err != nil {
		logger.Error().Str("source", source).Msg("Source not found")
		return errors.Wrapf(err, errors.ErrSourceMissing, "source %s not found", f.Kind).
			WithDetail("path", source)
	}

	content, err := m.fs.ReadFile(source)
	if err != nil {
		logger.Error().Err(err).Str("source", source).Msg("Failed to read source")
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s source", f.Kind).
			WithDetail("path", source)
	}

	if err := m.writer.Write(ctx, f.Target, content, f.Mode, f.Owner, f.Group); err != nil {
		logger.Error().Err(err).Msg("Failed to deploy")
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to deploy %s", f.Kind).
			WithDetail("path", f.Target)
	}

	logger.Info().Msg("Deployed")
	return nil
}

// Reconcile checks every file, deploys the ones that drifted and have a
// source, then checks every file again. The result is OK only when all
// files end compliant.
func (m *Manager) Reconcile(ctx context.Context) Result {
	done := logging.LogOperationStart(m.logger, "reconcile")
	defer done()

	initial := m.Check()

	results := make([]FileResult, len(initial))
	allCompliant := true
	for i, c := range initial {
		results[i] = FileResult{File: c.File, Initial: c.State, Final: c.State}
		if c.State != StateCompliant {
			allCompliant = false
		}
	}
	if allCompliant {
		for i := range results {
			results[i].Outcome = OutcomeAlreadyCompliant
		}
		m.logger.Info().Int("files", len(results)).Msg("All managed files compliant")
		return Result{Files: results, OK: true}
	}

	for i, c := range initial {
		if !c.State.Deployable() {
			continue
		}
		m.logger.Info().Str("file", c.File.Kind.String()).Str("state", string(c.State)).Msg("Deploying to fix drift")
		results[i].Deployed = true
		results[i].DeployErr = m.Deploy(ctx, c.File)
	}

	final := m.Check()
	ok := true
	for i, c := range final {
		results[i].Final = c.State
		results[i].Outcome = outcome(results[i].Initial, c.State)
		if c.State != StateCompliant {
			ok = false
			m.logger.Error().
				Str("file", c.File.Kind.String()).
				Str("target", c.File.Target).
				Str("state", string(c.State)).
				Msg("Still not compliant after deploy")
		}
	}
	return Result{Files: results, OK: ok}
}

func outcome(initial, final State) Outcome {
	switch {
	case final == StateCompliant && initial == StateCompliant:
		return OutcomeAlreadyCompliant
	case final == StateCompliant:
		return OutcomeRepaired
	case final == StateSourceMissing:
		return OutcomeSourceMissing
	default:
		return OutcomeNonCompliant
	}
}
