package reconcile

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/textyre/bootstrap/pkg/errors"
	"github.com/textyre/bootstrap/pkg/filesystem"
	"github.com/textyre/bootstrap/pkg/testutil"
	"github.com/textyre/bootstrap/pkg/types"
)

const sourceRoot = "/home/user/dotfiles"

const (
	hookContent   = "#!/bin/sh\nxrandr --output DP-1 --mode 2560x1440\n"
	configContent = "[Seat:*]\ndisplay-setup-script=/etc/lightdm/lightdm.conf.d/add-and-set-resolution.sh\n"
)

type writeCall struct {
	Path    string
	Content string
	Mode    fs.FileMode
	Owner   string
	Group   string
}

// fakeWriter records calls and applies them to the in-memory tree unless
// err is set or apply is false.
type fakeWriter struct {
	fs     types.FS
	owners *testutil.Owners
	apply  bool
	err    error
	calls  []writeCall
}

func (w *fakeWriter) Write(_ context.Context, path string, content []byte, mode fs.FileMode, owner, group string) error {
	w.calls = append(w.calls, writeCall{Path: path, Content: string(content), Mode: mode, Owner: owner, Group: group})
	if w.err != nil {
		return w.err
	}
	if !w.apply {
		return nil
	}
	if err := w.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := w.fs.WriteFile(path, content, mode); err != nil {
		return err
	}
	if err := w.fs.Chmod(path, mode); err != nil {
		return err
	}
	w.owners.Set(path, owner, group)
	return nil
}

type fixture struct {
	fs      types.FS
	owners  *testutil.Owners
	writer  *fakeWriter
	manager *Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fsys := filesystem.NewMemory()
	owners := testutil.NewOwners()
	writer := &fakeWriter{fs: fsys, owners: owners, apply: true}

	testutil.WriteFile(t, fsys, filepath.Join(sourceRoot, HookFile.Source), hookContent, 0644)
	testutil.WriteFile(t, fsys, filepath.Join(sourceRoot, ConfigFile.Source), configContent, 0644)

	return &fixture{
		fs:      fsys,
		owners:  owners,
		writer:  writer,
		manager: NewManager(fsys, owners, writer, sourceRoot),
	}
}

// deployed lays out a compliant target for f
func (fx *fixture) deployed(t *testing.T, f ManagedFile, content string) {
	t.Helper()
	testutil.WriteFile(t, fx.fs, f.Target, content, f.Mode)
	fx.owners.Set(f.Target, f.Owner, f.Group)
}

func TestCheckFile_States(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, fx *fixture)
		want  State
	}{
		{
			name:  "target missing",
			setup: func(t *testing.T, fx *fixture) {},
			want:  StateMissing,
		},
		{
			name: "content mismatch",
			setup: func(t *testing.T, fx *fixture) {
				fx.deployed(t, ConfigFile, "[Seat:*]\n")
			},
			want: StateContentMismatch,
		},
		{
			name: "wrong mode",
			setup: func(t *testing.T, fx *fixture) {
				fx.deployed(t, ConfigFile, configContent)
				require.NoError(t, fx.fs.Chmod(ConfigFile.Target, 0600))
			},
			want: StateMetadataMismatch,
		},
		{
			name: "wrong owner",
			setup: func(t *testing.T, fx *fixture) {
				fx.deployed(t, ConfigFile, configContent)
				fx.owners.Set(ConfigFile.Target, "user", "root")
			},
			want: StateMetadataMismatch,
		},
		{
			name: "wrong group",
			setup: func(t *testing.T, fx *fixture) {
				fx.deployed(t, ConfigFile, configContent)
				fx.owners.Set(ConfigFile.Target, "root", "wheel")
			},
			want: StateMetadataMismatch,
		},
		{
			name: "compliant",
			setup: func(t *testing.T, fx *fixture) {
				fx.deployed(t, ConfigFile, configContent)
			},
			want: StateCompliant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t)
			tt.setup(t, fx)

			check := fx.manager.CheckFile(ConfigFile)
			assert.Equal(t, tt.want, check.State)
			assert.Equal(t, filepath.Join(sourceRoot, ConfigFile.Source), check.SourcePath)
		})
	}
}

func TestCheckFile_ReportsObservedMetadata(t *testing.T) {
	fx := newFixture(t)
	fx.deployed(t, HookFile, hookContent)
	fx.owners.Set(HookFile.Target, "root", "root")

	check := fx.manager.CheckFile(HookFile)
	require.Equal(t, StateMetadataMismatch, check.State)
	require.NotNil(t, check.Observed)
	assert.Equal(t, "root:root 0755", check.Observed.String())
}

func TestCheckFile_SourceMissing(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.fs.Remove(filepath.Join(sourceRoot, HookFile.Source)))
	fx.deployed(t, HookFile, hookContent)

	assert.Equal(t, StateSourceMissing, fx.manager.CheckFile(HookFile).State)
}

func TestReconcile_AllCompliantWritesNothing(t *testing.T) {
	fx := newFixture(t)
	fx.deployed(t, HookFile, hookContent)
	fx.deployed(t, ConfigFile, configContent)

	result := fx.manager.Reconcile(context.Background())

	assert.True(t, result.OK)
	assert.Empty(t, fx.writer.calls)
	require.Len(t, result.Files, 2)
	for _, f := range result.Files {
		assert.Equal(t, OutcomeAlreadyCompliant, f.Outcome)
		assert.False(t, f.Deployed)
	}
	assert.Empty(t, result.Failed())
}

func TestReconcile_RedeploysDriftedConfig(t *testing.T) {
	fx := newFixture(t)
	fx.deployed(t, HookFile, hookContent)
	fx.deployed(t, ConfigFile, "[Seat:*]\nold=1\n")

	result := fx.manager.Reconcile(context.Background())

	require.Len(t, fx.writer.calls, 1)
	assert.Equal(t, writeCall{
		Path:    "/etc/lightdm/lightdm.conf.d/10-config.conf",
		Content: configContent,
		Mode:    0644,
		Owner:   "root",
		Group:   "root",
	}, fx.writer.calls[0])

	assert.True(t, result.OK)
	assert.Equal(t, OutcomeAlreadyCompliant, result.Files[0].Outcome)
	assert.Equal(t, StateContentMismatch, result.Files[1].Initial)
	assert.Equal(t, StateCompliant, result.Files[1].Final)
	assert.Equal(t, OutcomeRepaired, result.Files[1].Outcome)
	assert.True(t, result.Files[1].Deployed)
}

func TestReconcile_DeploysMissingHookWithLightDMOwnership(t *testing.T) {
	fx := newFixture(t)
	fx.deployed(t, ConfigFile, configContent)

	result := fx.manager.Reconcile(context.Background())

	require.Len(t, fx.writer.calls, 1)
	call := fx.writer.calls[0]
	assert.Equal(t, HookFile.Target, call.Path)
	assert.Equal(t, fs.FileMode(0755), call.Mode)
	assert.Equal(t, "lightdm", call.Owner)
	assert.Equal(t, "lightdm", call.Group)
	assert.True(t, result.OK)
}

func TestReconcile_FailsWhenDeployDoesNotTakeEffect(t *testing.T) {
	fx := newFixture(t)
	fx.writer.apply = false
	fx.deployed(t, HookFile, hookContent)
	fx.deployed(t, ConfigFile, configContent)
	fx.owners.Set(ConfigFile.Target, "user", "user")

	result := fx.manager.Reconcile(context.Background())

	assert.False(t, result.OK)
	assert.Len(t, fx.writer.calls, 1)
	failed := result.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, KindConfig, failed[0].File.Kind)
	assert.Equal(t, StateMetadataMismatch, failed[0].Final)
	assert.Equal(t, OutcomeNonCompliant, failed[0].Outcome)
}

func TestReconcile_WriterFailureStillRechecks(t *testing.T) {
	fx := newFixture(t)
	fx.writer.err = errors.New("sudo: a password is required")

	result := fx.manager.Reconcile(context.Background())

	assert.False(t, result.OK)
	assert.Len(t, fx.writer.calls, 2, "both missing targets are attempted")
	for _, f := range result.Files {
		assert.True(t, f.Deployed)
		require.Error(t, f.DeployErr)
		assert.True(t, apperrors.IsErrorCode(f.DeployErr, apperrors.ErrFileWrite))
		assert.Equal(t, StateMissing, f.Final)
	}
}

func TestReconcile_RechecksEveryFile(t *testing.T) {
	fx := newFixture(t)
	fx.deployed(t, HookFile, hookContent)
	fx.deployed(t, ConfigFile, "stale")

	// The config deploy clobbers the hook's ownership; only a full re-check
	// notices.
	fx.writer.apply = true
	writer := &clobberingWriter{fakeWriter: fx.writer, clobber: HookFile.Target}
	manager := NewManager(fx.fs, fx.owners, writer, sourceRoot)

	result := manager.Reconcile(context.Background())

	assert.False(t, result.OK)
	assert.Equal(t, StateCompliant, result.Files[0].Initial)
	assert.Equal(t, StateMetadataMismatch, result.Files[0].Final)
	assert.Equal(t, OutcomeNonCompliant, result.Files[0].Outcome)
	assert.Equal(t, OutcomeRepaired, result.Files[1].Outcome)
}

type clobberingWriter struct {
	*fakeWriter
	clobber string
}

func (w *clobberingWriter) Write(ctx context.Context, path string, content []byte, mode fs.FileMode, owner, group string) error {
	if err := w.fakeWriter.Write(ctx, path, content, mode, owner, group); err != nil {
		return err
	}
	w.owners.Set(w.clobber, "root", "root")
	return nil
}

func TestReconcile_SourceMissingIsNotDeployed(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.fs.Remove(filepath.Join(sourceRoot, HookFile.Source)))
	fx.deployed(t, ConfigFile, "stale")

	result := fx.manager.Reconcile(context.Background())

	assert.False(t, result.OK)
	require.Len(t, fx.writer.calls, 1)
	assert.Equal(t, ConfigFile.Target, fx.writer.calls[0].Path)

	assert.Equal(t, StateSourceMissing, result.Files[0].Final)
	assert.Equal(t, OutcomeSourceMissing, result.Files[0].Outcome)
	assert.False(t, result.Files[0].Deployed)
	assert.Equal(t, OutcomeRepaired, result.Files[1].Outcome)
}

func TestDeploy_SourceMissing(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.fs.Remove(filepath.Join(sourceRoot, ConfigFile.Source)))

	err := fx.manager.Deploy(context.Background(), ConfigFile)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorCode(err, apperrors.ErrSourceMissing))
	assert.Equal(t, filepath.Join(sourceRoot, ConfigFile.Source), apperrors.GetErrorDetails(err)["path"])
	assert.Empty(t, fx.writer.calls)
}

func TestNewManager_CustomFiles(t *testing.T) {
	fx := newFixture(t)
	m := NewManager(fx.fs, fx.owners, fx.writer, sourceRoot, ConfigFile)
	assert.Equal(t, []ManagedFile{ConfigFile}, m.Files())
	assert.Len(t, fx.manager.Files(), 2)
}

func TestKindAndNames(t *testing.T) {
	assert.Equal(t, "hook", KindHook.String())
	assert.Equal(t, "config", KindConfig.String())
	assert.Equal(t, "unknown", Kind(42).String())
	assert.Equal(t, "10-config.conf", ConfigFile.Name())
	assert.True(t, StateMissing.Deployable())
	assert.False(t, StateSourceMissing.Deployable())
	assert.False(t, StateCompliant.Deployable())
}
