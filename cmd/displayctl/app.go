package displayctl

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/textyre/bootstrap/pkg/config"
	"github.com/textyre/bootstrap/pkg/display"
	"github.com/textyre/bootstrap/pkg/errors"
	"github.com/textyre/bootstrap/pkg/executor"
	"github.com/textyre/bootstrap/pkg/filesystem"
	"github.com/textyre/bootstrap/pkg/paths"
	"github.com/textyre/bootstrap/pkg/privileged"
	"github.com/textyre/bootstrap/pkg/reconcile"
	"github.com/textyre/bootstrap/pkg/types"
	"github.com/textyre/bootstrap/pkg/ui"
	"github.com/textyre/bootstrap/pkg/users"
	"github.com/textyre/bootstrap/pkg/xinitrc"
)

// Deps are the system collaborators the commands act through
type Deps struct {
	FS     types.FS
	Runner types.Runner
	Owners types.OwnerLookup
	Users  users.Lookup
	// Environ feeds configuration and DOTFILES_ROOT; nil means os.Environ
	Environ    []string
	ConfigPath string
	LockPath   string
}

// SystemDeps acts on the real machine
func SystemDeps() Deps {
	return Deps{
		FS:         filesystem.NewOS(),
		Runner:     executor.New(),
		Owners:     filesystem.NewOSOwners(),
		Users:      users.System(),
		ConfigPath: paths.ConfigFile(),
		LockPath:   paths.LockFile(),
	}
}

// ExitError carries a process exit code
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// app is the per-invocation state shared by the commands
type app struct {
	deps     Deps
	cfg      *config.Config
	resolver paths.Resolver
}

func (d Deps) environ() []string {
	if d.Environ == nil {
		return os.Environ()
	}
	return d.Environ
}

func (d Deps) getenv(key string) string {
	prefix := key + "="
	for _, kv := range d.environ() {
		if strings.HasPrefix(kv, prefix) {
			return kv[len(prefix):]
		}
	}
	return ""
}

func newApp(deps Deps, overrides map[string]interface{}) (*app, error) {
	cfg, err := config.Load(config.LoadOptions{
		UserConfigPath: deps.ConfigPath,
		Environ:        deps.environ(),
		Overrides:      overrides,
	})
	if err != nil {
		return nil, err
	}

	a := &app{deps: deps, cfg: cfg}
	a.resolver = paths.Resolver{
		SourceRoot: cfg.Paths.SourceRoot,
		Xinitrc:    cfg.Paths.Xinitrc,
		Getenv:     deps.getenv,
	}

	name := deps.Users.CurrentUser()
	if home, ok := deps.Users.HomeDir(name); ok {
		a.resolver.Home = home
	}
	return a, nil
}

// sourceRoot fails when the root would be derived from an unknown home
func (a *app) sourceRoot() (string, error) {
	if a.resolver.Home == "" && a.cfg.Paths.SourceRoot == "" && a.deps.getenv(paths.EnvDotfilesRoot) == "" {
		return "", errors.Newf(errors.ErrNotFound, MsgErrNoHome, a.deps.Users.CurrentUser())
	}
	return a.resolver.SourceRootPath(), nil
}

func (a *app) detector(ctx context.Context) *display.Detector {
	return display.NewDetector(ctx, a.deps.Runner, a.deps.FS, display.DetectorOptions{
		QueryTool: a.cfg.Display.QueryTool,
		SysfsRoot: a.cfg.Paths.SysfsRoot,
	})
}

func (a *app) resolverFor() *display.ModeLineResolver {
	return display.NewModeLineResolver(a.deps.Runner, a.deps.FS)
}

func (a *app) generator(ctx context.Context) *display.Generator {
	return display.NewGenerator(a.detector(ctx), a.resolverFor(), a.deps.FS)
}

func (a *app) patcher(ctx context.Context, path string) *xinitrc.Patcher {
	return xinitrc.NewPatcher(a.deps.FS, path, a.generator(ctx))
}

func (a *app) manager() (*reconcile.Manager, error) {
	root, err := a.sourceRoot()
	if err != nil {
		return nil, err
	}
	writer := privileged.NewWriter(a.deps.Runner, privileged.DefaultElevation(a.cfg.Privilege.Command)...)
	return reconcile.NewManager(a.deps.FS, a.deps.Owners, writer, root), nil
}

// lock serialises mutating commands across processes
func (a *app) lock(ctx context.Context) (func(), error) {
	if a.deps.LockPath == "" {
		return func() {}, nil
	}
	unlock, err := paths.Lock(ctx, a.deps.LockPath)
	if err != nil {
		return nil, err
	}
	return func() { _ = unlock() }, nil
}

// outputFormat parses --format and resolves auto against the command output
func outputFormat(cmd *cobra.Command) (ui.Format, error) {
	name, _ := cmd.Flags().GetString("format")
	format, err := ui.ParseFormat(name)
	if err != nil {
		return ui.FormatAuto, errors.Wrap(err, errors.ErrInvalidInput, "invalid --format")
	}
	if format != ui.FormatAuto {
		return format, nil
	}
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		return ui.DetectFormat(f), nil
	}
	return ui.FormatText, nil
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "auto", MsgFlagFormat)
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return ui.Names, cobra.ShellCompDirectiveNoFileComp
	})
}

func printf(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}
