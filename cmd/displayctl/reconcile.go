package displayctl

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/textyre/bootstrap/pkg/errors"
	"github.com/textyre/bootstrap/pkg/logging"
	"github.com/textyre/bootstrap/pkg/reconcile"
	"github.com/textyre/bootstrap/pkg/report"
	"github.com/textyre/bootstrap/pkg/ui"
)

// watchDebounce is the quiet period before a watched change triggers a run
var watchDebounce = reconcile.DefaultDebounce

func newReconcileCmd(s *session) *cobra.Command {
	var (
		check bool
		watch bool
	)

	cmd := &cobra.Command{
		Use:     "reconcile",
		Short:   MsgReconcileShort,
		Long:    MsgReconcileLong,
		Example: MsgReconcileExample,
		GroupID: "system",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.load()
			if err != nil {
				return err
			}
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			manager, err := a.manager()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if check {
				rep := report.FromChecks(manager.Check())
				if err := report.RenderReconciliation(out, format, rep); err != nil {
					return err
				}
				return notCompliant(rep)
			}

			runErr := runReconcile(cmd.Context(), a, manager, out, format)
			if !watch {
				return runErr
			}

			dirs := manager.SourceDirs()
			printf(cmd.ErrOrStderr(), MsgReconcileWatching, strings.Join(dirs, ", "))
			logger := logging.GetLogger("cmd.reconcile")
			return reconcile.Watch(cmd.Context(), dirs, watchDebounce, func() {
				if err := runReconcile(cmd.Context(), a, manager, out, format); err != nil {
					logger.Error().Err(err).Msg("Reconciliation failed")
				}
			})
		},
	}
	addFormatFlag(cmd)
	cmd.Flags().BoolVar(&check, "check", false, MsgFlagCheck)
	cmd.Flags().BoolVar(&watch, "watch", false, MsgFlagWatch)
	cmd.MarkFlagsMutuallyExclusive("check", "watch")
	return cmd
}

func runReconcile(ctx context.Context, a *app, manager *reconcile.Manager, out io.Writer, format ui.Format) error {
	unlock, err := a.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	rep := report.FromResult(manager.Reconcile(ctx))
	if err := report.RenderReconciliation(out, format, rep); err != nil {
		return err
	}
	return notCompliant(rep)
}

func notCompliant(rep report.Reconciliation) error {
	if rep.OK {
		return nil
	}
	failed := 0
	for _, f := range rep.Files {
		if f.Final != string(reconcile.StateCompliant) {
			failed++
		}
	}
	return &ExitError{Code: 1, Err: errors.Newf(errors.ErrNotCompliant, MsgErrNotCompliant, failed)}
}
