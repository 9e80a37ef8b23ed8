package displayctl

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/textyre/bootstrap/pkg/display"
	"github.com/textyre/bootstrap/pkg/edid"
	"github.com/textyre/bootstrap/pkg/errors"
	"github.com/textyre/bootstrap/pkg/logging"
	"github.com/textyre/bootstrap/pkg/report"
)

func newInfoCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "info",
		Short:   MsgInfoShort,
		GroupID: "display",
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

			detector := a.detector(cmd.Context())
			info := report.BuildInfo(detector.Detect(cmd.Context()), detector)
			return report.RenderInfo(cmd.OutOrStdout(), format, info)
		},
	}
	addFormatFlag(cmd)
	return cmd
}

func newGenerateCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "generate",
		Short:   MsgGenerateShort,
		GroupID: "display",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			detector := a.detector(ctx)
			generator := display.NewGenerator(detector, a.resolverFor(), a.deps.FS)
			commands := generator.Commands(ctx, detector.Detect(ctx))
			if len(commands) == 0 {
				logger := logging.GetLogger("cmd.generate")
				logger.Info().Msg(MsgNoCommands)
				return nil
			}
			return report.RenderCommands(cmd.OutOrStdout(), commands)
		},
	}
}

func newInjectCmd(s *session) *cobra.Command {
	var xinitrcPath string

	cmd := &cobra.Command{
		Use:     "inject",
		Short:   MsgInjectShort,
		Long:    MsgInjectLong,
		Example: MsgInjectExample,
		GroupID: "display",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.load()
			if err != nil {
				return err
			}

			path := xinitrcPath
			if path == "" {
				if _, err := a.sourceRoot(); err != nil {
					return err
				}
				path = a.resolver.XinitrcPath()
			}

			unlock, err := a.lock(cmd.Context())
			if err != nil {
				return err
			}
			defer unlock()

			if err := a.patcher(cmd.Context(), path).Apply(cmd.Context()); err != nil {
				return errors.Wrapf(err, errors.GetErrorCode(err), MsgErrInject, path)
			}
			printf(cmd.OutOrStdout(), MsgInjected, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&xinitrcPath, "xinitrc", "", MsgFlagXinitrc)
	_ = cmd.MarkFlagFilename("xinitrc")
	return cmd
}

func newModelineCmd(s *session) *cobra.Command {
	var edidPath string

	cmd := &cobra.Command{
		Use:     "modeline WIDTH HEIGHT [REFRESH]",
		Short:   MsgModelineShort,
		Example: MsgModelineExample,
		GroupID: "display",
		Args:    cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.load()
			if err != nil {
				return err
			}

			width, err := parseDimension("width", args[0])
			if err != nil {
				return err
			}
			height, err := parseDimension("height", args[1])
			if err != nil {
				return err
			}
			refresh := display.DefaultRefresh
			if len(args) == 3 {
				if refresh, err = parseDimension("refresh", args[2]); err != nil {
					return err
				}
			}

			if width == 0 && height == 0 && edidPath != "" {
				timing, ok := edid.DecodeFile(a.deps.FS, edidPath)
				if !ok {
					return errors.Newf(errors.ErrParse, MsgErrNoTiming, edidPath).WithDetail("path", edidPath)
				}
				width, height = timing.Width, timing.Height
			}

			mode, ok := a.resolverFor().Resolve(cmd.Context(), width, height, refresh, edidPath)
			if !ok {
				return errors.Newf(errors.ErrToolFailed, MsgErrNoModeline, width, height, refresh)
			}
			printf(cmd.OutOrStdout(), "%s\n", mode)
			return nil
		},
	}
	cmd.Flags().StringVar(&edidPath, "edid", "", MsgFlagEdid)
	_ = cmd.MarkFlagFilename("edid")
	return cmd
}

func parseDimension(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, errors.Newf(errors.ErrInvalidInput, MsgErrInvalidSize, name, value)
	}
	return n, nil
}
