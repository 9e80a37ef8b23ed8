package displayctl

import (
	"github.com/spf13/cobra"

	"github.com/textyre/bootstrap/internal/version"
	"github.com/textyre/bootstrap/pkg/config"
	"github.com/textyre/bootstrap/pkg/errors"
	"github.com/textyre/bootstrap/pkg/preflight"
	"github.com/textyre/bootstrap/pkg/report"
)

func newDoctorCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "doctor [binaries...]",
		Short:   MsgDoctorShort,
		Long:    MsgDoctorLong,
		GroupID: "system",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.load()
			if err != nil {
				return err
			}
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			binaries := args
			if len(binaries) == 0 {
				binaries = a.cfg.Preflight.Binaries
			}
			result := preflight.NewChecker(a.deps.Runner, a.cfg.Preflight.Packages).Check(binaries)
			if err := report.RenderDoctor(cmd.OutOrStdout(), format, report.FromPreflight(result)); err != nil {
				return err
			}
			if !result.OK() {
				return &ExitError{
					Code: preflight.ExitMissing,
					Err:  errors.Newf(errors.ErrToolMissing, MsgErrMissingBins, len(result.Missing())),
				}
			}
			return nil
		},
	}
	addFormatFlag(cmd)
	return cmd
}

func newConfigCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: MsgConfigDumpShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.load()
			if err != nil {
				return err
			}
			out, err := config.Dump(a.cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printf(cmd.OutOrStdout(), "%s", version.String())
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
