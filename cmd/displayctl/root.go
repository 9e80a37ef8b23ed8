package displayctl

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/textyre/bootstrap/internal/version"
	"github.com/textyre/bootstrap/pkg/logging"
)

// session lazily builds the app once flags are parsed
type session struct {
	deps       Deps
	verbosity  int
	configPath string
	sourceRoot string
	app        *app
}

func (s *session) load() (*app, error) {
	if s.app != nil {
		return s.app, nil
	}
	deps := s.deps
	if s.configPath != "" {
		deps.ConfigPath = s.configPath
	}
	overrides := map[string]interface{}{}
	if s.sourceRoot != "" {
		overrides["paths.source_root"] = s.sourceRoot
	}
	a, err := newApp(deps, overrides)
	if err != nil {
		return nil, err
	}
	s.app = a
	return a, nil
}

// NewRootCmd creates the root command acting on the real system
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithDeps(SystemDeps())
}

// NewRootCmdWithDeps creates the root command over deps
func NewRootCmdWithDeps(deps Deps) *cobra.Command {
	initTemplateFormatting()

	s := &session{deps: deps}

	rootCmd := &cobra.Command{
		Use:     "displayctl",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(s.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&s.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&s.configPath, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&s.sourceRoot, "source-root", "", MsgFlagSourceRoot)

	rootCmd.AddGroup(&cobra.Group{ID: "display", Title: "DISPLAY:"})
	rootCmd.AddGroup(&cobra.Group{ID: "system", Title: "SYSTEM:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newInfoCmd(s))
	rootCmd.AddCommand(newGenerateCmd(s))
	rootCmd.AddCommand(newInjectCmd(s))
	rootCmd.AddCommand(newModelineCmd(s))
	rootCmd.AddCommand(newReconcileCmd(s))
	rootCmd.AddCommand(newDoctorCmd(s))
	rootCmd.AddCommand(newConfigCmd(s))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}
