package displayctl

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Configure X11 displays and the LightDM display hook"
	MsgInfoShort       = "Show connected monitors and their best resolution"
	MsgGenerateShort   = "Print the xrandr commands for the connected monitors"
	MsgInjectShort     = "Write the display block into the X init script"
	MsgModelineShort   = "Compute a mode line for a resolution"
	MsgReconcileShort  = "Deploy the LightDM display files where they drifted"
	MsgDoctorShort     = "Check that required session binaries are installed"
	MsgConfigShort     = "Inspect displayctl configuration"
	MsgConfigDumpShort = "Print the effective configuration as TOML"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgInjected          = "✓ %s updated successfully\n"
	MsgNoCommands        = "No commands generated."
	MsgReconcileWatching = "Watching %s for changes (Ctrl-C to stop)\n"

	// Error messages
	MsgErrInject       = "failed to update %s"
	MsgErrNoModeline   = "no timing tool produced a mode line for %dx%d@%d"
	MsgErrInvalidSize  = "invalid %s %q: must be a non-negative integer"
	MsgErrNotCompliant = "%d managed file(s) not compliant"
	MsgErrMissingBins  = "%d required binaries missing"
	MsgErrNoHome       = "cannot resolve home directory for user %s"
	MsgErrNoTiming     = "no preferred timing in %s"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig     = "Config file (default $XDG_CONFIG_HOME/displayctl/config.toml)"
	MsgFlagSourceRoot = "Source-of-truth root (default $DOTFILES_ROOT or ~/dotfiles)"
	MsgFlagFormat     = "Output format: auto, term, text, json, yaml, markdown"
	MsgFlagXinitrc    = "X init script to patch (default <source_root>/dot_xinitrc)"
	MsgFlagEdid       = "EDID file; its preferred refresh wins, and its size when WIDTH and HEIGHT are 0"
	MsgFlagCheck      = "Report drift without deploying"
	MsgFlagWatch      = "Keep running and reconcile again when sources change"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/inject-long.txt
	msgInjectLongRaw string
	MsgInjectLong    = strings.TrimSpace(msgInjectLongRaw)

	//go:embed msgs/inject-example.txt
	msgInjectExampleRaw string
	MsgInjectExample    = strings.TrimRight(msgInjectExampleRaw, "\n")

	//go:embed msgs/reconcile-long.txt
	msgReconcileLongRaw string
	MsgReconcileLong    = strings.TrimSpace(msgReconcileLongRaw)

	//go:embed msgs/reconcile-example.txt
	msgReconcileExampleRaw string
	MsgReconcileExample    = strings.TrimRight(msgReconcileExampleRaw, "\n")

	//go:embed msgs/modeline-example.txt
	msgModelineExampleRaw string
	MsgModelineExample    = strings.TrimRight(msgModelineExampleRaw, "\n")

	//go:embed msgs/doctor-long.txt
	msgDoctorLongRaw string
	MsgDoctorLong    = strings.TrimSpace(msgDoctorLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
