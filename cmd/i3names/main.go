package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cboddy/i3-workspace-names-daemon/internal/config"
	"github.com/cboddy/i3-workspace-names-daemon/internal/engine"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type daemonFlags struct {
	configPath        string
	delimiter         string
	maxTitleLength    int
	uniq              bool
	ignoreUnknown     bool
	noMatchNoName     bool
	verbose           bool
	logLevel          string
	dryRun            bool
	i3Socket          string
	reconcileInterval time.Duration
	metrics           bool
	noControl         bool
}

func (f daemonFlags) options() config.Options {
	return config.Options{
		Delimiter:          f.delimiter,
		MaxTitleLength:     f.maxTitleLength,
		Uniq:               f.uniq,
		IgnoreUnknown:      f.ignoreUnknown,
		NoMatchNotShowName: f.noMatchNoName,
	}
}

func (f daemonFlags) level() string {
	if f.verbose && f.logLevel == "info" {
		return "debug"
	}
	return f.logLevel
}

func newRootCmd() *cobra.Command {
	var flags daemonFlags
	defaults := config.DefaultOptions()

	rootCmd := &cobra.Command{
		Use:   "i3names",
		Short: "Rename i3 workspaces after the windows they contain",
		Long: "i3names watches i3 window events and renames every workspace to\n" +
			"\"<num>: <labels>\". A window's name, title, instance and class are\n" +
			"tried in that order; the first property matched by any pattern in\n" +
			"app-icons.json picks the rule, the earliest matching pattern winning.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context(), flags)
		},
	}

	f := rootCmd.Flags()
	f.StringVarP(&flags.configPath, "config-path", "c", "", "path to the rule file (default: app-icons.json in the i3 config directory)")
	f.StringVarP(&flags.delimiter, "delimiter", "d", defaults.Delimiter, "text placed between window labels")
	f.IntVarP(&flags.maxTitleLength, "max-title-length", "l", defaults.MaxTitleLength, "truncate plain-text labels to this many characters")
	f.BoolVarP(&flags.uniq, "uniq", "u", false, "collapse repeated labels within a workspace")
	f.BoolVarP(&flags.ignoreUnknown, "ignore-unknown", "i", false, "leave unmatched windows out of workspace names")
	f.BoolVarP(&flags.noMatchNoName, "no-match-not-show-name", "n", false, "label unmatched windows with the fallback icon only")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "shorthand for --log-level=debug")
	f.StringVar(&flags.logLevel, "log-level", "info", "log level (trace|debug|info|warn|error)")
	f.BoolVar(&flags.dryRun, "dry-run", false, "log rename batches instead of sending them to i3")
	f.StringVar(&flags.i3Socket, "i3-socket", "", "path to the i3 IPC socket (default: $I3SOCK or i3 --get-socketpath)")
	f.DurationVar(&flags.reconcileInterval, "reconcile-interval", engine.DefaultReconcileInterval, "rename periodically even without window events (0 disables)")
	f.BoolVar(&flags.metrics, "metrics", true, "collect rule match counters for the metrics command")
	f.BoolVar(&flags.noControl, "no-control", false, "do not open the control socket")

	rootCmd.AddCommand(
		newCheckCmd(),
		newIconsCmd(),
		newPlanCmd(),
		newReloadCmd(),
		newStatusCmd(),
		newMetricsCmd(),
	)
	return rootCmd
}
