package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cboddy/i3-workspace-names-daemon/internal/config"
	"github.com/cboddy/i3-workspace-names-daemon/internal/control/client"
	"github.com/cboddy/i3-workspace-names-daemon/internal/icons"
	"github.com/cboddy/i3-workspace-names-daemon/internal/state"
	"github.com/cboddy/i3-workspace-names-daemon/internal/ui/tui"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [path]",
		Short: "Validate a rule file",
		Long:  "Validate a rule file. Without a path the file the daemon would load is checked.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runCheck(args []string, stdout io.Writer, stderr io.Writer) error {
	explicit := ""
	if len(args) > 0 {
		explicit = args[0]
	}
	path, err := config.Locate(explicit)
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintln(stdout, "No rule file found, the built-in defaults apply")
		return nil
	}

	lintErrs, err := config.LintFile(path, icons.Default())
	if err != nil {
		return err
	}
	if len(lintErrs) == 0 {
		fmt.Fprintln(stdout, "Configuration OK")
		return nil
	}

	fmt.Fprintf(stderr, "Configuration has %d issue(s):\n", len(lintErrs))
	for _, lintErr := range lintErrs {
		fmt.Fprintf(stderr, "- %s\n", lintErr.Error())
	}
	return fmt.Errorf("configuration validation failed")
}

func newIconsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "icons [filter]",
		Short: "List the built-in icon identifiers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) > 0 {
				filter = args[0]
			}
			return runIcons(filter, cmd.OutOrStdout())
		},
	}
}

func runIcons(filter string, stdout io.Writer) error {
	table := icons.Default()
	names := table.Names(filter)
	if len(names) == 0 {
		return fmt.Errorf("no icon matches %q", filter)
	}
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for _, name := range names {
		glyph, _ := table.Lookup(name)
		fmt.Fprintf(w, "%s\t%s\n", glyph, name)
	}
	return w.Flush()
}

type controlFlags struct {
	socket  string
	timeout time.Duration
}

func (f *controlFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.socket, "socket", "", "path to the i3names control socket")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 3*time.Second, "control request timeout")
}

// connect builds a control client and a request context bounded by the
// configured timeout.
func (f *controlFlags) connect(parent context.Context) (*client.Client, context.Context, context.CancelFunc, error) {
	cli, err := client.New(f.socket)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create client: %w", err)
	}
	if parent == nil {
		parent = context.Background()
	}
	if f.timeout <= 0 {
		ctx, cancel := context.WithCancel(parent)
		return cli, ctx, cancel, nil
	}
	ctx, cancel := context.WithTimeout(parent, f.timeout)
	return cli, ctx, cancel, nil
}

func newPlanCmd() *cobra.Command {
	var flags controlFlags
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the renames the daemon would send next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, ctx, cancel, err := flags.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer cancel()
			result, err := cli.Plan(ctx)
			if err != nil {
				return err
			}
			printPlan(cmd.OutOrStdout(), result)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func printPlan(w io.Writer, result client.PlanResult) {
	for _, l := range result.Labels {
		label := l.Label
		if l.Unknown {
			label = "(hidden)"
		}
		source := "fallback"
		if l.Pattern != "" {
			source = "rule " + l.Pattern
		}
		value := l.Window.Value(state.Field(l.Field))
		fmt.Fprintf(w, "workspace %d: %s=%q -> %s (%s)\n", l.Workspace, l.Field, value, label, source)
	}
	if len(result.Renames) == 0 {
		fmt.Fprintln(w, "No pending renames")
		return
	}
	for _, r := range result.Renames {
		fmt.Fprintf(w, "rename: \"%s\" -> \"%s\"\n", r.From, r.To)
	}
	if result.Command != "" {
		fmt.Fprintf(w, "command: %s\n", result.Command)
	}
}

func newReloadCmd() *cobra.Command {
	var flags controlFlags
	cmd := &cobra.Command{
		Use:   "reload",
		Short: "Reload the rule file and rename workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, ctx, cancel, err := flags.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer cancel()
			if err := cli.Reload(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Reload requested")
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newStatusCmd() *cobra.Command {
	var (
		flags   controlFlags
		watch   bool
		refresh time.Duration
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the daemon configuration and recent renames",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				return runStatusWatch(cmd.Context(), flags, refresh, cmd.OutOrStdout())
			}
			cli, ctx, cancel, err := flags.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer cancel()
			status, err := cli.Status(ctx)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), status)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep refreshing until interrupted")
	cmd.Flags().DurationVar(&refresh, "refresh", time.Second, "refresh interval with --watch")
	return cmd
}

func runStatusWatch(parent context.Context, flags controlFlags, refresh time.Duration, stdout io.Writer) error {
	cli, err := client.New(flags.socket)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	renderer := tui.New(timeoutSource{cli: cli, timeout: flags.timeout}, stdout)
	renderer.Refresh = refresh
	if err := renderer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printStatus(w io.Writer, status client.Status) {
	fmt.Fprintf(w, "Rule file: %s\n", describePath(status.ConfigPath))
	fmt.Fprintf(w, "Rules: %d", status.Rules)
	if len(status.Disabled) > 0 {
		fmt.Fprintf(w, " (%d disabled: %s)", len(status.Disabled), strings.Join(status.Disabled, ", "))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Delimiter: %q, max title length: %d\n", status.Options.Delimiter, status.Options.MaxTitleLength)
	if status.DryRun {
		fmt.Fprintln(w, "Dry run: batches are logged, not sent")
	}
	if status.World != nil {
		for _, ws := range status.World.Workspaces {
			marker := " "
			if ws.Focused {
				marker = "*"
			}
			fmt.Fprintf(w, "%s %s (%d windows)\n", marker, ws.Name, len(ws.Windows))
		}
	}
	if len(status.History) == 0 {
		return
	}
	fmt.Fprintln(w, "Recent renames:")
	for _, rec := range status.History {
		line := fmt.Sprintf("  %s %s (%s): %s", rec.Timestamp.Format(time.TimeOnly), rec.Status, rec.Reason, rec.Command)
		if rec.Error != "" {
			line += ": " + rec.Error
		}
		fmt.Fprintln(w, line)
	}
}

func newMetricsCmd() *cobra.Command {
	var flags controlFlags
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Print rule match and rename counters as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, ctx, cancel, err := flags.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer cancel()
			snap, err := cli.Metrics(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		},
	}
	flags.register(cmd)
	return cmd
}

// timeoutSource bounds each status poll by the request timeout.
type timeoutSource struct {
	cli     *client.Client
	timeout time.Duration
}

func (s timeoutSource) Status(ctx context.Context) (client.Status, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.cli.Status(ctx)
}
