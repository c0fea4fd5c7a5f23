package tui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cboddy/i3-workspace-names-daemon/internal/control/client"
	"github.com/cboddy/i3-workspace-names-daemon/internal/state"
	"github.com/cboddy/i3-workspace-names-daemon/internal/util"
)

const (
	defaultRefresh = time.Second
	titleWidth     = 40
	historyRows    = 5
)

// StatusSource reports the daemon status. *client.Client satisfies it.
type StatusSource interface {
	Status(ctx context.Context) (client.Status, error)
}

// Renderer periodically polls the daemon and renders a refreshing status view.
type Renderer struct {
	Source  StatusSource
	Writer  io.Writer
	Refresh time.Duration
}

// New returns a renderer configured with sensible defaults.
func New(src StatusSource, w io.Writer) *Renderer {
	return &Renderer{Source: src, Writer: w, Refresh: defaultRefresh}
}

// Run starts the render loop until the context is cancelled.
func (r *Renderer) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.Writer == nil {
		r.Writer = os.Stdout
	}
	if r.Source == nil {
		return fmt.Errorf("status view requires a status source")
	}

	refresh := r.Refresh
	if refresh <= 0 {
		refresh = defaultRefresh
	}

	ticker := time.NewTicker(refresh)
	defer ticker.Stop()

	fmt.Fprint(r.Writer, "\033[?25l")
	defer fmt.Fprint(r.Writer, "\033[?25h")

	r.render(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.render(ctx)
		}
	}
}

func (r *Renderer) render(ctx context.Context) {
	status, err := r.Source.Status(ctx)

	var buf bytes.Buffer
	buf.WriteString("\033[H\033[2J")
	buf.WriteString("i3names status, Ctrl+C to exit\n")
	buf.WriteString(time.Now().Format(time.RFC1123))
	buf.WriteString("\n\n")

	if err != nil {
		buf.WriteString(fmt.Sprintf("error: %v\n", err))
		fmt.Fprint(r.Writer, buf.String())
		return
	}
	buf.WriteString(Render(status))
	fmt.Fprint(r.Writer, buf.String())
}

// Render formats one status snapshot.
func Render(status client.Status) string {
	var b strings.Builder
	b.WriteString(formatRules(status))
	b.WriteByte('\n')
	if status.World == nil {
		b.WriteString("Waiting for daemon to publish world snapshot...\n")
		return b.String()
	}
	b.WriteString(renderWorkspaces(status.World))
	b.WriteString(renderWindows(status.World))
	b.WriteString(renderHistory(status.History))
	return b.String()
}

func formatRules(status client.Status) string {
	var b strings.Builder
	path := status.ConfigPath
	if path == "" {
		path = "(built-in defaults)"
	}
	b.WriteString(fmt.Sprintf("Rules: %d from %s\n", status.Rules, path))
	if len(status.Disabled) > 0 {
		b.WriteString("Disabled: ")
		b.WriteString(strings.Join(status.Disabled, ", "))
		b.WriteByte('\n')
	}
	if status.DryRun {
		b.WriteString("Dry run: renames are logged, not sent\n")
	}
	return b.String()
}

func renderWorkspaces(world *state.World) string {
	var b strings.Builder
	b.WriteString("Workspaces:\n")
	if len(world.Workspaces) == 0 {
		b.WriteString("  (none)\n\n")
		return b.String()
	}
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Num\tName\tWindows\tState")
	for _, ws := range world.Workspaces {
		num := fmt.Sprintf("%d", ws.Num)
		if ws.Named() {
			num = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", num, ws.Name, len(ws.Windows), workspaceState(ws))
	}
	tw.Flush()
	b.WriteByte('\n')
	return b.String()
}

func renderWindows(world *state.World) string {
	var b strings.Builder
	b.WriteString("Windows:\n")
	if world.WindowCount() == 0 {
		b.WriteString("  (none)\n\n")
		return b.String()
	}
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Workspace\tClass\tInstance\tTitle")
	for _, ws := range world.Workspaces {
		for _, win := range ws.Windows {
			title := win.Title
			if title == "" {
				title = win.Name
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ws.Name, orDash(win.Class), orDash(win.Instance), orDash(util.Truncate(title, titleWidth)))
		}
	}
	tw.Flush()
	b.WriteByte('\n')
	return b.String()
}

func renderHistory(history []client.RenameRecord) string {
	var b strings.Builder
	b.WriteString("Recent renames:\n")
	if len(history) == 0 {
		b.WriteString("  (none)\n")
		return b.String()
	}
	if len(history) > historyRows {
		history = history[len(history)-historyRows:]
	}
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Time\tStatus\tReason\tDetail")
	for i := len(history) - 1; i >= 0; i-- {
		rec := history[i]
		detail := rec.Command
		if rec.Error != "" {
			detail = rec.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rec.Timestamp.Format(time.TimeOnly), rec.Status, rec.Reason, detail)
	}
	tw.Flush()
	return b.String()
}

func workspaceState(ws state.Workspace) string {
	var parts []string
	if ws.Focused {
		parts = append(parts, "focused")
	} else if ws.Visible {
		parts = append(parts, "visible")
	}
	if ws.Named() {
		parts = append(parts, "named")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
