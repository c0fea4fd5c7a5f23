package engine

import (
	"strconv"
	"strings"

	"github.com/cboddy/i3-workspace-names-daemon/internal/config"
	"github.com/cboddy/i3-workspace-names-daemon/internal/rules"
	"github.com/cboddy/i3-workspace-names-daemon/internal/state"
)

// Resolver labels a single window.
type Resolver interface {
	Resolve(w state.Window) rules.Resolution
}

// Rename is a single workspace rename. Names are already escaped for i3.
type Rename struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WindowLabel records how one window was labelled.
type WindowLabel struct {
	Workspace  int              `json:"workspace"`
	Window     state.Window     `json:"window"`
	Resolution rules.Resolution `json:"resolution"`
}

// Plan is the batch produced for one snapshot. Names maps each numbered
// workspace's current name to its computed name.
type Plan struct {
	Renames     []Rename          `json:"renames,omitempty"`
	Activations []string          `json:"activations,omitempty"`
	Names       map[string]string `json:"names,omitempty"`
	Labels      []WindowLabel     `json:"labels,omitempty"`
}

// Empty reports whether the plan would rename nothing.
func (p Plan) Empty() bool {
	return len(p.Renames) == 0
}

// Command renders the plan as one i3 command batch.
func (p Plan) Command() string {
	parts := make([]string, 0, len(p.Renames)+len(p.Activations))
	for _, r := range p.Renames {
		parts = append(parts, `rename workspace "`+r.From+`" to "`+r.To+`"`)
	}
	for _, name := range p.Activations {
		parts = append(parts, `workspace "`+escapeQuotes(name)+`"`)
	}
	return strings.Join(parts, ";")
}

// BuildPlan computes the new name of every numbered workspace and the
// activations that keep the visible and focused workspaces in place.
func BuildPlan(workspaces []state.Workspace, resolver Resolver, opts config.Options) Plan {
	plan := Plan{Names: make(map[string]string)}
	var focused string
	var haveFocused bool
	for _, ws := range workspaces {
		if ws.Named() {
			continue
		}
		labels := make([]string, 0, len(ws.Windows))
		for _, w := range ws.Windows {
			res := resolver.Resolve(w)
			plan.Labels = append(plan.Labels, WindowLabel{Workspace: ws.Num, Window: w, Resolution: res})
			if res.Unknown {
				continue
			}
			labels = append(labels, res.Label)
		}
		if opts.Uniq {
			labels = uniq(labels)
		}
		labels = dropEmpty(labels)

		name := strconv.Itoa(ws.Num)
		if joined := strings.Join(labels, opts.Delimiter); joined != "" {
			name += ": " + joined
		}
		plan.Names[ws.Name] = name

		if ws.Visible {
			plan.Activations = append(plan.Activations, name)
		}
		if ws.Focused {
			focused, haveFocused = name, true
		}
		if name != ws.Name {
			plan.Renames = append(plan.Renames, Rename{From: escapeQuotes(ws.Name), To: escapeQuotes(name)})
		}
	}
	if haveFocused {
		plan.Activations = append(plan.Activations, focused)
	}
	return plan
}

func uniq(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := labels[:0]
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

func dropEmpty(labels []string) []string {
	out := labels[:0]
	for _, l := range labels {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// escapeQuotes makes s safe inside a double-quoted i3 command argument.
func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
