package state

import (
	"context"
)

// Field names one of the window properties rules can match against.
type Field string

const (
	FieldName     Field = "name"
	FieldTitle    Field = "window_title"
	FieldInstance Field = "window_instance"
	FieldClass    Field = "window_class"
)

// Fields lists window fields in matching priority order.
var Fields = []Field{FieldName, FieldTitle, FieldInstance, FieldClass}

// ParseField converts a configuration field name into a Field.
func ParseField(s string) (Field, bool) {
	for _, f := range Fields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// Window describes an i3 window leaf. Any field may be empty.
type Window struct {
	Name     string `json:"name,omitempty"`
	Title    string `json:"windowTitle,omitempty"`
	Instance string `json:"windowInstance,omitempty"`
	Class    string `json:"windowClass,omitempty"`
}

// Value returns the window property named by f.
func (w Window) Value(f Field) string {
	switch f {
	case FieldName:
		return w.Name
	case FieldTitle:
		return w.Title
	case FieldInstance:
		return w.Instance
	case FieldClass:
		return w.Class
	default:
		return ""
	}
}

// FirstValue returns the first non-empty field in priority order.
func (w Window) FirstValue() (Field, string, bool) {
	for _, f := range Fields {
		if v := w.Value(f); v != "" {
			return f, v, true
		}
	}
	return "", "", false
}

// Workspace describes an i3 workspace with its windows in tree order.
type Workspace struct {
	// Num is negative for named workspaces, which are never renamed.
	Num     int      `json:"num"`
	Name    string   `json:"name"`
	Visible bool     `json:"visible"`
	Focused bool     `json:"focused"`
	Windows []Window `json:"windows,omitempty"`
}

// Named reports whether the workspace has no number.
func (ws Workspace) Named() bool {
	return ws.Num < 0
}

// TreeWorkspace is a workspace as seen in the layout tree, which carries no
// visibility information.
type TreeWorkspace struct {
	Name    string
	Windows []Window
}

// WorkspaceStatus is the per-workspace number, visibility and focus report.
type WorkspaceStatus struct {
	Num     int
	Name    string
	Visible bool
	Focused bool
}

// World represents the current snapshot of i3.
type World struct {
	Workspaces []Workspace `json:"workspaces"`
}

// DataSource abstracts queries required to build the world snapshot.
type DataSource interface {
	ListTreeWorkspaces(ctx context.Context) ([]TreeWorkspace, error)
	ListWorkspaceStatus(ctx context.Context) ([]WorkspaceStatus, error)
}

// NewWorld creates a world snapshot using the provided data source. Tree
// workspaces are kept in tree order and joined with their status by name;
// a workspace missing from the status report is treated as named.
func NewWorld(ctx context.Context, src DataSource) (*World, error) {
	tree, err := src.ListTreeWorkspaces(ctx)
	if err != nil {
		return nil, err
	}
	statuses, err := src.ListWorkspaceStatus(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]WorkspaceStatus, len(statuses))
	for _, st := range statuses {
		byName[st.Name] = st
	}
	world := &World{Workspaces: make([]Workspace, 0, len(tree))}
	for _, tw := range tree {
		ws := Workspace{Num: -1, Name: tw.Name, Windows: tw.Windows}
		if st, ok := byName[tw.Name]; ok {
			ws.Num = st.Num
			ws.Visible = st.Visible
			ws.Focused = st.Focused
		}
		world.Workspaces = append(world.Workspaces, ws)
	}
	return world, nil
}

// WorkspaceByName finds a workspace by its current name.
func (w *World) WorkspaceByName(name string) *Workspace {
	for i := range w.Workspaces {
		if w.Workspaces[i].Name == name {
			return &w.Workspaces[i]
		}
	}
	return nil
}

// FocusedWorkspace returns the focused workspace if present.
func (w *World) FocusedWorkspace() *Workspace {
	for i := range w.Workspaces {
		if w.Workspaces[i].Focused {
			return &w.Workspaces[i]
		}
	}
	return nil
}

// WindowCount returns the number of windows across all workspaces.
func (w *World) WindowCount() int {
	n := 0
	for _, ws := range w.Workspaces {
		n += len(ws.Windows)
	}
	return n
}

// CloneWorld returns a deep copy of the provided world snapshot.
func CloneWorld(src *World) *World {
	if src == nil {
		return nil
	}
	copyWorld := &World{}
	if len(src.Workspaces) > 0 {
		copyWorld.Workspaces = make([]Workspace, len(src.Workspaces))
		for i, ws := range src.Workspaces {
			ws.Windows = append([]Window(nil), ws.Windows...)
			copyWorld.Workspaces[i] = ws
		}
	}
	return copyWorld
}
