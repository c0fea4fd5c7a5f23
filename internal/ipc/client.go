package ipc

import (
	"context"
	"fmt"
	"strings"

	"go.i3wm.org/i3/v4"

	"github.com/cboddy/i3-workspace-names-daemon/internal/state"
)

// Client queries i3 over its IPC socket.
type Client struct {
	getTree       func() (i3.Tree, error)
	getWorkspaces func() ([]i3.Workspace, error)
	runCommand    func(string) ([]i3.CommandResult, error)
}

// NewClient returns a client talking to the running i3 instance.
func NewClient() *Client {
	return &Client{
		getTree:       i3.GetTree,
		getWorkspaces: i3.GetWorkspaces,
		runCommand:    i3.RunCommand,
	}
}

// ListTreeWorkspaces returns every workspace in the layout tree with its
// windows, tiling and floating, in tree order.
func (c *Client) ListTreeWorkspaces(ctx context.Context) ([]state.TreeWorkspace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tree, err := c.getTree()
	if err != nil {
		return nil, fmt.Errorf("get tree: %w", err)
	}
	return treeWorkspaces(tree.Root), nil
}

// ListWorkspaceStatus returns number, visibility and focus per workspace.
func (c *Client) ListWorkspaceStatus(ctx context.Context) ([]state.WorkspaceStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := c.getWorkspaces()
	if err != nil {
		return nil, fmt.Errorf("get workspaces: %w", err)
	}
	out := make([]state.WorkspaceStatus, 0, len(raw))
	for _, ws := range raw {
		out = append(out, state.WorkspaceStatus{
			Num:     int(ws.Num),
			Name:    ws.Name,
			Visible: ws.Visible,
			Focused: ws.Focused,
		})
	}
	return out, nil
}

// Workspaces returns a joined snapshot of all workspaces.
func (c *Client) Workspaces(ctx context.Context) ([]state.Workspace, error) {
	world, err := state.NewWorld(ctx, c)
	if err != nil {
		return nil, err
	}
	return world.Workspaces, nil
}

// RunCommand executes one command batch. The first failing command in the
// batch is reported.
func (c *Client) RunCommand(ctx context.Context, command string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	results, err := c.runCommand(command)
	if err != nil {
		return fmt.Errorf("run command: %w", err)
	}
	for i, res := range results {
		if !res.Success {
			return fmt.Errorf("run command: part %d failed: %s", i, res.Error)
		}
	}
	return nil
}

// treeWorkspaces walks the tree breadth first. Internal workspaces such as
// the scratchpad are skipped.
func treeWorkspaces(root *i3.Node) []state.TreeWorkspace {
	var out []state.TreeWorkspace
	if root == nil {
		return out
	}
	queue := []*i3.Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.Type == i3.WorkspaceNode {
			if !strings.HasPrefix(n.Name, "__") {
				out = append(out, state.TreeWorkspace{Name: n.Name, Windows: leaves(n)})
			}
			continue
		}
		queue = append(queue, n.Nodes...)
		queue = append(queue, n.FloatingNodes...)
	}
	return out
}

func leaves(ws *i3.Node) []state.Window {
	var out []state.Window
	queue := append(append([]*i3.Node(nil), ws.Nodes...), ws.FloatingNodes...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.Type == i3.Con && len(n.Nodes) == 0 {
			out = append(out, windowFromNode(n))
		}
		queue = append(queue, n.Nodes...)
		queue = append(queue, n.FloatingNodes...)
	}
	return out
}

func windowFromNode(n *i3.Node) state.Window {
	return state.Window{
		Name:     n.Name,
		Title:    n.WindowProperties.Title,
		Instance: n.WindowProperties.Instance,
		Class:    n.WindowProperties.Class,
	}
}

var _ state.DataSource = (*Client)(nil)
