package control

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/cboddy/i3-workspace-names-daemon/internal/state"
)

const (
	// SocketFileName is the filename of the control socket within the runtime dir.
	SocketFileName = "control.sock"

	// SocketEnv overrides the control socket location.
	SocketEnv = "I3NAMES_CONTROL_SOCKET"

	// Action names supported by the control protocol.
	ActionStatus  = "status"
	ActionPlan    = "plan"
	ActionReload  = "reload"
	ActionMetrics = "metrics"

	// Response statuses.
	StatusOK    = "ok"
	StatusError = "error"
)

// Request represents a control API request.
type Request struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params,omitempty"`
}

// Response represents a control API response.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// Options mirrors the label options the daemon runs with.
type Options struct {
	Delimiter          string `json:"delimiter"`
	MaxTitleLength     int    `json:"maxTitleLength"`
	Uniq               bool   `json:"uniq,omitempty"`
	IgnoreUnknown      bool   `json:"ignoreUnknown,omitempty"`
	NoMatchNotShowName bool   `json:"noMatchNotShowName,omitempty"`
}

// RenameRecord mirrors one rename batch from the daemon history.
type RenameRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	Command   string    `json:"command"`
	Error     string    `json:"error,omitempty"`
}

// Status describes the running daemon.
type Status struct {
	ConfigPath string         `json:"configPath,omitempty"`
	DryRun     bool           `json:"dryRun,omitempty"`
	Rules      int            `json:"rules"`
	Disabled   []string       `json:"disabled,omitempty"`
	Options    Options        `json:"options"`
	World      *state.World   `json:"world,omitempty"`
	History    []RenameRecord `json:"history,omitempty"`
}

// Rename is a single planned workspace rename.
type Rename struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Label explains how a window was labelled.
type Label struct {
	Workspace int          `json:"workspace"`
	Window    state.Window `json:"window"`
	Label     string       `json:"label"`
	Field     string       `json:"field,omitempty"`
	Pattern   string       `json:"pattern,omitempty"`
	Fallback  bool         `json:"fallback,omitempty"`
	Unknown   bool         `json:"unknown,omitempty"`
}

// PlanResult is the batch the daemon would send for the current windows.
type PlanResult struct {
	Command     string   `json:"command,omitempty"`
	Renames     []Rename `json:"renames,omitempty"`
	Activations []string `json:"activations,omitempty"`
	Labels      []Label  `json:"labels,omitempty"`
}

// DefaultSocketPath returns the expected location of the control socket.
func DefaultSocketPath() (string, error) {
	if env := os.Getenv(SocketEnv); env != "" {
		return env, nil
	}
	base := os.Getenv("XDG_RUNTIME_DIR")
	if base == "" {
		base = os.TempDir()
		if base == "" {
			return "", errors.New("no runtime directory available")
		}
	}
	return filepath.Join(base, "i3names", SocketFileName), nil
}
