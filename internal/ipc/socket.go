package ipc

import (
	"os"

	"go.i3wm.org/i3/v4"
)

// SocketEnv names the environment variable i3 exports with its IPC socket.
const SocketEnv = "I3SOCK"

// UseSocket points the i3 IPC library at an explicit socket path. An empty
// path falls back to $I3SOCK and then to asking the i3 binary.
func UseSocket(path string) string {
	path = resolveSocketPath(path)
	if path == "" {
		return ""
	}
	i3.SocketPathHook = func() (string, error) { return path, nil }
	return path
}

func resolveSocketPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return os.Getenv(SocketEnv)
}
