package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/cboddy/i3-workspace-names-daemon/internal/engine"
	"github.com/cboddy/i3-workspace-names-daemon/internal/util"
)

// Server hosts the daemon control socket and serves requests.
type Server struct {
	engine     *engine.Engine
	logger     *util.Logger
	reload     func(reason string) error
	configPath func() string
	socketPath string

	mu       sync.Mutex
	listener net.Listener
}

// NewServer creates a new control server. reload and configPath may be nil.
func NewServer(eng *engine.Engine, logger *util.Logger, reload func(reason string) error, configPath func() string) (*Server, error) {
	path, err := DefaultSocketPath()
	if err != nil {
		return nil, err
	}
	return &Server{
		engine:     eng,
		logger:     logger,
		reload:     reload,
		configPath: configPath,
		socketPath: path,
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Serve listens on the control socket until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.prepareSocket(); err != nil {
		return err
	}
	s.logger.Infof("control server listening on %s", s.socketPath)
	defer s.cleanup()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		if s.listener != nil {
			s.listener.Close()
		}
		s.mu.Unlock()
	}()

	for {
		conn, err := s.accept(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			s.logger.Errorf("control accept error: %v", err)
			continue
		}
		go s.handle(ctx, conn)
	}
}

func (s *Server) accept(ctx context.Context) (net.Conn, error) {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return nil, context.Canceled
	}
	conn, err := listener.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return conn, nil
}

func (s *Server) prepareSocket() error {
	dir := filepath.Dir(s.socketPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create control dir: %w", err)
	}
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale socket: %w", err)
	}
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listen on control socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		listener.Close()
		return fmt.Errorf("chmod control socket: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	return nil
}

func (s *Server) cleanup() {
	s.mu.Lock()
	listener := s.listener
	s.listener = nil
	s.mu.Unlock()
	if listener != nil {
		listener.Close()
	}
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warnf("remove control socket: %v", err)
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	var req Request
	if err := json.NewDecoder(conn).Decode(&req); err != nil {
		s.writeError(conn, fmt.Errorf("decode request: %w", err))
		return
	}
	s.logger.Debugf("control request %q", req.Action)
	switch req.Action {
	case ActionStatus:
		s.handleStatus(conn)
	case ActionPlan:
		s.handlePlan(ctx, conn)
	case ActionReload:
		s.handleReload(ctx, conn)
	case ActionMetrics:
		s.writeOK(conn, s.engine.Metrics().Snapshot())
	default:
		s.writeError(conn, fmt.Errorf("unknown action %q", req.Action))
	}
}

func (s *Server) handleStatus(conn net.Conn) {
	table := s.engine.Table()
	opts := table.Options()
	status := Status{
		DryRun:   s.engine.DryRun(),
		Rules:    len(table.Entries()),
		Disabled: table.Disabled(),
		Options: Options{
			Delimiter:          opts.Delimiter,
			MaxTitleLength:     opts.MaxTitleLength,
			Uniq:               opts.Uniq,
			IgnoreUnknown:      opts.IgnoreUnknown,
			NoMatchNotShowName: opts.NoMatchNotShowName,
		},
		World: s.engine.LastWorld(),
	}
	if s.configPath != nil {
		status.ConfigPath = s.configPath()
	}
	for _, rec := range s.engine.RenameHistory() {
		status.History = append(status.History, RenameRecord{
			Timestamp: rec.Timestamp,
			Reason:    rec.Reason,
			Status:    string(rec.Status),
			Command:   rec.Command,
			Error:     rec.Error,
		})
	}
	s.writeOK(conn, status)
}

func (s *Server) handlePlan(ctx context.Context, conn net.Conn) {
	plan, err := s.engine.PreviewPlan(ctx)
	if err != nil {
		s.writeError(conn, err)
		return
	}
	s.writeOK(conn, planResult(plan))
}

func planResult(plan engine.Plan) PlanResult {
	result := PlanResult{Activations: plan.Activations}
	if !plan.Empty() {
		result.Command = plan.Command()
	}
	for _, r := range plan.Renames {
		result.Renames = append(result.Renames, Rename{From: r.From, To: r.To})
	}
	for _, l := range plan.Labels {
		res := l.Resolution
		result.Labels = append(result.Labels, Label{
			Workspace: l.Workspace,
			Window:    l.Window,
			Label:     res.Label,
			Field:     string(res.Field),
			Pattern:   res.Pattern,
			Fallback:  res.Fallback,
			Unknown:   res.Unknown,
		})
	}
	return result
}

func (s *Server) handleReload(ctx context.Context, conn net.Conn) {
	if s.reload == nil {
		s.writeError(conn, errors.New("reload not supported"))
		return
	}
	if err := s.reload("control request"); err != nil {
		s.writeError(conn, err)
		return
	}
	if err := s.engine.Reconcile(ctx); err != nil {
		s.logger.Errorf("rename after reload failed: %v", err)
		s.writeError(conn, fmt.Errorf("rename after reload: %w", err))
		return
	}
	s.writeOK(conn, nil)
}

func (s *Server) writeOK(conn net.Conn, data any) {
	resp := Response{Status: StatusOK}
	if data != nil {
		resp.Data = data
	}
	_ = json.NewEncoder(conn).Encode(resp)
}

func (s *Server) writeError(conn net.Conn, err error) {
	resp := Response{Status: StatusError}
	if err != nil {
		resp.Error = err.Error()
	}
	_ = json.NewEncoder(conn).Encode(resp)
}
