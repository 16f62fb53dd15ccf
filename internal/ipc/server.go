package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"shelver/internal/api"
	"shelver/internal/daemon"
	"shelver/internal/logging"
	"shelver/internal/records"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}
	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	svc := &service{daemon: d, ctx: ctx}
	if err := rpcServer.RegisterName("Shelver", svc); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("ipc server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String(logging.FieldErrorHint, "check socket permissions and restart the daemon if needed"),
				)
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the socket file manually"),
		)
	}
}

// service implements the RPC methods. net/rpc requires the
// (request, *response) error shape.
type service struct {
	daemon *daemon.Daemon
	ctx    context.Context
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	*resp = s.daemon.Status(s.ctx)
	return nil
}

func (s *service) Enqueue(req EnqueueRequest, resp *EnqueueResponse) error {
	if len(req.Paths) == 0 {
		return errors.New("paths is required")
	}
	ids, err := s.daemon.Enqueue(s.ctx, req.Paths)
	if err != nil {
		return err
	}
	resp.IDs = ids
	return nil
}

func (s *service) RecordList(req RecordListRequest, resp *RecordListResponse) error {
	var statuses []records.Status
	for _, value := range req.Statuses {
		status, ok := records.ParseStatus(value)
		if !ok {
			return fmt.Errorf("unknown status %q", value)
		}
		statuses = append(statuses, status)
	}
	views, err := s.daemon.Records().List(s.ctx, statuses...)
	if err != nil {
		return err
	}
	resp.Records = views
	return nil
}

func (s *service) RecordDescribe(req RecordDescribeRequest, resp *RecordDescribeResponse) error {
	view, err := s.daemon.Records().Describe(s.ctx, req.ID)
	if err != nil {
		return err
	}
	if view == nil {
		return fmt.Errorf("record %s not found", req.ID)
	}
	resp.Record = *view
	return nil
}

func (s *service) Clear(req ClearRequest, resp *ClearResponse) error {
	removed, err := s.daemon.Records().Clear(s.ctx, api.ClearScope(req.Scope))
	if err != nil {
		return err
	}
	resp.Removed = removed
	return nil
}

func (s *service) Analytics(_ AnalyticsRequest, resp *AnalyticsResponse) error {
	view, err := s.daemon.Analytics(s.ctx)
	if err != nil {
		return err
	}
	*resp = view
	return nil
}
