package grpc

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name reported alongside the overall ("")
// status.
const ServiceName = "campuspay.Ledger"

// LedgerStatus reports whether the ledger connection is usable.
type LedgerStatus interface {
	Connected() bool
}

// Server serves grpc.health.v1 backed by LedgerStatus.
type Server struct {
	mu sync.RWMutex

	grpcServer *grpc.Server
	health     *health.Server
	ledger     LedgerStatus
	config     *ServerConfig
	logger     *zap.Logger

	listener net.Listener
	serving  bool
}

// NewServer creates a gRPC server. A nil cfg uses DefaultServerConfig.
func NewServer(cfg *ServerConfig, ledger LedgerStatus, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		cfg = DefaultServerConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ledger == nil {
		return nil, errors.New("ledger status is required")
	}
	logger = logger.Named("grpc")

	grpcServer := grpc.NewServer(
		grpc.MaxRecvMsgSize(cfg.MaxRecvMsgSize),
		grpc.MaxSendMsgSize(cfg.MaxSendMsgSize),
		grpc.UnaryInterceptor(unaryLogger(logger)),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	reflection.Register(grpcServer)

	s := &Server{
		grpcServer: grpcServer,
		health:     hs,
		ledger:     ledger,
		config:     cfg,
		logger:     logger,
	}
	s.refresh()
	return s, nil
}

// refresh copies the ledger state into the health server.
func (s *Server) refresh() healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if s.ledger.Connected() {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.mu.Lock()
	changed := s.serving != (status == healthpb.HealthCheckResponse_SERVING)
	s.serving = status == healthpb.HealthCheckResponse_SERVING
	s.mu.Unlock()

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	if changed {
		s.logger.Info("health status changed", zap.String("status", status.String()))
	}
	return status
}

// Health returns the health server, mainly for in-process checks.
func (s *Server) Health() healthpb.HealthServer {
	return s.health
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln, polling ledger connectivity, until ctx is done. It then
// marks every service NOT_SERVING and stops gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.listener != nil {
		s.mu.Unlock()
		return errors.New("server is already running")
	}
	s.listener = ln
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("grpc server listening", zap.String("addr", ln.Addr().String()))
		errCh <- s.grpcServer.Serve(ln)
	}()

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case err := <-errCh:
			if errors.Is(err, grpc.ErrServerStopped) {
				return nil
			}
			return err
		case <-ticker.C:
			s.refresh()
		case <-ctx.Done():
			s.health.Shutdown()
			s.grpcServer.GracefulStop()
			s.logger.Info("grpc server stopped")
			return nil
		}
	}
}

// Address returns the listening address, or "" before Serve.
func (s *Server) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func unaryLogger(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Debug("grpc call",
			zap.String("method", info.FullMethod),
			zap.Duration("took", time.Since(start)),
			zap.Error(err))
		return resp, err
	}
}
