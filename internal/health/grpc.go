package health

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name clients can query besides the empty overall name.
const ServiceName = "inventory-api"

const refreshInterval = 10 * time.Second

// GRPCServer exposes the Checker through grpc.health.v1.Health.
type GRPCServer struct {
	address string
	checker *Checker
	health  *grpchealth.Server
	logger  *slog.Logger
}

func NewGRPCServer(address string, checker *Checker, logger *slog.Logger) *GRPCServer {
	return &GRPCServer{
		address: address,
		checker: checker,
		health:  grpchealth.NewServer(),
		logger:  logger.With("component", "grpc_health"),
	}
}

// Refresh runs the checks and publishes the resulting serving status.
func (s *GRPCServer) Refresh(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if failed := s.checker.Run(ctx); len(failed) > 0 {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		for name, err := range failed {
			s.logger.WarnContext(ctx, "health check failed", "check", name, "error", err)
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, s.health)

	s.Refresh(ctx)

	go func() {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info("stopping gRPC health server")
				s.health.Shutdown()
				srv.GracefulStop()
				return
			case <-ticker.C:
				s.Refresh(ctx)
			}
		}
	}()

	s.logger.Info("starting gRPC health server", "address", lis.Addr().String())
	return srv.Serve(lis)
}
