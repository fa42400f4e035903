// Package grpc exposes the standard gRPC health service for the diary
// server, driven by a readiness probe.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/photodiary/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the named health entry next to the overall "" entry.
const ServiceName = "photodiary.Diary"

const defaultCheckInterval = 10 * time.Second

type HealthServer struct {
	address  string
	logger   logging.Logger
	ready    func(context.Context) error
	interval time.Duration
	health   *health.Server
}

// NewHealthServer returns a server that reports SERVING while ready returns
// nil. A nil ready is always ready.
func NewHealthServer(address string, l logging.Logger, ready func(context.Context) error) *HealthServer {
	return &HealthServer{
		address:  address,
		logger:   l.With("module", "grpc_server"),
		ready:    ready,
		interval: defaultCheckInterval,
		health:   health.NewServer(),
	}
}

func (s *HealthServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve blocks until ctx is done, then stops gracefully.
func (s *HealthServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.check(ctx)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info(ctx, "Stopping gRPC server...")
				s.health.Shutdown()
				srv.GracefulStop()
				return
			case <-ticker.C:
				s.check(ctx)
			}
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}

// check runs the readiness probe once and publishes the result.
func (s *HealthServer) check(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			s.logger.Warn(ctx, "readiness check failed", "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
