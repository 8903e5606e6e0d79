package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	apiv1 "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/adapters/grpc/api/v1"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/adapters/grpc/handler"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/company"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/event"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/interview"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/matching"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/profile"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/research"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/selection"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/task"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/user"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/config"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/identity"
)

// Services は gRPC で公開するユースケースの集合です。
type Services struct {
	Users      user.UseCase
	Companies  company.UseCase
	Selection  selection.UseCase
	Tasks      task.UseCase
	Events     event.UseCase
	Interviews interview.UseCase
	Research   research.UseCase
	Profiles   profile.UseCase
	Matching   matching.UseCase
}

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr      string
	shutdownTimeout time.Duration
	grpcServer      *grpc.Server
	health          *health.Server
	logger          *zap.Logger
}

const defaultShutdownTimeout = 10 * time.Second

// New は設定されたアドレスで待ち受ける gRPC サーバーを構築し、全サービスを登録します。
func New(cfg config.ServerConfig, services Services, logger *zap.Logger, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor(logger),
			RecoveryInterceptor(logger),
			identity.UnaryServerInterceptor(apiv1.UserServiceCreateUser),
		),
	}, opts...)
	srv := grpc.NewServer(opts...)

	apiv1.RegisterUserServiceServer(srv, handler.NewUserGrpcHandler(services.Users))
	apiv1.RegisterCompanyServiceServer(srv, handler.NewCompanyGrpcHandler(services.Companies))
	apiv1.RegisterSelectionServiceServer(srv, handler.NewSelectionGrpcHandler(services.Selection))
	apiv1.RegisterTaskServiceServer(srv, handler.NewTaskGrpcHandler(services.Tasks))
	apiv1.RegisterEventServiceServer(srv, handler.NewEventGrpcHandler(services.Events))
	apiv1.RegisterInterviewServiceServer(srv, handler.NewInterviewGrpcHandler(services.Interviews))
	apiv1.RegisterResearchServiceServer(srv, handler.NewResearchGrpcHandler(services.Research))
	apiv1.RegisterProfileServiceServer(srv, handler.NewProfileGrpcHandler(services.Profiles))
	apiv1.RegisterMatchingServiceServer(srv, handler.NewMatchingGrpcHandler(services.Matching))

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	for name := range srv.GetServiceInfo() {
		hs.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &Server{
		listenAddr:      cfg.ListenAddr,
		shutdownTimeout: timeout,
		grpcServer:      srv,
		health:          hs,
		logger:          logger,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると処理中の RPC を待って停止します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.Shutdown(s.shutdownTimeout)
	}()

	serveErr := s.Serve(lis)
	if ctx.Err() != nil {
		<-stopped
	}
	return serveErr
}

// Serve は与えられたリスナーで待ち受けます。停止されるまで戻りません。
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}
	return nil
}

// GracefulStop はサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

// Shutdown は timeout まで処理中の RPC を待ち、超過した場合は強制停止します。
func (s *Server) Shutdown(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		s.logger.Warn("graceful shutdown timed out, forcing stop", zap.Duration("timeout", timeout))
		s.grpcServer.Stop()
	}
}
