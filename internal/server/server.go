// Package server assembles the Pronote gRPC server: services, interceptor
// chain and health reporting.
package server

import (
	"context"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	pronotev1 "github.com/gurkanbulca/pronote/api/pronote/v1"
	"github.com/gurkanbulca/pronote/internal/config"
	"github.com/gurkanbulca/pronote/internal/middleware"
	"github.com/gurkanbulca/pronote/internal/service"
	"github.com/gurkanbulca/pronote/pkg/auth"
)

// Options carries everything the server is built from. Cache may be nil.
type Options struct {
	Users    service.UserStore
	Tasks    service.TaskStore
	Messages service.MessageStore
	Cache    service.AssignedTaskCache

	TokenManager    *auth.TokenManager
	PasswordManager *auth.PasswordManager
	RateLimit       config.RateLimitConfig
	Validation      *middleware.ValidationConfig
	Logger          *slog.Logger

	// TaskOptions are appended after the ones derived from the fields
	// above.
	TaskOptions []service.TaskServiceOption
}

var serviceNames = []string{
	pronotev1.AuthService_ServiceDesc.ServiceName,
	pronotev1.TaskService_ServiceDesc.ServiceName,
	pronotev1.MessageService_ServiceDesc.ServiceName,
}

type Server struct {
	grpc   *grpc.Server
	health *health.Server
	logger *slog.Logger
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	taskOpts := []service.TaskServiceOption{service.WithTaskLogger(logger)}
	if opts.Cache != nil {
		taskOpts = append(taskOpts, service.WithTaskCache(opts.Cache))
	}
	taskOpts = append(taskOpts, opts.TaskOptions...)

	authService := service.NewAuthService(opts.Users, opts.TokenManager, opts.PasswordManager, logger)
	taskService := service.NewTaskService(opts.Tasks, opts.Users, taskOpts...)
	messageService := service.NewMessageService(opts.Messages, opts.Users, logger)

	// identity must be known before rate limiting so buckets are per user
	unary := []grpc.UnaryServerInterceptor{
		middleware.NewMetadataExtractorInterceptor().Unary(),
		middleware.NewLoggingInterceptor(logger).Unary(),
		middleware.NewAuthInterceptor(opts.TokenManager).Unary(),
	}
	if opts.RateLimit.Enabled {
		rl := middleware.NewRateLimitInterceptor(opts.RateLimit.RequestsPerSecond, opts.RateLimit.Burst, opts.RateLimit.IdleTTL)
		unary = append(unary, rl.Unary())
	}
	unary = append(unary, middleware.NewValidationInterceptor(opts.Validation).Unary())

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(unary...),
		grpc.ChainStreamInterceptor(middleware.NewAuthInterceptor(opts.TokenManager).Stream()),
	)

	pronotev1.RegisterAuthServiceServer(grpcServer, authService)
	pronotev1.RegisterTaskServiceServer(grpcServer, taskService)
	pronotev1.RegisterMessageServiceServer(grpcServer, messageService)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	for _, name := range serviceNames {
		healthServer.SetServingStatus(name, grpc_health_v1.HealthCheckResponse_SERVING)
	}
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		grpc:   grpcServer,
		health: healthServer,
		logger: logger,
	}
}

// Serve blocks until the listener fails or the server stops.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("pronote gRPC server listening", "addr", lis.Addr().String())
	return s.grpc.Serve(lis)
}

// Shutdown reports NOT_SERVING, then drains in-flight calls until ctx ends,
// at which point remaining connections are closed.
func (s *Server) Shutdown(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("graceful shutdown timed out, forcing stop")
		s.grpc.Stop()
		<-done
	}
}
