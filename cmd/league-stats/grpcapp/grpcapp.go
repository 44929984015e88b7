package grpcapp

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/ozzus/championship/internal/tracing"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

const tracerName = "league-stats/grpc"

type GrpcApp struct {
	log        *zap.Logger
	gRPCServer *grpc.Server
	health     *health.Server
	addr       string
}

// New builds the server. maxRecvBytes bounds incoming messages, which carry
// whole CSV uploads; zero keeps the gRPC default.
func New(log *zap.Logger, host string, port int, maxRecvBytes int, register func(*grpc.Server)) *GrpcApp {
	addr := fmt.Sprintf("%s:%d", host, port)

	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			tracing.UnaryServerInterceptor(tracerName),
			recoveryInterceptor(log),
			loggingInterceptor(log),
		),
	}
	if maxRecvBytes > 0 {
		opts = append(opts, grpc.MaxRecvMsgSize(maxRecvBytes))
	}

	gRPCServer := grpc.NewServer(opts...)

	register(gRPCServer)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gRPCServer, healthServer)

	reflection.Register(gRPCServer)

	return &GrpcApp{
		log:        log,
		gRPCServer: gRPCServer,
		health:     healthServer,
		addr:       addr,
	}
}

func (a *GrpcApp) Run() error {
	const op = "grpcapp.Run"

	l, err := net.Listen("tcp", a.addr)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return a.Serve(l)
}

// Serve accepts connections on l until Stop is called.
func (a *GrpcApp) Serve(l net.Listener) error {
	const op = "grpcapp.Serve"

	a.log.Info("gRPC server started", zap.String("addr", l.Addr().String()))

	if err := a.gRPCServer.Serve(l); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Stop flips health to NOT_SERVING so balancers drain, then stops gracefully.
func (a *GrpcApp) Stop() {
	a.log.Info("stopping gRPC server", zap.String("addr", a.addr))
	a.health.Shutdown()
	a.gRPCServer.GracefulStop()
}

func loggingInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("duration", time.Since(start)),
		}

		switch {
		case err == nil:
			log.Info("gRPC request", fields...)
		case isClientError(code):
			log.Warn("gRPC request rejected", append(fields, zap.Error(err))...)
		default:
			log.Error("gRPC request failed", append(fields, zap.Error(err))...)
		}

		return resp, err
	}
}

func isClientError(code codes.Code) bool {
	switch code {
	case codes.InvalidArgument, codes.FailedPrecondition, codes.NotFound, codes.Canceled:
		return true
	default:
		return false
	}
}

func recoveryInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered", zap.Any("panic", r), zap.String("method", info.FullMethod))
				err = status.Error(codes.Internal, "internal error")
			}
		}()

		return handler(ctx, req)
	}
}
