package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/ozzus/championship/cmd/api-gateway/internal/api/http/handlers"
	"github.com/ozzus/championship/cmd/api-gateway/internal/api/http/router"
	leagueclient "github.com/ozzus/championship/cmd/api-gateway/internal/clients/league"
	"github.com/ozzus/championship/cmd/api-gateway/internal/config"
	"github.com/ozzus/championship/internal/logger"
	"github.com/ozzus/championship/internal/tracing"
	leaguev1 "github.com/ozzus/championship/protos/league/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := logger.New(cfg.Env, cfg.Log.Level)
	defer func() {
		_ = log.Sync()
	}()

	tp, err := tracing.InitTracer("api-gateway", cfg.Env, cfg.Jaeger.Address)
	if err != nil {
		log.Fatal("failed to init tracer", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
			log.Warn("failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info("api-gateway starting",
		zap.String("http_addr", addr),
		zap.String("league_addr", cfg.Clients.League.Address),
	)

	leagueConn, err := grpc.NewClient(cfg.Clients.League.Address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(tracing.UnaryClientInterceptor("api-gateway/grpc")),
		grpc.WithDefaultCallOptions(grpc.MaxCallSendMsgSize(2*int(cfg.HTTP.MaxUploadBytes)+1<<20)),
	)
	if err != nil {
		log.Fatal("failed to connect league-stats grpc", zap.Error(err), zap.String("addr", cfg.Clients.League.Address))
	}
	defer func() {
		if err := leagueConn.Close(); err != nil {
			log.Warn("failed to close league-stats grpc client", zap.Error(err))
		}
	}()

	leagueClient := leagueclient.NewClient(
		leaguev1.NewLeagueStatsServiceClient(leagueConn),
		cfg.Clients.League.Timeout,
		cfg.Clients.League.UploadTimeout,
	)
	leagueHandler := handlers.NewLeagueHandler(log, leagueClient, cfg.HTTP.MaxUploadBytes)

	server := &http.Server{
		Addr:         addr,
		Handler:      router.New(log, cfg.CORS.AllowedOrigins, leagueHandler),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("http shutdown error", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", zap.Error(err))
		}
	}
}
