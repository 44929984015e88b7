package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/ozzus/championship/cmd/league-stats/grpcapp"
	"github.com/ozzus/championship/cmd/league-stats/internal/application/service"
	"github.com/ozzus/championship/cmd/league-stats/internal/config"
	"github.com/ozzus/championship/cmd/league-stats/internal/domain/ports"
	postgres "github.com/ozzus/championship/cmd/league-stats/internal/infrastructures/db/postgres/repo"
	cacheredis "github.com/ozzus/championship/cmd/league-stats/internal/infrastructures/db/redis"
	grpcapi "github.com/ozzus/championship/cmd/league-stats/internal/transport/grpc"
	"github.com/ozzus/championship/internal/logger"
	"github.com/ozzus/championship/internal/tracing"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := logger.New(cfg.Env, cfg.Log.Level)
	defer func() {
		_ = log.Sync()
	}()

	tp, err := tracing.InitTracer("league-stats", cfg.Env, cfg.Jaeger)
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

	log.Info("league-stats starting",
		zap.String("env", cfg.Env),
		zap.String("grpc_host", cfg.GRPC.Host),
		zap.Int("grpc_port", cfg.GRPC.Port),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	repo, err := postgres.New(startCtx, cfg.DB.DatabaseURL())
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer repo.Close()

	if cfg.DB.MigrateOnRun {
		if err := repo.Migrate(startCtx); err != nil {
			log.Fatal("failed to apply migrations", zap.Error(err))
		}
		log.Info("database migrations applied")
	}

	var cache ports.TableCache
	if !cfg.Redis.Disabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Warn("failed to close redis client", zap.Error(err))
			}
		}()
		if err := redisClient.Ping(startCtx).Err(); err != nil {
			log.Warn("redis unavailable, tables will be computed on every request", zap.Error(err))
		}
		cache = cacheredis.NewTableCache(redisClient)
	}

	leagueService := service.NewLeagueService(log, repo, cache, cfg.TableCacheTTL)

	app := grpcapp.New(log, cfg.GRPC.Host, cfg.GRPC.Port, cfg.GRPC.MaxRecvBytes, func(s *grpc.Server) {
		grpcapi.Register(s, log, leagueService)
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Run()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		app.Stop()
	case err := <-errCh:
		if err != nil {
			log.Error("gRPC server stopped", zap.Error(err))
		}
	}
}
