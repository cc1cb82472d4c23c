package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/gurkanbulca/pronote/internal/cache"
	"github.com/gurkanbulca/pronote/internal/config"
	"github.com/gurkanbulca/pronote/internal/database"
	"github.com/gurkanbulca/pronote/internal/repository"
	"github.com/gurkanbulca/pronote/internal/server"
	"github.com/gurkanbulca/pronote/pkg/auth"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, databaseConfig(cfg))
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	if cfg.Server.AutoMigrate {
		logger.Info("running auto migration")
		if err := db.Migrate(ctx); err != nil {
			return err
		}
	}

	opts := server.Options{
		Users:    repository.NewUserRepository(db),
		Tasks:    repository.NewTaskRepository(db),
		Messages: repository.NewMessageRepository(db),
		TokenManager: auth.NewTokenManager(
			cfg.JWT.AccessSecret,
			cfg.JWT.RefreshSecret,
			cfg.JWT.AccessTokenDuration,
			cfg.JWT.RefreshTokenDuration,
		),
		PasswordManager: auth.NewPasswordManager(),
		RateLimit:       cfg.RateLimit,
		Logger:          logger,
	}

	var taskCache *cache.TaskCache
	if cfg.Redis.Addr != "" {
		taskCache, err = cache.Open(ctx, cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TaskListTTL,
		})
		if err != nil {
			logger.Warn("task cache unavailable, serving uncached", "error", err)
			taskCache = nil
		} else {
			defer taskCache.Close()
			opts.Cache = taskCache
			logger.Info("task cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TaskListTTL)
		}
	}

	srv := server.New(opts)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Server.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(lis) }()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	srv.Shutdown(shutdownCtx)

	if taskCache != nil {
		stats := taskCache.GetStats()
		logger.Info("task cache stats", "hits", stats.Hits, "misses", stats.Misses, "hit_rate", stats.HitRate)
	}
	logger.Info("server shutdown complete")
	return nil
}

func databaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		Driver:       cfg.Database.Driver,
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		DBName:       cfg.Database.DBName,
		SSLMode:      cfg.Database.SSLMode,
		SQLitePath:   cfg.Database.SQLitePath,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		Debug:        cfg.Database.Debug,
	}
}
