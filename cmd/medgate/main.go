package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/BemwaMalak/mini-full-stack/config"
	"github.com/BemwaMalak/mini-full-stack/internal/bootstrap"
	"github.com/redis/go-redis/v9"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		slog.Default().ErrorContext(context.Background(), "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger := bootstrap.InitLogger(cfg.Observability.Log, cfg.IsDev)
	logStartupInfo(ctx, logger, &cfg)

	redisClient, err := initRedis(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	app, err := bootstrap.NewApp(bootstrap.AppDeps{
		Config: cfg,
		Logger: logger,
		Redis:  redisClient,
	})
	if err != nil {
		return err
	}

	runErr := app.Run(ctx)
	if cerr := app.Close(); cerr != nil {
		runErr = errors.Join(runErr, fmt.Errorf("close app: %w", cerr))
	}
	return runErr
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting medgate",
		"api_base_url", cfg.API.BaseURL,
		"http_addr", cfg.HTTP.Addr,
		"notify_ledger", cfg.Notify.Ledger,
		"dev", cfg.IsDev)
}

// initRedis connects Redis only when it is enabled.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func initRedis(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (redis.UniversalClient, error) {
	if !cfg.Redis.Enabled {
		return nil, nil //nolint:nilnil // redis is optional
	}
	client, err := bootstrap.ConnectRedis(ctx, bootstrap.RedisDeps{Config: cfg.Redis, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}
