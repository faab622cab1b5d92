package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/teamyoo/atomic-router/internal/cloud"
	"github.com/teamyoo/atomic-router/internal/config"
	"github.com/teamyoo/atomic-router/internal/localmodel"
	"github.com/teamyoo/atomic-router/internal/router"
	"github.com/teamyoo/atomic-router/internal/worker"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set at build time
	Version = "dev"
	// BuildTime is set at build time
	BuildTime = "unknown"
)

func main() {
	// A local .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting router worker",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("worker_id", cfg.WorkerID),
	)
	logger.Info("configuration loaded", zap.String("config", cfg.String()))

	// Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

	// On-device runtime manager
	manager := newRuntimeManager(cfg, logger)

	// Cloud fallback (optional; routing degrades without it)
	cloudClient := newCloudClient(cfg, logger)

	routerInstance := router.New(manager, cloudClient, routerConfig(cfg), logger)
	logger.Info("router initialized")

	w := worker.NewWorker(cfg, redisClient, routerInstance, logger)
	if err := w.Start(); err != nil {
		logger.Fatal("failed to start worker", zap.Error(err))
	}

	healthServer := worker.NewHealthServer(cfg.HealthPort, redisClient, logger)
	if err := healthServer.Start(); err != nil {
		logger.Fatal("failed to start health server", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("router worker running, press Ctrl+C to stop")
	<-sigChan

	logger.Info("shutdown signal received, stopping worker")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := healthServer.Stop(); err != nil {
		logger.Error("failed to stop health server", zap.Error(err))
	}
	if err := w.Stop(); err != nil {
		logger.Error("failed to stop worker", zap.Error(err))
	}
	if err := manager.Release(shutdownCtx); err != nil {
		logger.Error("failed to release model runtime", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		logger.Error("failed to close redis connection", zap.Error(err))
	}

	select {
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timeout exceeded, forcing exit")
	default:
		logger.Info("worker stopped gracefully")
	}
}

// initLogger initializes the logger.
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return config.Build()
}

// newRuntimeManager builds the on-device runtime manager against the
// configured sidecar.
func newRuntimeManager(cfg *config.Config, logger *zap.Logger) *localmodel.Manager {
	factory := func() localmodel.Runtime {
		return localmodel.NewHTTPRuntime(cfg.RuntimeURL, cfg.LocalTimeout, logger)
	}
	return localmodel.NewManager(factory, cfg.RuntimeWeights, logger)
}

// newCloudClient builds the Gemini fallback client, or nil when no API key
// is configured.
func newCloudClient(cfg *config.Config, logger *zap.Logger) router.CloudGenerator {
	if cfg.GeminiAPIKey == "" {
		logger.Warn("gemini api key not provided (cloud fallback will not be available)")
		return nil
	}

	client, err := cloud.NewGeminiClient(context.Background(), cloud.Config{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		RetryDelay: cfg.CloudRetryDelay,
		RPS:        cfg.CloudRPS,
		Burst:      cfg.CloudBurst,
	}, logger)
	if err != nil {
		logger.Warn("failed to initialize cloud client (cloud fallback will not be available)",
			zap.Error(err),
		)
		return nil
	}

	logger.Info("cloud client initialized", zap.String("model", cfg.GeminiModel))
	return client
}

// routerConfig maps service configuration to router tunables.
func routerConfig(cfg *config.Config) router.Config {
	return router.Config{
		AcceptConfidence:    cfg.AcceptConfidence,
		AcceptRule:          cfg.AcceptRule,
		LocalTimeout:        cfg.LocalTimeout,
		CloudTimeout:        cfg.CloudTimeout,
		LocalMaxTokens:      cfg.LocalMaxTokens,
		LocalTemperature:    cfg.LocalTemperature,
		LocalStopSequences:  cfg.LocalStops,
		LocalSystemTemplate: cfg.LocalSystemTemplate,
		CloudSystemTemplate: cfg.CloudSystemTemplate,
	}
}
