package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/teamyoo/atomic-router/internal/cloud"
	"github.com/teamyoo/atomic-router/internal/config"
	"github.com/teamyoo/atomic-router/internal/localmodel"
	"github.com/teamyoo/atomic-router/internal/router"
	"github.com/teamyoo/atomic-router/internal/server"
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

	logger.Info("starting router server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.Int("port", cfg.HTTPPort),
	)
	logger.Info("configuration loaded", zap.String("config", cfg.String()))

	manager := localmodel.NewManager(func() localmodel.Runtime {
		return localmodel.NewHTTPRuntime(cfg.RuntimeURL, cfg.LocalTimeout, logger)
	}, cfg.RuntimeWeights, logger)

	var cloudClient router.CloudGenerator
	if cfg.GeminiAPIKey == "" {
		logger.Warn("gemini api key not provided (cloud fallback will not be available)")
	} else {
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
		} else {
			cloudClient = client
			logger.Info("cloud client initialized", zap.String("model", cfg.GeminiModel))
		}
	}

	routerInstance := router.New(manager, cloudClient, router.Config{
		AcceptConfidence:    cfg.AcceptConfidence,
		AcceptRule:          cfg.AcceptRule,
		LocalTimeout:        cfg.LocalTimeout,
		CloudTimeout:        cfg.CloudTimeout,
		LocalMaxTokens:      cfg.LocalMaxTokens,
		LocalTemperature:    cfg.LocalTemperature,
		LocalStopSequences:  cfg.LocalStops,
		LocalSystemTemplate: cfg.LocalSystemTemplate,
		CloudSystemTemplate: cfg.CloudSystemTemplate,
	}, logger)
	logger.Info("router initialized")

	srv := server.New(routerInstance, cfg.HTTPPort, logger)
	if err := srv.Start(); err != nil {
		logger.Fatal("failed to start http server", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("router server running, press Ctrl+C to stop")
	<-sigChan

	logger.Info("shutdown signal received, stopping server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(); err != nil {
		logger.Error("failed to stop http server", zap.Error(err))
	}
	if err := manager.Release(shutdownCtx); err != nil {
		logger.Error("failed to release model runtime", zap.Error(err))
	}

	logger.Info("server stopped gracefully")
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
