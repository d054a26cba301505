// Package main runs the standalone copy regeneration worker.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/campus-poster/backend/config"
	"github.com/campus-poster/backend/internal/copygen"
	"github.com/campus-poster/backend/internal/posters"
	"github.com/campus-poster/backend/internal/worker"
	"github.com/campus-poster/backend/pkg/database"
	"github.com/campus-poster/backend/pkg/queue"
	"github.com/campus-poster/backend/pkg/redis"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	settings := copygen.Settings{Organization: cfg.Copy.AffiliationName, Location: cfg.Copy.Location()}
	var model copygen.Model
	if mc, err := copygen.NewModelClient(copygen.ModelConfig{
		APIKey:      cfg.Model.APIKey,
		Endpoint:    cfg.Model.Endpoint,
		Model:       cfg.Model.Name,
		Temperature: cfg.Model.Temperature,
		MaxTokens:   cfg.Model.MaxTokens,
		Timeout:     cfg.Model.Timeout(),
	}, logger); err != nil {
		logger.Warn("model copy disabled, regenerating with templates", zap.Error(err))
	} else {
		model = mc
	}
	pipeline := copygen.NewPipeline(model, settings, copygen.WithLogger(logger), copygen.WithTimeout(cfg.Model.Timeout()))

	jobQueue := queue.NewQueue(rdb.Client, cfg.Worker.MaxRetries, logger)
	processor := worker.NewCopyProcessor(posters.NewRepository(pool), pipeline, jobQueue, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		processor.Run(workerCtx)
	}()
	logger.Info("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	<-done
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
