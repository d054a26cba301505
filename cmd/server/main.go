// Package main runs the poster copy HTTP server with an in-process copy worker and graceful shutdown.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/campus-poster/backend/config"
	"github.com/campus-poster/backend/internal/copygen"
	"github.com/campus-poster/backend/internal/metrics"
	"github.com/campus-poster/backend/internal/middleware"
	"github.com/campus-poster/backend/internal/posters"
	"github.com/campus-poster/backend/internal/presets"
	"github.com/campus-poster/backend/internal/worker"
	"github.com/campus-poster/backend/pkg/database"
	"github.com/campus-poster/backend/pkg/queue"
	"github.com/campus-poster/backend/pkg/redis"
	"github.com/campus-poster/backend/pkg/response"
	"github.com/campus-poster/backend/pkg/storage"
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

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	m := metrics.New()
	pipeline := newPipeline(cfg, logger, m)

	catalogue, err := presets.Default()
	if err != nil {
		logger.Fatal("location presets", zap.Error(err))
	}

	posterRepo := posters.NewRepository(pool)
	posterHandler := posters.NewHandler(posterRepo, pipeline, logger)

	if cfg.AWS.PostersBucket != "" {
		s3Client, err := storage.NewS3(ctx, storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			PostersBucket:        cfg.AWS.PostersBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		} else {
			posterHandler.SetImageStore(s3Client)
		}
	} else {
		logger.Info("poster image storage disabled (AWS_S3_POSTERS_BUCKET not set)")
	}

	// Copy regeneration runs in-process when Redis is reachable.
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	workerDone := make(chan struct{})
	close(workerDone)
	if cfg.Redis.Addr != "" {
		rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Warn("redis disabled, copy regeneration unavailable", zap.Error(err))
		} else {
			defer rdb.Close()
			jobQueue := queue.NewQueue(rdb.Client, cfg.Worker.MaxRetries, logger)
			posterHandler.SetJobQueue(jobQueue)
			processor := worker.NewCopyProcessor(posterRepo, pipeline, jobQueue, logger)
			workerDone = make(chan struct{})
			go func() {
				defer close(workerDone)
				processor.Run(workerCtx)
			}()
			logger.Info("copy worker started")
		}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.GET("/locations", catalogue.Handler)
	posterHandler.Register(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	workerCancel()
	<-workerDone
	logger.Info("server stopped")
}

func newPipeline(cfg *config.Config, logger *zap.Logger, rec copygen.Recorder) *copygen.Pipeline {
	settings := copygen.Settings{
		Organization: cfg.Copy.AffiliationName,
		Location:     cfg.Copy.Location(),
	}
	opts := []copygen.Option{
		copygen.WithLogger(logger),
		copygen.WithTimeout(cfg.Model.Timeout()),
		copygen.WithRecorder(rec),
	}
	model, err := copygen.NewModelClient(copygen.ModelConfig{
		APIKey:      cfg.Model.APIKey,
		Endpoint:    cfg.Model.Endpoint,
		Model:       cfg.Model.Name,
		Temperature: cfg.Model.Temperature,
		MaxTokens:   cfg.Model.MaxTokens,
		Timeout:     cfg.Model.Timeout(),
	}, logger)
	if err != nil {
		logger.Warn("model copy disabled, serving template copy only", zap.Error(err))
		return copygen.NewPipeline(nil, settings, opts...)
	}
	logger.Info("model copy enabled", zap.String("model", cfg.Model.Name), zap.String("endpoint", cfg.Model.Endpoint))
	return copygen.NewPipeline(model, settings, opts...)
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
