package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/backend"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/cache"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/config"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/logger"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/queue"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/service"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/telemetry"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/workers"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.RequireQueue(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.RedisURL == "" {
		log.Fatalf("Invalid configuration: REDIS_URL is required for report processing")
	}

	debugMode := cfg.WorkerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	zapLogger.Info("starting_worker",
		zap.Bool("debug_mode", debugMode),
		zap.String("backend_url", cfg.BackendURL),
		zap.Int("prefetch", cfg.RabbitMQPrefetch),
	)

	if cfg.OTELEnabled && cfg.OTELEndpoint != "" {
		tp, err := telemetry.InitTracer(context.Background(), telemetry.WorkerServiceName, cfg.OTELEndpoint)
		if err != nil {
			zapLogger.Warn("failed_to_initialize_otel_tracer", zap.String("error", logger.SanitizeError(err)))
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
					zapLogger.Error("failed_to_shutdown_otel_tracer", zap.String("error", logger.SanitizeError(err)))
				}
			}()
		}
	}

	tracker, err := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed_to_create_backend_client", zap.String("error", logger.SanitizeError(err)))
	}

	redisClient, err := cache.NewRedisClient(context.Background(), cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_redis", zap.String("error", logger.SanitizeError(err)))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			zapLogger.Warn("failed_to_close_redis_connection", zap.String("error", logger.SanitizeError(err)))
		}
	}()
	store := cache.NewRedisStore(redisClient, cache.DefaultKeyPrefix)

	jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_rabbitmq", zap.String("error", logger.SanitizeError(err)))
	}
	defer func() {
		if err := jobQueue.Close(); err != nil {
			zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.String("error", logger.SanitizeError(err)))
		}
	}()
	zapLogger.Info("connected_to_rabbitmq")

	// The worker reads the tracker through the same snapshot cache as the server.
	activitySvc := service.NewActivityService(tracker, cfg.Location,
		service.WithCache(store, cfg.SnapshotCacheTTL),
		service.WithLogger(zapLogger),
	)
	worker := workers.NewReportWorker(activitySvc, cache.NewReportStore(store, cfg.ReportTTL), jobQueue, zapLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Run(gctx, cfg.RabbitMQPrefetch)
	})
	g.Go(func() error {
		err := queue.NewGarbageCollector(jobQueue, time.Hour, 24*time.Hour, zapLogger).Start(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	zapLogger.Info("worker_started")

	if err := g.Wait(); err != nil {
		zapLogger.Error("worker_stopped_with_error", zap.String("error", logger.SanitizeError(err)))
		return
	}
	zapLogger.Info("worker_stopped")
}
