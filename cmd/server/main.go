package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/backend"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/cache"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/config"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/handlers"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/logger"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/middleware"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/queue"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/service"
	"github.com/ChikinaValeria/TimeTrackerApp/internal/telemetry"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

const (
	dlqInterval  = 1 * time.Hour
	dlqRetention = 24 * time.Hour
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("backend_url", cfg.BackendURL),
		zap.String("timezone", cfg.TimestampTimezone),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	tracingEnabled := false
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), telemetry.ServerServiceName, cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.String("error", logger.SanitizeError(err)))
			} else {
				tracingEnabled = true
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.String("error", logger.SanitizeError(err)))
					}
				}()
			}
		}
	}

	tracker, err := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed_to_create_backend_client", zap.String("error", logger.SanitizeError(err)))
	}

	checks := map[string]handlers.CheckFunc{"backend": tracker.Ping}

	// Redis is optional: without it snapshots are not cached, rate limits are
	// per process and reports are disabled.
	var redisClient *redis.Client
	var store cache.Store = cache.NopStore{}
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewRedisClient(context.Background(), cfg.RedisURL)
		if err != nil {
			zapLogger.Fatal("failed_to_connect_to_redis", zap.String("error", logger.SanitizeError(err)))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				zapLogger.Warn("failed_to_close_redis_connection", zap.String("error", logger.SanitizeError(err)))
			}
		}()
		redisStore := cache.NewRedisStore(redisClient, cache.DefaultKeyPrefix)
		store = redisStore
		checks["redis"] = redisStore.Ping
		zapLogger.Info("connected_to_redis")
	} else {
		zapLogger.Warn("redis_not_configured_caching_disabled")
	}

	var jobQueue queue.JobQueue
	if cfg.RabbitMQURL != "" {
		q, err := connectQueue(cfg.RabbitMQURL, zapLogger)
		if err != nil {
			zapLogger.Fatal("failed_to_connect_to_rabbitmq_after_retries", zap.String("error", logger.SanitizeError(err)))
		}
		defer func() {
			if err := q.Close(); err != nil {
				zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.String("error", logger.SanitizeError(err)))
			}
		}()
		jobQueue = q
		checks["rabbitmq"] = q.HealthCheck
	}

	activitySvc := service.NewActivityService(tracker, cfg.Location,
		service.WithCache(store, cfg.SnapshotCacheTTL),
		service.WithLogger(zapLogger),
	)

	var reportSvc *service.ReportService
	if jobQueue != nil && redisClient != nil {
		reportSvc = service.NewReportService(cache.NewReportStore(store, cfg.ReportTTL), jobQueue, cfg.ReportTTL, zapLogger)
		zapLogger.Info("reports_enabled", zap.Duration("report_ttl", cfg.ReportTTL))
	} else {
		zapLogger.Warn("reports_disabled", zap.Bool("redis", redisClient != nil), zap.Bool("rabbitmq", jobQueue != nil))
	}

	summaryHandler := handlers.NewSummaryHandler(activitySvc)
	taskHandler := handlers.NewTaskHandler(activitySvc)
	tagHandler := handlers.NewTagHandler(activitySvc)
	reportHandler := handlers.NewReportHandler(reportSvc, activitySvc)
	healthChecker := handlers.NewHealthChecker(checks)

	r := mux.NewRouter()

	// gorilla/mux runs middleware in registration order, first registered is outermost
	if tracingEnabled {
		r.Use(otelmux.Middleware(telemetry.ServerServiceName))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(cfg.FrontendURL, zapLogger))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Audit(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	rateLimitMW, err := middleware.RateLimit(cfg.RateLimit, redisClient, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter", zap.String("error", logger.SanitizeError(err)))
	}

	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	openAPIHandler := handlers.NewOpenAPIHandler(filepath.Join("api", "openapi", "openapi.yaml"))
	openAPIHandler.RegisterRoutes(r)

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(rateLimitMW)

	summaryHandler.RegisterRoutes(apiRouter.PathPrefix("/summary").Subrouter())
	taskHandler.RegisterRoutes(apiRouter.PathPrefix("/tasks").Subrouter())
	tagHandler.RegisterRoutes(apiRouter.PathPrefix("/tags").Subrouter())
	reportHandler.RegisterRoutes(apiRouter.PathPrefix("/reports").Subrouter())

	// Preflight requests are answered by the CORS middleware; this only makes them routable.
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   45 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	if dlqPurger, ok := jobQueue.(queue.DLQPurger); ok {
		dlqGC := queue.NewGarbageCollector(dlqPurger, dlqInterval, dlqRetention, zapLogger)
		go func() {
			if err := dlqGC.Start(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
				zapLogger.Error("dlq_garbage_collector_stopped_with_error", zap.String("error", logger.SanitizeError(err)))
			}
		}()
		zapLogger.Info("started_dlq_garbage_collector",
			zap.Duration("interval", dlqInterval),
			zap.Duration("retention", dlqRetention),
		)
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server_failed_to_start", zap.String("error", logger.SanitizeError(err)))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	bgCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server_forced_to_shutdown", zap.String("error", logger.SanitizeError(err)))
	}

	zapLogger.Info("server_exited")
}

// connectQueue dials RabbitMQ with exponential backoff so the server survives
// starting before the broker.
func connectQueue(url string, zapLogger *zap.Logger) (*queue.RabbitMQQueue, error) {
	const maxRetries = 10
	const initialDelay = 2 * time.Second
	const maxDelay = 30 * time.Second

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		q, err := queue.NewRabbitMQQueue(url)
		if err == nil {
			zapLogger.Info("connected_to_rabbitmq", zap.Int("attempt", attempt+1))
			return q, nil
		}
		lastErr = err

		delay := initialDelay * time.Duration(1<<uint(attempt))
		if delay > maxDelay {
			delay = maxDelay
		}
		zapLogger.Warn("failed_to_connect_to_rabbitmq_retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.String("error", logger.SanitizeError(err)),
			zap.Duration("retry_delay", delay),
		)
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("rabbitmq unreachable after %d attempts: %w", maxRetries, lastErr)
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339))
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"version":"1.0.0","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339))
}
