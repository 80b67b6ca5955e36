package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/promptspec/api/internal/config"
	"github.com/promptspec/api/internal/database"
	"github.com/promptspec/api/internal/eventbus"
	"github.com/promptspec/api/internal/imagespec"
	"github.com/promptspec/api/internal/metrics"
	"github.com/promptspec/api/internal/middleware"
	"github.com/promptspec/api/internal/provider"
	"github.com/promptspec/api/internal/telemetry"
)

// @title PromptSpec API
// @version 0.1.0
// @description Turns free-form image descriptions into validated image generation specs.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @securityDefinitions.apikey ApiKey
// @in header
// @name X-API-Key
func main() {
	ctx := context.Background()

	// Initialize logger with stdout sync
	zapConfig := zap.NewProductionConfig()
	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg := config.Load()

	logger.Info("PromptSpec API starting...",
		zap.String("version", "0.1.0"),
		zap.String("environment", cfg.Environment),
	)

	shutdownTelemetry, err := telemetry.InitTracer(ctx, "promptspec-api", cfg.OTLPEndpoint)
	if err != nil {
		// Log but don't fail, as collector might be down
		logger.Error("failed to initialize telemetry", zap.Error(err))
	} else {
		defer func() {
			if err := shutdownTelemetry(ctx); err != nil {
				logger.Error("failed to shutdown telemetry", zap.Error(err))
			}
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector("promptspec", registry)

	// A nil provider makes every generation fail as misconfigured.
	var llm imagespec.Provider
	if cfg.ProviderConfigured() {
		llm = collector.InstrumentProvider(provider.NewClient(provider.Config{
			APIKey:  cfg.ProviderAPIKey,
			BaseURL: cfg.ProviderBaseURL,
			Model:   cfg.ProviderModel,
			Timeout: cfg.ProviderTimeout,
		}, logger))
	} else {
		logger.Error("PROVIDER_API_KEY is not set, generation requests will fail")
	}

	pipeline := imagespec.NewPipeline(llm, imagespec.Settings{
		Engines:   imagespec.EnginePolicy{Default: cfg.DefaultEngine, Allowed: cfg.AllowedEngines},
		MaxTokens: cfg.ProviderMaxTokens,
	}, logger)

	deps := routerDeps{
		cfg:       cfg,
		logger:    logger,
		pipeline:  pipeline,
		registry:  registry,
		collector: collector,
		limiter:   middleware.NewPerMinuteLimiter(cfg.RateLimitPerMinute),
		breaker:   middleware.NewCircuitBreaker(),
	}
	deps.breaker.OnStateChange = func(from, to middleware.CircuitState) {
		logger.Warn("provider circuit changed state",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}

	if cfg.RedisURL != "" {
		rdb, err := database.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis, using in-memory rate limiter", zap.Error(err))
		} else {
			defer rdb.Close()
			deps.redis = rdb
			deps.limiter = middleware.NewRedisRateLimiter(rdb.Client(), cfg.RateLimitPerMinute, time.Minute)
			logger.Info("connected to redis")
		}
	}

	if cfg.NATSURL != "" {
		bus, err := eventbus.Connect(cfg.NATSURL, logger)
		if err != nil {
			logger.Error("failed to connect to NATS, generation events disabled", zap.Error(err))
		} else {
			defer bus.Close()
			deps.events = bus
		}
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(deps)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ProviderTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited gracefully")
}
