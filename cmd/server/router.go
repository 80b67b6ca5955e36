package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/promptspec/api/internal/config"
	"github.com/promptspec/api/internal/handlers"
	"github.com/promptspec/api/internal/imagespec"
	"github.com/promptspec/api/internal/metrics"
	"github.com/promptspec/api/internal/middleware"

	_ "github.com/promptspec/api/docs" // Swagger docs
)

// routerDeps is everything the HTTP surface needs. Optional collaborators are nil
// when their infrastructure is not configured.
type routerDeps struct {
	cfg       *config.Config
	logger    *zap.Logger
	pipeline  *imagespec.Pipeline
	registry  *prometheus.Registry
	collector *metrics.Collector
	limiter   middleware.Limiter
	breaker   *middleware.CircuitBreaker
	events    handlers.EventPublisher
	redis     handlers.Pinger
}

func newRouter(d routerDeps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(d.logger))
	router.Use(middleware.Recovery(d.logger))
	router.Use(middleware.CORS(d.cfg.AllowedOrigins))
	router.Use(middleware.Metrics(d.collector))

	// Swagger documentation
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{})))

	healthHandler := handlers.NewHealthHandler(d.redis, d.cfg.ProviderConfigured())
	router.GET("/health", healthHandler.Health)
	router.GET("/health/deep", healthHandler.DeepHealth)

	policy := imagespec.EnginePolicy{Default: d.cfg.DefaultEngine, Allowed: d.cfg.AllowedEngines}
	enginesHandler := handlers.NewEnginesHandler(policy)
	generateHandler := handlers.NewGenerateHandler(d.pipeline, d.collector, d.events, d.logger)

	auth := middleware.NewAuthenticator(d.cfg.JWTSecret, d.cfg.APIKeyHashes, d.logger)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(auth.Middleware())
	{
		v1.GET("/engines", enginesHandler.List)

		// Generation: rate limit + circuit breaker
		v1.POST("/generate",
			middleware.RateLimitMiddleware(d.limiter, d.logger),
			middleware.CircuitBreakerMiddleware(d.breaker),
			generateHandler.Generate,
		)
	}

	return router
}
