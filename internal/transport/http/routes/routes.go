package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ayatech/muslim-companion-api/internal/governance"
	"github.com/ayatech/muslim-companion-api/internal/infra/config"
	"github.com/ayatech/muslim-companion-api/internal/infra/security"
	"github.com/ayatech/muslim-companion-api/internal/transport/http/handlers"
	"github.com/ayatech/muslim-companion-api/internal/transport/http/middleware"
	"github.com/ayatech/muslim-companion-api/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth    *usecase.AuthService
	Content *usecase.ContentService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *governance.RateLimiter
	Services    ServiceSet
	Tokens      *security.TokenManager
	Metrics     *middleware.HTTPMetrics
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware. Every
// /api/v1 route sits behind the rate limiter; authentication only changes
// which quota applies.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))

	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	healthOptions := make([]handlers.HealthHandlerOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)

	// Health and metrics stay outside the rate limiter so probes keep working
	// while an identity is throttled.
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.RequireAuth(deps.Tokens)

	api := r.Group("/api/v1")
	api.Use(middleware.OptionalAuth(deps.Tokens))
	api.Use(middleware.RateLimit(deps.RateLimiter))
	{
		authHandler := handlers.NewAuthHandler(deps.Services.Auth)
		api.POST("/auth/login", authHandler.Login)

		quranHandler := handlers.NewQuranHandler(deps.Services.Content)
		quranGroup := api.Group("/quran")
		quranGroup.GET("/surahs/:number", quranHandler.GetSurah)
		quranGroup.GET("/reciters", quranHandler.ListReciters)
		quranGroup.GET("/reciters/:id", quranHandler.GetReciter)
		quranGroup.GET("/translations", quranHandler.ListTranslations)
		quranGroup.GET("/translations/:id", quranHandler.GetTranslation)

		bookmarkHandler := handlers.NewBookmarkHandler(deps.Services.Content)
		bookmarkGroup := api.Group("/bookmarks")
		bookmarkGroup.Use(requireAuth)
		bookmarkGroup.GET("", bookmarkHandler.List)
		bookmarkGroup.POST("", bookmarkHandler.Create)
		bookmarkGroup.DELETE("/:id", bookmarkHandler.Delete)

		adminHandler := handlers.NewAdminHandler(deps.Services.Auth, deps.Services.Content)
		adminGroup := api.Group("/admin")
		adminGroup.Use(requireAuth, middleware.RequireAdmin())
		adminGroup.GET("/cache/stats", adminHandler.CacheStats)
		adminGroup.DELETE("/lockouts/:email", adminHandler.ClearLockout)
		adminGroup.PUT("/quran/surahs/:number", quranHandler.UpdateSurah)
		adminGroup.PUT("/quran/reciters/:id", quranHandler.UpdateReciter)
		adminGroup.PUT("/quran/translations/:id", quranHandler.UpdateTranslation)
	}

	return r
}
