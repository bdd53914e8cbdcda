package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ayatech/muslim-companion-api/internal/core/port"
	"github.com/ayatech/muslim-companion-api/internal/governance"
	"github.com/ayatech/muslim-companion-api/internal/infra/config"
	"github.com/ayatech/muslim-companion-api/internal/infra/database"
	kafkainfra "github.com/ayatech/muslim-companion-api/internal/infra/kafka"
	"github.com/ayatech/muslim-companion-api/internal/infra/logger"
	redisinfra "github.com/ayatech/muslim-companion-api/internal/infra/redis"
	"github.com/ayatech/muslim-companion-api/internal/infra/security"
	postgresrepo "github.com/ayatech/muslim-companion-api/internal/repository/postgres"
	redisrepo "github.com/ayatech/muslim-companion-api/internal/repository/redis"
	"github.com/ayatech/muslim-companion-api/internal/transport/http/middleware"
	"github.com/ayatech/muslim-companion-api/internal/transport/http/routes"
	"github.com/ayatech/muslim-companion-api/internal/usecase"
)

type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
	content  *usecase.ContentService
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	if err := security.ConfigureArgon2FromSettings(cfg.Argon2); err != nil {
		_ = redisClient.Close()
		pool.Close()
		return nil, fmt.Errorf("configure argon2: %w", err)
	}

	tokenManager, err := security.NewTokenManager(cfg.JWT, cfg.App.Name)
	if err != nil {
		_ = redisClient.Close()
		pool.Close()
		return nil, fmt.Errorf("init token manager: %w", err)
	}

	var eventPublisher port.EventPublisher
	var producer *kafkainfra.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			producer = nil
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	store := redisrepo.NewStore(redisClient.Client(), cfg.Redis.KeyPrefix)

	cache := governance.NewCacheManager(store, log).
		WithCollector(prometheus.DefaultRegisterer)

	registry := governance.NewInvalidationRegistry(log)
	governance.RegisterContentInvalidations(registry, cache)

	abuse := governance.NewAbuseTracker(store, cfg.RateLimit.AbuseAlertThreshold, cfg.RateLimit.AbuseWindow, log).
		WithEventPublisher(eventPublisher)

	rateLimiter := governance.NewRateLimiter(store, governance.RateLimiterConfig{
		Window:    cfg.RateLimit.WindowDuration,
		AnonLimit: cfg.RateLimit.AnonLimit,
		UserLimit: cfg.RateLimit.UserLimit,
		Whitelist: cfg.RateLimit.Whitelist,
	}, log).WithAbuseTracker(abuse)

	lockout := governance.NewLockoutTracker(store, cfg.Lockout.Threshold, cfg.Lockout.AttemptWindow, cfg.Lockout.LockDuration, log).
		WithEventPublisher(eventPublisher)

	repos := postgresrepo.NewRepositories(pool)

	authService := usecase.NewAuthService(repos.Users, lockout, tokenManager, log)
	contentService := usecase.NewContentService(repos.Content, repos.Bookmarks, cache, registry, eventPublisher, usecase.ContentTTLs{
		Static:  cfg.Cache.StaticTTL,
		Dynamic: cfg.Cache.DynamicTTL,
	}, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		log.Warn("failed to register http metrics", zap.Error(err))
		metrics = nil
	}

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Tokens:      tokenManager,
		Metrics:     metrics,
		Database:    pool,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Auth:    authService,
			Content: contentService,
		},
	})

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
		content:  contentService,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			_ = a.producer.Close()
		}
	}()

	if a.cfg.Cache.WarmSurahs {
		go a.content.WarmSurahCache(ctx)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting Muslim Companion API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
