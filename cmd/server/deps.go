package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KirMaid/CloudCS-Lab1/internal/config"
	"github.com/KirMaid/CloudCS-Lab1/internal/handler"
	"github.com/KirMaid/CloudCS-Lab1/internal/middleware"
	"github.com/KirMaid/CloudCS-Lab1/internal/model"
	"github.com/KirMaid/CloudCS-Lab1/internal/pkg/circuitbreaker"
	"github.com/KirMaid/CloudCS-Lab1/internal/service"
)

// Handlers groups the HTTP handlers
type Handlers struct {
	Health     *handler.HealthHandler
	Prediction *handler.PredictionHandler
}

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger

	Redis *redis.Client

	CredentialValidator service.CredentialValidator
	Provider            model.Provider
	// ModelCache is set when the reload policy keeps models in memory
	ModelCache        *model.CachingProvider
	PredictionService *service.PredictionService

	Handlers Handlers

	// RateLimitMiddleware is nil when rate limiting is disabled
	RateLimitMiddleware *middleware.RateLimitMiddleware
}

// initDependencies initializes all dependencies
func initDependencies(cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	validator, err := service.NewCredentialValidator(cfg.Auth, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential validator: %w", err)
	}
	deps.CredentialValidator = validator

	if err := deps.initProvider(); err != nil {
		deps.Close()
		return nil, err
	}

	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		deps.Redis = redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := deps.Redis.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unreachable, rate limiting will fail open", zap.Error(err))
		}
	}

	if cfg.RateLimit.Enabled {
		var limiter middleware.Limiter
		if deps.Redis != nil {
			window := cfg.RateLimit.Window
			limiter = middleware.NewRedisLimiter(deps.Redis, middleware.WindowLimit(cfg.RateLimit.RequestsPerSecond, window), window)
		} else {
			limiter = middleware.NewLocalLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		}
		deps.RateLimitMiddleware = middleware.NewRateLimitMiddleware(limiter, logger)
	}

	deps.PredictionService = service.NewPredictionService(deps.Provider, cfg.Model.Path, logger)
	deps.Handlers = Handlers{
		Health: handler.NewHealthHandler(handler.BuildInfo{
			Version:      appVersion,
			ModelPath:    model.RedactLocation(cfg.Model.Path),
			ReloadPolicy: cfg.Model.ReloadPolicy,
			AuthMode:     validator.Name(),
		}),
		Prediction: handler.NewPredictionHandler(deps.PredictionService, logger),
	}

	return deps, nil
}

func (d *Dependencies) initProvider() error {
	cfg := d.Config.Model

	if cfg.Provider == config.ModelProviderRemote {
		d.Provider = model.NewRemoteProvider(cfg.RemoteURL, cfg.FetchTimeout, newBreaker("model-remote", d.Logger))
		return nil
	}

	sources := model.Sources{
		File: model.FileSource{},
		HTTP: model.NewHTTPSource(cfg.FetchTimeout, newBreaker("model-http-source", d.Logger)),
	}
	s3, err := model.NewS3Source(model.S3Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize S3 model source: %w", err)
	}
	if s3 != nil {
		sources.S3 = s3
	}

	var provider model.Provider = model.NewTreeProvider(sources, d.Logger)
	if cfg.CachesModel() {
		cache, err := model.NewCachingProvider(provider, cfg.CacheSize, d.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize model cache: %w", err)
		}
		d.ModelCache = cache
		provider = cache
	}
	d.Provider = provider
	return nil
}

// Close releases resources held by the dependencies
func (d *Dependencies) Close() {
	if d.ModelCache != nil {
		if err := d.ModelCache.Close(); err != nil {
			d.Logger.Warn("failed to close model watcher", zap.Error(err))
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn("failed to close Redis client", zap.Error(err))
		}
	}
}

func newBreaker(name string, logger *zap.Logger) *circuitbreaker.CircuitBreaker {
	cfg := circuitbreaker.DefaultConfig(name)
	cfg.OnStateChange = func(name string, from, to circuitbreaker.State) {
		logger.Warn("circuit breaker state changed",
			zap.String("breaker", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}
	return circuitbreaker.New(cfg)
}
