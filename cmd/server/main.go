package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KirMaid/CloudCS-Lab1/internal/config"
	"github.com/KirMaid/CloudCS-Lab1/internal/middleware"
	"github.com/KirMaid/CloudCS-Lab1/internal/model"
	"github.com/KirMaid/CloudCS-Lab1/internal/pkg/logger"
)

const appVersion = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Log

	sentryEnabled := cfg.Sentry.Enabled()
	if sentryEnabled {
		sentryConfig := middleware.SentryConfig{
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			Release:     "penguin-api@" + appVersion,
			SampleRate:  cfg.Sentry.SampleRate,
		}
		if sentryConfig.Environment == "" {
			sentryConfig.Environment = cfg.Server.Env
		}

		if err := middleware.InitSentry(sentryConfig); err != nil {
			log.Error("failed to initialize Sentry", zap.Error(err))
			sentryEnabled = false
		} else {
			log.Info("Sentry initialized", zap.String("environment", sentryConfig.Environment))
			defer middleware.FlushSentry(5 * time.Second)
		}
	}

	deps, err := initDependencies(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close()

	app := newApp(deps, sentryEnabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting server",
			zap.String("addr", cfg.Server.Addr()),
			zap.String("model_path", model.RedactLocation(cfg.Model.Path)),
			zap.String("reload_policy", cfg.Model.ReloadPolicy),
			zap.String("auth_mode", deps.CredentialValidator.Name()),
		)
		if err := app.Listen(cfg.Server.Addr()); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	if deps.ModelCache != nil {
		g.Go(func() error {
			return deps.ModelCache.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server stopped with error", zap.Error(err))
		return err
	}

	log.Info("server stopped")
	return nil
}
