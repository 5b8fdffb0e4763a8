package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	aegis "github.com/aegisauth/aegis"
	"github.com/aegisauth/aegis/internal/config"
	transport "github.com/aegisauth/aegis/internal/http"
	"github.com/aegisauth/aegis/mail"
	"github.com/aegisauth/aegis/metrics/export/prometheus"
	"github.com/aegisauth/aegis/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Env)

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	userStore, cleanup, err := newStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open user store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	mailer, err := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		Sender:   cfg.SenderEmail,
	})
	if err != nil {
		logger.Error("failed to init mailer", "error", err)
		os.Exit(1)
	}

	engineCfg := aegis.DefaultConfig()
	engineCfg.JWT.Secret = []byte(cfg.JWTSecret)
	engineCfg.JWT.SessionTTL = cfg.JWTTTL
	engineCfg.Metrics.Enabled = cfg.MetricsEnabled

	engine, err := aegis.New().
		WithConfig(engineCfg).
		WithStore(userStore).
		WithMailer(mailer).
		Build()
	if err != nil {
		logger.Error("failed to build engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		metricsHandler = prometheus.NewPrometheusExporter(engine).Handler()
	}

	router := transport.NewRouter(transport.Dependencies{
		Engine:  engine,
		Config:  cfg,
		Logger:  logger,
		Metrics: metricsHandler,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErrors:
		logger.Error("http server stopped unexpectedly", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("http server stopped")
}

func newStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.StoreDriver {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, func() {}, fmt.Errorf("redis ping: %w", err)
		}
		return store.NewRedisStore(client), func() { _ = client.Close() }, nil

	case "postgres":
		pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, func() {}, err
		}
		if err := pg.RunMigrations(ctx); err != nil {
			pg.Close()
			return nil, func() {}, fmt.Errorf("run migrations: %w", err)
		}
		return pg, func() { pg.Close() }, nil

	case "memory":
		return store.NewMemoryStore(), func() {}, nil

	default:
		return nil, func() {}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func newLogger(env string) *slog.Logger {
	level := slog.LevelInfo
	if env != "prod" {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if env == "prod" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}
