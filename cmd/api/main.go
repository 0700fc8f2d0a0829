// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the signup HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Install the tracer provider.
//  4. Connect to PostgreSQL (pgxpool).
//  5. Connect to Redis.
//  6. Run database migrations (idempotent).
//  7. Load signing keys and build the token service.
//  8. Build the SMTP mailer.
//  9. Wire the registration domain.
//  10. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/signup/internal/api"
	"github.com/taibuivan/signup/internal/platform/config"
	"github.com/taibuivan/signup/internal/platform/constants"
	"github.com/taibuivan/signup/internal/platform/mail"
	"github.com/taibuivan/signup/internal/platform/migration"
	"github.com/taibuivan/signup/internal/platform/otel"
	pgstore "github.com/taibuivan/signup/internal/platform/postgres"
	redisstore "github.com/taibuivan/signup/internal/platform/redis"
	"github.com/taibuivan/signup/internal/platform/sec"
	"github.com/taibuivan/signup/internal/users/auth"
)

// tokenNamespace prefixes every key the registration flow writes to Redis.
const tokenNamespace = "signup:"

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	level := new(slog.LevelVar)
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		level.Set(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Tracing ────────────────────────────────────────────────────────
	shutdownTracing, err := otel.Setup(startupCtx, otel.Options{
		ServiceName:    constants.AppName,
		ServiceVersion: constants.AppVersion,
		Environment:    cfg.Environment,
		Endpoint:       cfg.OTelEndpoint,
		Enabled:        cfg.OTelEnabled,
	})
	must(log, err, "install tracer provider")
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if ferr := shutdownTracing(flushCtx); ferr != nil {
			log.Error("tracer_flush_failed", slog.Any("error", ferr))
		}
	}()

	// ── 4. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 5. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 6. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 7. Token Service ──────────────────────────────────────────────────
	privateKey, err := sec.LoadKeyPEM(cfg.JWTPrivKeyPath, cfg.JWTPrivKeyPEM)
	must(log, err, "load private key")
	publicKey, err := sec.LoadKeyPEM(cfg.JWTPubKeyPath, cfg.JWTPubKeyPEM)
	must(log, err, "load public key")

	tokens, err := sec.NewTokenService(privateKey, publicKey, sec.TokenOptions{
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL(),
	})
	must(log, err, "initialize jwt service")

	// ── 8. Mailer ─────────────────────────────────────────────────────────
	mailer, err := mail.NewMailer(mail.Options{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		TLS:      cfg.SMTPTLS,
	}, log)
	must(log, err, "initialize mailer")
	defer func() {
		if cerr := mailer.Close(); cerr != nil {
			log.Error("mailer_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	authService := auth.NewService(
		auth.NewAccountRepository(pool),
		sec.NewHasher(cfg.BcryptCost),
		mailer,
		redisstore.NewTokenStore(rdb, tokenNamespace),
		tokens,
	)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	server := api.NewServer(cfg, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService, tokens, cfg.CookieSecure),
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("server_shutdown_failed", slog.Any("error", err))
		return
	}

	log.Info("server_stopped")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
