// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

// Command api is the entry point for the Bracketon HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables (.env in development).
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Initialize the security primitives (session codec, CSRF binder, limiter).
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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

	"github.com/joho/godotenv"

	"github.com/bracketon/bracketon/internal/api"
	"github.com/bracketon/bracketon/internal/notify"
	"github.com/bracketon/bracketon/internal/platform/config"
	"github.com/bracketon/bracketon/internal/platform/constants"
	"github.com/bracketon/bracketon/internal/platform/migration"
	pgstore "github.com/bracketon/bracketon/internal/platform/postgres"
	"github.com/bracketon/bracketon/internal/platform/ratelimit"
	redisstore "github.com/bracketon/bracketon/internal/platform/redis"
	"github.com/bracketon/bracketon/internal/platform/sec"
	"github.com/bracketon/bracketon/internal/tournament"
	"github.com/bracketon/bracketon/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Bracketon] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	// .env files are a development convenience; absence is not an error.
	if err := godotenv.Load(); err == nil {
		log.Info("dotenv_loaded")
	}

	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
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

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security Primitives ────────────────────────────────────────────
	sessionCodec, err := sec.NewSessionCodec(cfg.SessionSecret, constants.AuthIssuer, constants.SessionTokenTTL)
	must(log, err, "initialize session codec")

	csrfBinder := sec.NewCSRFBinder(cfg.CSRFSecret, constants.CSRFTokenTTL)
	if cfg.CSRFSecret == "" {
		log.Warn("csrf_secret_ephemeral",
			slog.String("detail", "CSRF_SECRET not set; outstanding CSRF tokens will not survive a restart"),
		)
	}

	// The process lifetime context drives the limiter's background sweep.
	processCtx, processCancel := context.WithCancel(context.Background())
	defer processCancel()

	limiter := ratelimit.New()
	go limiter.Sweep(processCtx)

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.ProbeTargets{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	otpRepository := auth.NewOTPRepository(rdb)
	resetTokenRepository := auth.NewResetTokenRepository(rdb)
	dispatcher := notify.NewLogDispatcher(log)

	authService := auth.NewService(userRepository, otpRepository, resetTokenRepository, sessionCodec, csrfBinder, dispatcher)
	authHandler := auth.NewHandler(authService, limiter, cfg.IsProduction())

	tournamentRepository := tournament.NewRepository(pool)
	registrationRepository := tournament.NewRegistrationRepository(pool)
	tournamentService := tournament.NewService(tournamentRepository, registrationRepository)
	tournamentHandler := tournament.NewHandler(tournamentService, userRepository)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       authHandler,
		Tournament: tournamentHandler,
	}

	guards := api.Guards{
		Sessions: sessionCodec,
		CSRF:     csrfBinder,
		Limiter:  limiter,
	}

	server := api.NewServer(cfg, log, guards, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
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
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Stop the limiter sweep alongside the server.
	processCancel()

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
