// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.

# Middleware Ordering

The chain order is load-bearing: identity resolution must precede the CSRF
mutation guard so that a missing session yields a 401 from RequireAuth rather
than a misleading 403 from the guard, and the global rate limiter must sit in
front of everything expensive.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bracketon/bracketon/internal/platform/config"
	"github.com/bracketon/bracketon/internal/platform/constants"
	"github.com/bracketon/bracketon/internal/platform/middleware"
	"github.com/bracketon/bracketon/internal/platform/ratelimit"
	"github.com/bracketon/bracketon/internal/tournament"
	"github.com/bracketon/bracketon/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the identity lifecycle (register, login, OTP, recovery).
	Auth *auth.Handler

	// Tournament handles the competition catalog and team sign-ups.
	Tournament *tournament.Handler
}

// # Security Dependencies

// Guards groups the security primitives the global middleware chain needs.
type Guards struct {
	// Sessions verifies signed session tokens into identities.
	Sessions middleware.SessionVerifier

	// CSRF verifies user-bound CSRF tokens on mutations.
	CSRF middleware.CSRFVerifier

	// Limiter is the shared fixed-window request limiter.
	Limiter *ratelimit.Limiter
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg *config.Config, log *slog.Logger, guards Guards, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(guards.Limiter, ratelimit.GeneralAPI))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(guards.Sessions))
	r.Use(middleware.MutationGuard(guards.CSRF, constants.GuardExemptPaths))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/tournaments", h.Tournament.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
