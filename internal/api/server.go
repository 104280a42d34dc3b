// Copyright (c) 2026 RepSet. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, the
authorization gate, and the upstream proxy into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/edge are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/repset/edge/internal/gate"
	"github.com/repset/edge/internal/platform/config"
	"github.com/repset/edge/internal/platform/constants"
	"github.com/repset/edge/internal/platform/middleware"
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

// Handlers groups the endpoint handlers the server mounts.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Upstream serves every gated route by proxying to the application.
	Upstream http.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain, mounts
// the health probes outside the gate, and routes everything else through the
// gate into the upstream proxy.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, requestGate *gate.Gate, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration. These never
	// pass through the gate: an auth-provider outage must not fail the probes.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Gated Application Surface
	// Every remaining path is evaluated by the gate and, when allowed,
	// proxied to the upstream application.
	r.Group(func(gated chi.Router) {
		gated.Use(gate.Middleware(requestGate, cfg))
		gated.Handle("/*", h.Upstream)
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
