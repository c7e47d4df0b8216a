// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api is the HTTP composition root: it builds the chi router, applies
the middleware chain and mounts every domain handler under /api/v1.

Route map:

	GET  /health, /ready
	/api/v1/auth          signup, token
	/api/v1/users         admin CRUD, me
	/api/v1/categories    reference list/create/delete
	/api/v1/genres        reference list/create/delete
	/api/v1/titles        catalogue, with /{title_id}/reviews nested
	    /{review_id}/comments nested under reviews
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/core/review"
	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/config"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

// Server owns the [http.Server] serving the YaMDb API.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Handlers is everything [NewServer] mounts. All fields are required.
type Handlers struct {
	// Liveness is the /health handler. Always 200 while the process runs.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. 200 only when every dependency answers.
	Readiness http.HandlerFunc

	// Auth handles signup and token exchange.
	Auth *auth.Handler

	// Users handles account administration and the caller's own profile.
	Users *account.Handler

	// Categories and Genres share one handler type, one instance per kind.
	Categories *reference.Handler
	Genres     *reference.Handler

	// Titles handles the catalogue; Reviews is nested under each title.
	Titles  *title.Handler
	Reviews *review.Handler
}

/*
NewServer builds the router and the underlying [http.Server].

Parameters:
  - context: Bounds background work started here (the rate limiter sweeper)
  - cfg: Port, CORS origins and rate limits
  - verifier: Checks bearer tokens
  - resolver: Reloads the caller's current role and active flag per request

Returns:
  - *Server: Ready for [Server.ListenAndServe]
*/
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, resolver middleware.IdentityResolver, h Handlers) *Server {
	r := chi.NewRouter()

	// Order matters: the request ID must exist before logging, and panics are
	// recovered inside the logger so the 500 is still recorded.
	r.Use(middleware.RequestID())
	r.Use(middleware.ClientIP(cfg.TrustedProxyPrefixes()))
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.NewRateLimiter(context, cfg.RateLimitRPS, cfg.RateLimitBurst).Handler)
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier, resolver))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	mountRoutes(r, h)

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

func mountRoutes(r chi.Router, h Handlers) {
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/users", h.Users.Routes())
		api.Mount("/categories", h.Categories.Routes())
		api.Mount("/genres", h.Genres.Routes())
		api.Route("/titles", func(titles chi.Router) {
			h.Titles.Mount(titles)
			titles.Mount("/{title_id}/reviews", h.Reviews.Routes())
		})
	})

	r.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.NotFound("Route"))
	})
	r.MethodNotAllowed(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.MethodNotAllowed(request.Method))
	})
}

// ListenAndServe blocks until the server stops. It returns
// [http.ErrServerClosed] after a graceful [Server.Shutdown].
func (s *Server) ListenAndServe() error {
	s.log.Info("http_server_listening", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits up to timeout for
// in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
