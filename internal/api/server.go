// Package api provides the HTTP API server and handlers for the Remember This application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rememberthis/remember-server/internal/config"
	"github.com/rememberthis/remember-server/internal/identity"
	"github.com/rememberthis/remember-server/internal/ratelimit"
	"github.com/rememberthis/remember-server/internal/service"
	"github.com/rememberthis/remember-server/internal/store"
)

// apiVersion is the served API version reported in the OpenAPI spec.
const apiVersion = "1.0.0"

// Services bundles the application services the handlers delegate to.
type Services struct {
	Identity *service.IdentityService
	Memory   *service.MemoryService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store          store.Store
	services       *Services
	tokens         *identity.TokenVerifier
	webhooks       *identity.WebhookVerifier
	submitLimiter  *ratelimit.KeyedRateLimiter
	webhookLimiter *ratelimit.KeyedRateLimiter
	router         *chi.Mux
	api            huma.API
	logger         *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg *config.Config, st store.Store, services *Services, tokens *identity.TokenVerifier, webhooks *identity.WebhookVerifier, logger *slog.Logger) *Server {
	s := &Server{
		store:          st,
		services:       services,
		tokens:         tokens,
		webhooks:       webhooks,
		submitLimiter:  ratelimit.New(cfg.RateLimit.SubmitRPS, cfg.RateLimit.SubmitBurst),
		webhookLimiter: ratelimit.New(cfg.RateLimit.WebhookRPS, cfg.RateLimit.WebhookBurst),
		router:         chi.NewRouter(),
		logger:         logger,
	}

	s.setupMiddleware(cfg)

	humaConfig := huma.DefaultConfig(cfg.Server.Name, apiVersion)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerMemoryRoutes()
	s.registerConnectionRoutes()
	s.registerUserRoutes()
	s.registerWebhookRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-held resources.
func (s *Server) Close() {
	s.submitLimiter.Stop()
	s.webhookLimiter.Stop()
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(cfg *config.Config) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	if len(cfg.Server.CORSOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	s.router.Use(authMiddleware(s.tokens))
}
