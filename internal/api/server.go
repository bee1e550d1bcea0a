// Package api provides the HTTP API for the tag search dialog.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/booruapp/tagsearch-server/internal/http/response"
	"github.com/booruapp/tagsearch-server/internal/ratelimit"
	"github.com/booruapp/tagsearch-server/internal/store"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

// Options configures transport concerns of the server.
type Options struct {
	CORSOrigins    []string
	RateLimitRPM   int
	MaxUploadBytes int64
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    *store.Store
	services *Services
	opts     Options
	router   *chi.Mux
	api      huma.API
	limiter  *ratelimit.KeyedRateLimiter
	logger   *slog.Logger
	now      func() time.Time
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(store *store.Store, services *Services, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		store:    store,
		services: services,
		opts:     opts,
		router:   chi.NewRouter(),
		limiter:  ratelimit.PerMinute(opts.RateLimitRPM),
		logger:   logger,
		now:      time.Now,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("TagSearch API", Version)
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	s.limiter.Stop()
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins(s.opts.CORSOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	s.router.Use(rateLimitMiddleware(s.limiter, s.logger))

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route not found", s.logger)
	})
}

// setupRoutes registers every operation.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerQueryRoutes()
	s.registerDialogRoutes()
	s.registerImageRoutes()
	s.registerTagRoutes()
	s.registerPreferencesRoutes()
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
