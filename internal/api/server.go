// Package api provides the HTTP API server and handlers for the notebook
// application.
package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ytnotebook/ytnotebook/internal/logger"
	"github.com/ytnotebook/ytnotebook/internal/ratelimit"
	"github.com/ytnotebook/ytnotebook/internal/search"
	"github.com/ytnotebook/ytnotebook/internal/service"
	"github.com/ytnotebook/ytnotebook/internal/store"
)

// Services groups the business logic used by the API server.
type Services struct {
	Auth      *service.AuthService
	Notebook  *service.NotebookService
	Video     *service.VideoService
	Timestamp *service.TimestampService
	Chat      *service.ChatService
	Search    *search.SearchIndex // health checks only
}

// Options tunes the HTTP surface.
type Options struct {
	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string
	// AuthLimiter throttles /login and /signup per client IP. Nil disables it.
	AuthLimiter *ratelimit.KeyedRateLimiter
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    store.Store
	services *Services
	opts     Options
	router   *chi.Mux
	api      huma.API
	logger   *logger.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, opts Options, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}

	router := chi.NewRouter()
	s := &Server{
		store:    st,
		services: services,
		opts:     opts,
		router:   router,
		logger:   log.WithComponent("api"),
	}
	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("YouTube Notebook API", "1.0.0")
	humaConfig.Info.Description = "Notebooks, transcripts and chat sessions for YouTube videos."
	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if s.opts.AuthLimiter != nil {
		s.router.Use(onlyPaths(RateLimitMiddleware(s.opts.AuthLimiter, s.logger), "/login", "/signup"))
	}
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerVideoRoutes()
	s.registerNotebookRoutes()
	s.registerChatRoutes()
}
