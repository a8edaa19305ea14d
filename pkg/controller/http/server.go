package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/cadport/pkg/domain/interfaces"
)

// config holds internal HTTP server configuration
type config struct {
	addr           string
	metricsHandler http.Handler
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithMetricsHandler exposes h at /metrics
func WithMetricsHandler(h http.Handler) Option {
	return func(c *config) {
		c.metricsHandler = h
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	authUC interfaces.AuthUseCase,
	searchUC interfaces.SearchUseCase,
	libraryUC interfaces.LibraryUseCase,
	opts ...Option,
) (*Server, error) {
	if authUC == nil || searchUC == nil || libraryUC == nil {
		return nil, goerr.New("all use cases are required")
	}

	// Default configuration
	cfg := &config{
		addr: "localhost:8080",
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	// Health check
	router.Get("/health", handleHealth)
	if cfg.metricsHandler != nil {
		router.Method(http.MethodGet, "/metrics", cfg.metricsHandler)
	}

	authHandler := NewAuthHandler(authUC)
	partsHandler := NewPartsHandler(searchUC)
	libraryHandler := NewLibraryHandler(libraryUC)

	router.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Get("/auth/status", authHandler.Status)
		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/parts/search", partsHandler.Search)
		r.Post("/library/download", libraryHandler.Download)
	})

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
