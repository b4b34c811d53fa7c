// Package web provides the JSON HTTP API used by the VibeCast mobile app.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:8080"

// ServerConfig holds server configuration and the services it exposes.
type ServerConfig struct {
	Addr               string
	JWTSecret          string
	JWTAudience        string
	RateLimitPerMinute int // 0 disables rate limiting

	Journal     Journal
	Recommender Recommender
	Sessions    SessionRegistry
	// Health reports whether backing services are reachable. Optional.
	Health func(ctx context.Context) error

	Logger *zap.Logger
}

// Server is the HTTP server for the API.
type Server struct {
	router   chi.Router
	server   *http.Server
	handlers *Handlers
	auth     *Authenticator
	log      *zap.Logger
	rate     int
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Journal == nil || cfg.Recommender == nil || cfg.Sessions == nil {
		return nil, errors.New("journal, recommender and sessions are required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	authn, err := NewAuthenticator(cfg.JWTSecret, cfg.JWTAudience)
	if err != nil {
		return nil, fmt.Errorf("creating authenticator: %w", err)
	}

	router := chi.NewRouter()

	s := &Server{
		router:   router,
		handlers: NewHandlers(cfg.Journal, cfg.Recommender, cfg.Sessions, cfg.Health, log),
		auth:     authn,
		log:      log,
		rate:     cfg.RateLimitPerMinute,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(RequestLogger(s.log))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handlers.Health)

	s.router.Route("/api", func(r chi.Router) {
		if s.rate > 0 {
			r.Use(httprate.LimitByIP(s.rate, time.Minute))
		}

		r.Get("/moods", s.handlers.Moods)

		r.Group(func(r chi.Router) {
			r.Use(s.auth.Middleware)

			r.Route("/entries", func(r chi.Router) {
				r.Get("/", s.handlers.ListEntries)
				r.Post("/", s.handlers.CreateEntry)
				r.Get("/latest", s.handlers.LatestEntry)
				r.Get("/stats", s.handlers.EntryStats)
				r.Patch("/{id}", s.handlers.UpdateEntry)
				r.Delete("/{id}", s.handlers.DeleteEntry)
			})

			r.Route("/recommendations", func(r chi.Router) {
				r.Get("/", s.handlers.Recommendations)
				r.Get("/current", s.handlers.CurrentRecommendations)
				r.Delete("/", s.handlers.ClearRecommendations)
			})
		})
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.log.Info("starting server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and shuts it down gracefully on SIGINT, SIGTERM
// or when ctx is done.
func (s *Server) Run(ctx context.Context) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
	case <-ctx.Done():
	}
	s.log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.log.Info("server stopped")
	return nil
}
