// Package server provides HTTP server management and lifecycle handling for
// the chemspace API. It includes server setup, middleware configuration,
// route management and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quimed/chemspace-api/chem"
	"github.com/quimed/chemspace-api/config"
	"github.com/quimed/chemspace-api/data"
	"github.com/quimed/chemspace-api/handlers"
	"github.com/quimed/chemspace-api/logging"
	"github.com/quimed/chemspace-api/metrics"
)

// Server represents the HTTP server
type Server struct {
	server        *http.Server
	router        chi.Router
	dataContainer *data.DataContainer
	chemService   *chem.Client
	config        *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, dataContainer *data.DataContainer, chemService *chem.Client) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:        router,
		dataContainer: dataContainer,
		chemService:   chemService,
		config:        cfg,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(logging.DefaultLoggingService.Logger))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Metrics)
	s.router.Use(RequestSizeMiddleware(s.config))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(RateLimitHandler)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Dataset browsing
	s.router.Get("/drugs", handlers.ServeAllDrugs(s.dataContainer))
	s.router.Get("/drugs/page/{pageNumber}", handlers.ServePagedDrugs(s.dataContainer))
	s.router.Get("/drugs/search/{term}", handlers.SearchDrugs(s.dataContainer))
	s.router.Get("/drugs/{name}", handlers.GetDrug(s.dataContainer, s.chemService))
	s.router.Get("/drugs/{name}/radar", handlers.DrugRadar(s.dataContainer))
	s.router.Get("/drugs/{name}/structure", handlers.DrugStructure(s.dataContainer, s.chemService))

	// Statistics and charts
	s.router.Get("/descriptors", handlers.Descriptors())
	s.router.Get("/stats/summary", handlers.StatsSummary(s.dataContainer))
	s.router.Get("/stats/periods/{descriptor}", handlers.PeriodComparison(s.dataContainer))
	s.router.Get("/plots/scatter", handlers.ScatterPlot(s.dataContainer))

	// Educational content
	s.router.Get("/overview", handlers.Overview())
	s.router.Get("/glossary", handlers.Glossary())

	// Operational endpoints
	s.router.Get("/health", handlers.HealthCheck(s.dataContainer))
	s.router.Handle("/metrics", promhttp.Handler())
}

// Start starts the HTTP server
func (s *Server) Start() error {
	logging.Info("Starting server", "addr", s.server.Addr, "env", s.config.Env)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed to start: %w", err)
	}

	return nil
}

// Shutdown attempts a graceful shutdown, force-closing if the context
// expires first.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		if closeErr := s.server.Close(); closeErr != nil {
			return fmt.Errorf("server close failed: %w", closeErr)
		}
		return err
	}

	return nil
}
