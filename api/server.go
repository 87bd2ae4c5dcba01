// Package api provides the HTTP REST API server for ADRisk.
//
// It is a thin presentation boundary: every endpoint returns the raw
// analytics value objects as JSON, never formatted strings. Rendering
// percentages, tables or charts is the client's job.
package api

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/southquant/adrisk/internal/config"
	"github.com/southquant/adrisk/internal/datasource"
	"github.com/southquant/adrisk/internal/portfolio"
)

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	provider datasource.PriceProvider
	analyzer *portfolio.Analyzer
}

// NewServer creates a configured API server with all routes and
// middleware, backed by the given price provider.
func NewServer(cfg *config.Config, provider datasource.PriceProvider) *Server {
	analyzer := portfolio.New(provider, portfolio.Config{
		RiskFreeRate:        cfg.Analysis.RiskFreeRate,
		PeriodsPerYear:      cfg.Analysis.PeriodsPerYear,
		FrontierSamples:     cfg.Frontier.Samples,
		FrontierSeed:        cfg.Frontier.Seed,
		Benchmark:           cfg.Analysis.Benchmark,
		MinCAPMObservations: cfg.Analysis.MinCAPMObservations,
		Concurrency:         cfg.Analysis.ConcurrentFetches,
	})

	s := &Server{
		cfg:      cfg,
		provider: provider,
		analyzer: analyzer,
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Universe and raw data
		r.Get("/universe", s.handleUniverse)
		r.Get("/prices/{symbol}", s.handlePrices)

		// Per-instrument analytics
		r.Get("/metrics/{symbol}", s.handleMetrics)
		r.Get("/capm/{symbol}", s.handleCAPM)
		r.Get("/normality/{symbol}", s.handleNormality)

		// Portfolio-level analytics
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/frontier", s.handleFrontier)
	})

	return r
}
