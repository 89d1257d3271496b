// Package server exposes the Kano engine and the tracked analyses over a
// JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	hoshinmw "github.com/blackwell-systems/hoshin/internal/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// WebAPI is the HTTP front end.
type WebAPI struct {
	router          http.Handler
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

// Config configures a WebAPI.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Tracker         Tracker
}

// NewWebAPI builds the router and the underlying http.Server.
func NewWebAPI(logger zerolog.Logger, cfg Config) *WebAPI {
	router := ConfigureRouter(logger, cfg.Tracker)
	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// ConfigureRouter returns the API routes backed by t.
func ConfigureRouter(logger zerolog.Logger, t Tracker) http.Handler {
	h := NewHandler(t)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(hoshinmw.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/classify", h.Classify)

		r.Get("/analyses", h.ListAnalyses)
		r.Post("/analyses", h.CreateAnalysis)
		r.Route("/analyses/{id}", func(r chi.Router) {
			r.Get("/", h.GetAnalysis)
			r.Delete("/", h.DeleteAnalysis)
			r.Get("/categories", h.CategoryTotals)
			r.Post("/features", h.AddFeature)
			r.Put("/features/{featureID}", h.UpdateFeature)
			r.Delete("/features/{featureID}", h.RemoveFeature)
		})

		r.Post("/comparisons", h.Compare)
		r.Get("/comparisons/latest", h.LatestComparison)
	})

	return router
}

// Handler returns the configured router.
func (w *WebAPI) Handler() http.Handler {
	return w.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (w *WebAPI) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		w.logger.Info().Msg("shutdown initiated")

		timeout := w.shutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := w.server.Shutdown(shutdownCtx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}
		return err
	}
}
