// Package api exposes the analysis engine over HTTP. Handlers stay thin:
// decode the request document, call the service layer, translate errors.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"zyra/app"
	"zyra/internal"
)

// Server bundles the chi router with the service layer.
type Server struct {
	router     *chi.Mux
	analysis   *app.AnalysisService
	processing *app.ProcessingService
	reports    *app.ReportService
	configs    *app.ConfigService
	logger     *internal.Logger
}

// NewServer wires routes and middleware. The configs service may be nil
// when the process runs without a database; configuration endpoints then
// answer 404.
func NewServer(analysis *app.AnalysisService, processing *app.ProcessingService, reports *app.ReportService, configs *app.ConfigService) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		analysis:   analysis,
		processing: processing,
		reports:    reports,
		configs:    configs,
		logger:     internal.NewDefaultLogger(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/v1", func(r chi.Router) {
		r.Route("/analysis", func(r chi.Router) {
			r.Post("/eda", s.handleEDA)
			r.Post("/statistics", s.handleStatistics)
			r.Post("/clean", s.handleClean)
			r.Post("/transform", s.handleTransform)
			r.Post("/outliers", s.handleOutliers)
			r.Post("/suggestions", s.handleSuggestions)
			r.Post("/tests", s.handleRunTest)
			r.Post("/ab-test", s.handleABTest)
			r.Post("/timeseries/decompose", s.handleDecompose)
			r.Post("/drift", s.handleDrift)
			r.Post("/report", s.handleReport)
		})

		if s.configs != nil {
			r.Route("/configurations", func(r chi.Router) {
				r.Get("/", s.handleListConfigs)
				r.Post("/", s.handleCreateConfig)
				r.Get("/presets", s.handleListPresets)
				r.Post("/presets", s.handleCreateFromPreset)
				r.Get("/{id}", s.handleGetConfig)
				r.Put("/{id}", s.handleUpdateConfig)
				r.Delete("/{id}", s.handleDeleteConfig)
				r.Put("/{id}/default", s.handleSetDefaultConfig)
			})
		}
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
