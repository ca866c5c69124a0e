package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/estsyntax/internal/config"
	"github.com/dgallion1/estsyntax/internal/pipeline"
	"github.com/dgallion1/estsyntax/internal/syntax"
)

// Server is the HTTP API server for estsyntax.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	defaults     syntax.Options
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. defaults are the
// normalization options used when a request does not override them.
func NewServer(orch *pipeline.Orchestrator, defaults syntax.Options, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		defaults:     defaults,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/parse", s.handleParse)

		r.Post("/api/jobs", s.handleSubmitJob)
		r.Route("/api/jobs/{jobID}", func(r chi.Router) {
			r.Get("/status", s.handleJobStatus)
			r.Get("/result", s.handleJobResult)
			r.Get("/report", s.handleJobReport)
			r.Get("/trees", s.handleJobTrees)
		})

		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
