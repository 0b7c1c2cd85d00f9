package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Guliveer/simhub/internal/metrics"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := newBaseRouter(s.logger, s.metrics)
	mountOps(r, s.metrics, s.version)

	r.Route("/api", func(r chi.Router) {
		r.Get("/devices", s.handleDevices)
		r.Post("/light", s.handleLight)
		r.Post("/thermostat", s.handleThermostat)
		r.Post("/camera", s.handleCamera)
		r.Get("/report", s.handleReport)
	})

	return r
}

// OpsHandler returns a router serving only /health and /metrics.
func OpsHandler(logger *zap.Logger, m *metrics.Metrics, version string) http.Handler {
	r := newBaseRouter(logger, m)
	mountOps(r, m, version)
	return r
}

func newBaseRouter(logger *zap.Logger, m *metrics.Metrics) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLog(logger))
	r.Use(chimw.Recoverer)
	r.Use(instrument(m))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

func mountOps(r chi.Router, m *metrics.Metrics, version string) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   version,
		})
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())
}
