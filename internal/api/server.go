// Package api provides the HTTP server for Stride.
// It exposes the coach engine as a small JSON API consumed by the app shell.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stride-coach/stride/internal/app/coach"
)

// Server is the Stride HTTP API server.
type Server struct {
	svc            *coach.Service
	defaultUser    string
	metricsEnabled bool
}

// NewServer creates a new API server. defaultUser is used when a request
// does not name an account explicitly.
func NewServer(svc *coach.Service, defaultUser string) *Server {
	return &Server{svc: svc, defaultUser: defaultUser}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Minute))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": "0.1.0",
		})
	})

	r.Route("/api/coach", func(r chi.Router) {
		r.Post("/checkin", s.handleCheckin)
		r.Get("/summary", s.handleSummary)
		r.Get("/momentum/{date}", s.handleMomentumDay)
		r.Get("/momentum", s.handleMomentumRange)
		r.Post("/focus", s.handleSetFocus)
		r.Get("/commitment", s.handleCommitment)
		r.Post("/commitment/offer", s.handleCommitmentOffer)
		r.Post("/commitment/accept", s.handleCommitmentAccept)
		r.Post("/commitment/decline", s.handleCommitmentDecline)
		r.Get("/levelup", s.handleLevelUpStatus)
		r.Post("/levelup/accept", s.handleLevelUpAccept)
		r.Post("/levelup/decline", s.handleLevelUpDecline)
		r.Get("/toasts", s.handleToasts)
		r.Post("/toasts/{id}/shown", s.handleToastShown)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// user resolves the account for a request: explicit query param wins,
// otherwise the configured default.
func (s *Server) user(r *http.Request) string {
	if email := r.URL.Query().Get("email"); email != "" {
		return email
	}
	return s.defaultUser
}

// date resolves the calendar date for a request, defaulting to today.
func date(r *http.Request) string {
	if d := r.URL.Query().Get("date"); d != "" {
		return d
	}
	return todayKey()
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
