// Package rest exposes the recommendation service over HTTP.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ewilliams-labs/moodcast/internal/core/services"
)

// ReadyFunc reports whether the service can take traffic.
type ReadyFunc func(ctx context.Context) error

// Options configures the HTTP surface.
type Options struct {
	CORSOrigins []string
	// RateLimit is requests per minute per client IP. Zero disables it.
	RateLimit int
	Ready     ReadyFunc
}

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc    *services.Orchestrator
	ready  ReadyFunc
	router chi.Router
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc *services.Orchestrator, opts Options) *Handler {
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	h := &Handler{
		svc:    svc,
		ready:  opts.Ready,
		router: chi.NewRouter(),
	}

	h.router.Use(chimiddleware.RequestID)
	h.router.Use(requestContext)
	h.router.Use(chimiddleware.RealIP)
	h.router.Use(requestLogger)
	h.router.Use(chimiddleware.Recoverer)
	h.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	h.routes(opts.RateLimit)

	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes(rateLimit int) {
	h.router.Get("/health", h.HealthCheck)
	h.router.Get("/ready", h.ReadyCheck)
	h.router.Handle("/metrics", promhttp.Handler())

	h.router.Group(func(r chi.Router) {
		if rateLimit > 0 {
			r.Use(httprate.LimitByIP(rateLimit, time.Minute))
		}
		r.Get("/recommend", h.Recommend)
		r.Get("/recommend/regenerate", h.Regenerate)
		r.Get("/api/weather/{city}", h.Weather)
	})
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyCheck reports whether the catalog can be reached.
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
