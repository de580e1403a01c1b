package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/adapters/middleware"
)

// RouterConfig collects what NewRouter mounts. Gatherer may be nil, in
// which case /metrics is not served.
type RouterConfig struct {
	Auth           *AuthHandler
	Health         *HealthHandler
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
}

// NewRouter wires the public HTTP surface of the identity service.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	// Health endpoints (OpenShift compatible)
	r.Get("/health", cfg.Health.Health)
	r.Get("/health/live", cfg.Health.Live)
	r.Get("/health/ready", cfg.Health.Ready)

	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Post("/login", cfg.Auth.Login)

	return r
}
