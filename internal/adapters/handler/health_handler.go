package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

const readinessTimeout = 5 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// BreakerReporter is satisfied by the SQL repository.
type BreakerReporter interface {
	BreakerState() gobreaker.State
}

type HealthHandler struct {
	db        Pinger
	breaker   BreakerReporter
	startTime time.Time
	version   string
	logger    *slog.Logger
}

func NewHealthHandler(db Pinger, breaker BreakerReporter, version string, logger *slog.Logger) *HealthHandler {
	if version == "" {
		version = "unknown"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		db:        db,
		breaker:   breaker,
		startTime: time.Now(),
		version:   version,
		logger:    logger.With("component", "health-handler"),
	}
}

// HealthResponse follows Kubernetes/OpenShift health check conventions
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime,omitempty"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health is a simple liveness check - just confirms the Go process is running
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.write(w, http.StatusOK, HealthResponse{
		Status:    "UP",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    map[string]Check{"process": {Status: "UP"}},
	})
}

// Live is an alias for Health
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.Health(w, r)
}

// Ready reports whether logins can currently be answered: the database
// must respond and the lookup breaker must not be open.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"database":        h.checkDatabase(r.Context()),
		"circuit_breaker": h.checkBreaker(),
	}

	status := "UP"
	httpStatus := http.StatusOK
	for _, c := range checks {
		if c.Status != "UP" {
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	h.write(w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Checks:    checks,
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	if h.db == nil {
		return Check{Status: "DOWN", Message: "Database connection is not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("readiness: database ping failed", "error", err)
		return Check{Status: "DOWN", Message: "Cannot connect to database"}
	}
	return Check{Status: "UP"}
}

func (h *HealthHandler) checkBreaker() Check {
	if h.breaker == nil {
		return Check{Status: "UP"}
	}
	state := h.breaker.BreakerState()
	if state == gobreaker.StateOpen {
		return Check{Status: "DOWN", Message: "Credential store circuit breaker is open"}
	}
	return Check{Status: "UP", Message: state.String()}
}

func (h *HealthHandler) write(w http.ResponseWriter, status int, body HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
