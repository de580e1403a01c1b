// Package metrics exposes authentication attempts to Prometheus.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/domain"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/ports"
)

// unknownRole replaces caller-supplied role strings that are not a known
// role so the label set stays bounded.
const unknownRole = "unknown"

// AuthMetrics records every attempt as a counter sample and a latency
// observation. It implements ports.AuthEventRecorder.
type AuthMetrics struct {
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ ports.AuthEventRecorder = (*AuthMetrics)(nil)

// NewAuthMetrics registers the collectors with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	factory := promauto.With(reg)
	return &AuthMetrics{
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts by role, result and reason",
		}, []string{"role", "result", "reason"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "auth_attempt_duration_seconds",
			Help:    "Histogram of authentication attempt latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"role"}),
	}
}

func (m *AuthMetrics) RecordAttempt(_ context.Context, evt ports.AuthAttemptEvent) error {
	role := labelRole(evt.Role)
	reason := evt.Reason
	if reason == "" {
		reason = "none"
	}
	m.attempts.WithLabelValues(role, evt.Result, reason).Inc()
	m.duration.WithLabelValues(role).Observe(evt.Duration.Seconds())
	return nil
}

func labelRole(raw string) string {
	role, err := domain.ParseRole(raw)
	if err != nil {
		return unknownRole
	}
	return role.String()
}
