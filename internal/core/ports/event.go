package ports

import (
	"context"
	"time"
)

// AuthAttemptEventType tags outbox rows carrying an AuthAttemptEvent.
const AuthAttemptEventType = "auth.attempt"

const (
	ResultGranted = "granted"
	ResultDenied  = "denied"
	ResultError   = "error"
)

// AuthAttemptEvent describes one authentication attempt. It never carries
// the supplied password.
type AuthAttemptEvent struct {
	EventID     string        `json:"event_id"`
	Role        string        `json:"role"`
	PrincipalID string        `json:"principal_id"`
	Result      string        `json:"result"`
	Reason      string        `json:"reason,omitempty"`
	OccurredAt  time.Time     `json:"occurred_at"`
	Duration    time.Duration `json:"duration_ns"`
}

// AuthEventRecorder observes attempts as the service finishes them.
type AuthEventRecorder interface {
	RecordAttempt(ctx context.Context, evt AuthAttemptEvent) error
}

// AuthEventPublisher ships recorded attempts to downstream consumers.
type AuthEventPublisher interface {
	PublishAuthAttempt(ctx context.Context, evt AuthAttemptEvent) error
}
