package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/domain"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/ports"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/logging"
)

// AuthService builds an identity for each request, verifies it and maps the
// result onto a domain.Outcome. It holds no per-request state and is safe
// for concurrent use as long as its collaborators are.
type AuthService struct {
	store     ports.CredentialStore
	hasher    ports.PasswordHasher
	recorders []ports.AuthEventRecorder
	logger    *slog.Logger
	now       func() time.Time
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(
	store ports.CredentialStore,
	hasher ports.PasswordHasher,
	logger *slog.Logger,
	recorders ...ports.AuthEventRecorder,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		store:     store,
		hasher:    hasher,
		recorders: recorders,
		logger:    logger.With("component", "auth-service"),
		now:       time.Now,
	}
}

// Authenticate never fails on malformed input: unknown roles and missing
// fields resolve to a denial. A non-nil error is always a *domain.StorageError.
func (s *AuthService) Authenticate(ctx context.Context, creds domain.Credentials) (domain.Outcome, error) {
	start := s.now()

	identity, err := NewIdentity(creds.Role, creds.UserID, creds.Password, creds.Year)
	if err != nil {
		reason := domain.ReasonUnknownRole
		var roleErr *domain.RoleError
		if errors.As(err, &roleErr) {
			reason = roleErr.Reason()
		}
		s.logger.DebugContext(ctx, "request rejected before lookup",
			"role", creds.Role,
			"principal_id", creds.UserID,
			"reason", reason,
		)
		outcome := domain.Deny(reason)
		s.record(ctx, creds, outcome, nil, start)
		return outcome, nil
	}

	outcome, err := identity.Verify(ctx, s.store, s.hasher)
	if err != nil {
		logging.LogError(s.logger.With("role", creds.Role, "principal_id", creds.UserID), "credential lookup failed", err)
		s.record(ctx, creds, domain.Outcome{}, err, start)
		return domain.Deny(domain.ReasonNone), err
	}

	if outcome.Granted() {
		s.logger.InfoContext(ctx, "authentication granted",
			"role", identity.Role().String(),
			"principal_id", identity.PrincipalID(),
		)
	} else {
		s.logger.InfoContext(ctx, "authentication denied",
			"role", identity.Role().String(),
			"principal_id", identity.PrincipalID(),
			"reason", outcome.Reason,
		)
	}

	s.record(ctx, creds, outcome, nil, start)
	return outcome, nil
}

func (s *AuthService) record(ctx context.Context, creds domain.Credentials, outcome domain.Outcome, verifyErr error, start time.Time) {
	if len(s.recorders) == 0 {
		return
	}

	evt := ports.AuthAttemptEvent{
		EventID:     uuid.NewString(),
		Role:        creds.Role,
		PrincipalID: creds.UserID,
		OccurredAt:  start.UTC(),
		Duration:    s.now().Sub(start),
	}
	switch {
	case verifyErr != nil:
		evt.Result = ports.ResultError
	case outcome.Granted():
		evt.Result = ports.ResultGranted
	default:
		evt.Result = ports.ResultDenied
		evt.Reason = string(outcome.Reason)
	}

	for _, r := range s.recorders {
		if err := r.RecordAttempt(ctx, evt); err != nil {
			logging.LogError(s.logger.With("event_id", evt.EventID), "failed to record auth attempt", err)
		}
	}
}
