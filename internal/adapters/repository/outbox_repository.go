package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/samber/oops"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/config"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/ports"
)

// OutboxChannel is the NOTIFY channel the relay listens on.
const OutboxChannel = "auth_outbox_channel"

// OutboxRecorder persists auth attempts into the auth_outbox table so the
// relay can publish them. The insert and the notification share a
// transaction: listeners never hear about a row that was rolled back.
type OutboxRecorder struct {
	db *sql.DB
	cb *gobreaker.CircuitBreaker
}

var _ ports.AuthEventRecorder = (*OutboxRecorder)(nil)

func NewOutboxRecorder(db *sql.DB) *OutboxRecorder {
	return &OutboxRecorder{
		db: db,
		cb: config.NewCircuitBreaker(config.BreakerOutbox),
	}
}

func (r *OutboxRecorder) RecordAttempt(ctx context.Context, evt ports.AuthAttemptEvent) error {
	// jsonb rejects \u0000; the id is client input and may carry one
	evt.PrincipalID = strings.ReplaceAll(evt.PrincipalID, "\x00", "\uFFFD")
	payload, err := json.Marshal(evt)
	if err != nil {
		return oops.Code("OUTBOX_ENCODE_FAILED").With("event_id", evt.EventID).Wrap(err)
	}

	_, err = r.cb.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO auth_outbox (id, event_type, payload, created_at)
			VALUES ($1, $2, $3, $4)`,
			evt.EventID, ports.AuthAttemptEventType, payload, evt.OccurredAt,
		); err != nil {
			return nil, err
		}

		if _, err := tx.ExecContext(ctx, `SELECT pg_notify($1, $2)`, OutboxChannel, evt.EventID); err != nil {
			return nil, err
		}

		return nil, tx.Commit()
	})
	if err != nil {
		return oops.Code("OUTBOX_INSERT_FAILED").
			With("operation", "record auth attempt").
			With("event_id", evt.EventID).
			Wrap(err)
	}
	return nil
}
