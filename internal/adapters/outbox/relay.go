// Package outbox relays recorded auth attempts from the auth_outbox table
// to a message broker.
package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/lib/pq"
	"github.com/samber/oops"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/adapters/repository"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/config"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/ports"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/logging"
)

const (
	// PostgreSQL NOTIFY/LISTEN configuration
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute

	// Event processing timeouts
	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	// Health check configuration
	healthCheckStaleThreshold = 5 * time.Minute

	// Batch processing limits
	maxEventsPerBatch = 100
)

const markProcessedQuery = `UPDATE auth_outbox SET processed_at = NOW() WHERE id = $1`

// Relay listens for NOTIFY signals on the outbox channel and publishes the
// referenced rows. A periodic sweep picks up anything a notification missed.
type Relay struct {
	db        *sql.DB
	dbURL     string
	publisher ports.AuthEventPublisher
	dbCB      *gobreaker.CircuitBreaker
	logger    *slog.Logger

	lastProcessed atomic.Int64
	healthy       atomic.Bool
}

func NewRelay(db *sql.DB, dbURL string, publisher ports.AuthEventPublisher, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Relay{
		db:        db,
		dbURL:     dbURL,
		publisher: publisher,
		dbCB:      config.NewCircuitBreaker(config.BreakerRelayPostgres),
		logger:    logger.With("component", "outbox-relay"),
	}
	r.markProgress()
	return r
}

// IsHealthy is the liveness signal. An open breaker is degraded but
// recoverable, so it does not count here.
func (r *Relay) IsHealthy() bool {
	return r.healthy.Load()
}

// IsReady is the readiness signal: the database breaker is not open and
// the relay has made progress recently.
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}
	if time.Since(time.Unix(0, r.lastProcessed.Load())) > healthCheckStaleThreshold {
		return false
	}
	return r.healthy.Load()
}

func (r *Relay) markProgress() {
	r.lastProcessed.Store(time.Now().UnixNano())
	r.healthy.Store(true)
}

// Start blocks until ctx is cancelled or the listener cannot subscribe.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			r.logger.Warn("listener error", "event", ev, "error", err)
		}
	}

	listener := pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer listener.Close()

	if err := listener.Listen(repository.OutboxChannel); err != nil {
		return oops.Code("RELAY_LISTEN_FAILED").With("channel", repository.OutboxChannel).Wrap(err)
	}

	r.logger.Info("listening for notifications", "channel", repository.OutboxChannel)

	// Catch up on anything recorded while the relay was down
	if err := r.processUnprocessedEvents(ctx); err != nil {
		logging.LogError(r.logger, "error processing startup backlog", err)
	}

	ticker := time.NewTicker(periodicProcessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("shutting down")
			return ctx.Err()

		case notification := <-listener.Notify:
			if notification == nil {
				// pq sends nil after re-establishing the connection
				r.logger.Warn("listener reconnected, sweeping backlog")
				r.healthy.Store(false)
				if err := r.processUnprocessedEvents(ctx); err != nil {
					logging.LogError(r.logger, "error processing backlog after reconnect", err)
					continue
				}
				r.markProgress()
				continue
			}

			if err := r.processEventByID(ctx, notification.Extra); err != nil {
				logging.LogError(r.logger.With("event_id", notification.Extra), "error processing event", err)
				continue
			}
			r.markProgress()

		case <-ticker.C:
			go func() {
				if err := listener.Ping(); err != nil {
					r.logger.Warn("listener ping failed", "error", err)
				}
			}()

			if err := r.processUnprocessedEvents(ctx); err != nil {
				logging.LogError(r.logger, "error in periodic processing", err)
				continue
			}
			r.markProgress()
		}
	}
}

// publish decodes and forwards one row. A nil error means the row can be
// marked processed; undecodable rows are, so they cannot poison the queue.
func (r *Relay) publish(ctx context.Context, id, eventType string, payload []byte) error {
	if eventType != ports.AuthAttemptEventType {
		r.logger.Warn("skipping unknown event type", "event_id", id, "event_type", eventType)
		return nil
	}

	var evt ports.AuthAttemptEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		r.logger.Warn("invalid payload, marking processed", "event_id", id, "error", err)
		return nil
	}

	return r.publisher.PublishAuthAttempt(ctx, evt)
}

func (r *Relay) processEventByID(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	// A broker failure is not a database failure; it is kept out of dbCB.
	var publishErr error
	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		var id, eventType string
		var payload []byte
		err = tx.QueryRowContext(ctx, `
			SELECT id, event_type, payload
			FROM auth_outbox
			WHERE id = $1 AND processed_at IS NULL
			FOR UPDATE SKIP LOCKED`, eventID).Scan(&id, &eventType, &payload)
		if errors.Is(err, sql.ErrNoRows) {
			// Already handled by the sweep or another relay
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if publishErr = r.publish(ctx, id, eventType, payload); publishErr != nil {
			// row stays unprocessed for the next sweep
			return nil, nil
		}
		if _, err := tx.ExecContext(ctx, markProcessedQuery, id); err != nil {
			return nil, err
		}

		return nil, tx.Commit()
	})
	if err == nil {
		err = publishErr
	}
	if err != nil {
		return oops.Code("RELAY_PROCESS_EVENT_FAILED").With("event_id", eventID).Wrap(err)
	}
	return nil
}

type outboxRow struct {
	ID        string
	EventType string
	Payload   []byte
}

func (r *Relay) processUnprocessedEvents(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, event_type, payload
			FROM auth_outbox
			WHERE processed_at IS NULL
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
		if err != nil {
			return nil, err
		}

		var batch []outboxRow
		for rows.Next() {
			var row outboxRow
			if err := rows.Scan(&row.ID, &row.EventType, &row.Payload); err != nil {
				rows.Close()
				return nil, err
			}
			batch = append(batch, row)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		for _, row := range batch {
			if err := r.publish(ctx, row.ID, row.EventType, row.Payload); err != nil {
				// Left unprocessed for the next sweep
				logging.LogError(r.logger.With("event_id", row.ID), "failed to publish event", err)
				continue
			}
			if _, err := tx.ExecContext(ctx, markProcessedQuery, row.ID); err != nil {
				return nil, err
			}
			r.logger.Debug("processed event", "event_id", row.ID)
		}

		return nil, tx.Commit()
	})
	if err != nil {
		return oops.Code("RELAY_BATCH_FAILED").Wrap(err)
	}
	return nil
}
