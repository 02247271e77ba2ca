package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"plik-backend/internal/domains/billing/model"
)

// =====================================================
// WEBHOOK EVENT REPOSITORY IMPLEMENTATION
// =====================================================
type webhookEventRepository struct {
	pool *pgxpool.Pool
}

func NewWebhookEventRepository(pool *pgxpool.Pool) WebhookEventRepository {
	return &webhookEventRepository{pool: pool}
}

// StaleClaimAfter is how long a received event may stay in flight before a
// redelivery is allowed to take it over.
const StaleClaimAfter = 5 * time.Minute

var nowFunc = time.Now

// beginEventQuery inserts the event or takes over an existing row that failed or
// whose claim went stale ($4 is the cutoff). A processed, ignored or freshly
// received row is left alone and yields no row.
const beginEventQuery = `
	INSERT INTO billing_webhook_events (event_id, event_type, status, payload)
	VALUES ($1, $2, 'received', $3)
	ON CONFLICT (event_id) DO UPDATE
	SET status = 'received',
		error = NULL,
		payload = EXCLUDED.payload,
		received_at = NOW(),
		processed_at = NULL
	WHERE billing_webhook_events.status = 'failed'
	   OR (billing_webhook_events.status = 'received' AND billing_webhook_events.received_at < $4)
	RETURNING id, event_id, event_type, status, received_at
`

func claimCutoff() time.Time {
	return nowFunc().Add(-StaleClaimAfter)
}

// Begin claims an event for processing.
// A Stripe retry after a failure is processed again, a replay of a done event is not,
// and a concurrent delivery of an in-flight event gets model.ErrDuplicateEvent.
func (r *webhookEventRepository) Begin(
	ctx context.Context,
	eventID, eventType string,
	payload []byte,
) (*model.WebhookEvent, error) {
	if !json.Valid(payload) {
		payload = []byte("{}")
	}

	evt := &model.WebhookEvent{Payload: payload}
	err := r.pool.QueryRow(ctx, beginEventQuery, eventID, eventType, payload, claimCutoff()).Scan(
		&evt.ID,
		&evt.EventID,
		&evt.EventType,
		&evt.Status,
		&evt.ReceivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrDuplicateEvent
		}
		return nil, fmt.Errorf("failed to record webhook event: %w", err)
	}

	return evt, nil
}

func (r *webhookEventRepository) Finish(
	ctx context.Context,
	eventID, status string,
	errMsg *string,
) error {
	query := `
		UPDATE billing_webhook_events
		SET status = $2,
			error = $3,
			processed_at = NOW()
		WHERE event_id = $1
	`

	result, err := r.pool.Exec(ctx, query, eventID, status, errMsg)
	if err != nil {
		return fmt.Errorf("failed to update webhook event: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("webhook event not found: %s", eventID)
	}

	return nil
}

// =====================================================
// CLEANUP
// =====================================================

func (r *webhookEventRepository) Prune(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM billing_webhook_events
		WHERE status IN ('processed', 'ignored')
		AND received_at < $1
	`

	result, err := r.pool.Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune webhook events: %w", err)
	}

	return result.RowsAffected(), nil
}
