package repository

import (
	"context"
	"time"

	"plik-backend/internal/domains/billing/model"
)

// WebhookEventRepository is the idempotency log of Stripe events.
type WebhookEventRepository interface {
	// Begin records the event as received. It returns model.ErrDuplicateEvent when the
	// event was already processed or ignored, or is still in flight. Failed events and
	// claims older than StaleClaimAfter may be taken again.
	Begin(ctx context.Context, eventID, eventType string, payload []byte) (*model.WebhookEvent, error)

	// Finish stores the final status (processed, ignored or failed) with an optional error.
	Finish(ctx context.Context, eventID, status string, errMsg *string) error

	// Prune deletes processed and ignored events received before the cutoff.
	Prune(ctx context.Context, before time.Time) (int64, error)
}
