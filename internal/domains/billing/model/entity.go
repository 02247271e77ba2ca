package model

import (
	"time"

	"github.com/google/uuid"
)

// WebhookEvent is one row of billing_webhook_events.
type WebhookEvent struct {
	ID          uuid.UUID  `json:"id"`
	EventID     string     `json:"event_id"`
	EventType   string     `json:"event_type"`
	Status      string     `json:"status"`
	Error       *string    `json:"error,omitempty"`
	Payload     []byte     `json:"-"`
	ReceivedAt  time.Time  `json:"received_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

// SubscriptionMetadata is the customer metadata the webhook maintains.
type SubscriptionMetadata struct {
	Plan           string
	Status         string
	StartDate      time.Time
	EndDate        time.Time
	SubscriptionID string
}

// ToMap renders only the fields that are set.
func (m SubscriptionMetadata) ToMap() map[string]string {
	out := make(map[string]string)
	if m.Plan != "" {
		out[MetaSubscriptionPlan] = m.Plan
	}
	if m.Status != "" {
		out[MetaSubscriptionStatus] = m.Status
	}
	if !m.StartDate.IsZero() {
		out[MetaSubscriptionStart] = FormatMetadataTime(m.StartDate)
	}
	if !m.EndDate.IsZero() {
		out[MetaSubscriptionEnd] = FormatMetadataTime(m.EndDate)
	}
	if m.SubscriptionID != "" {
		out[MetaSubscriptionID] = m.SubscriptionID
	}
	return out
}

func FormatMetadataTime(t time.Time) string {
	return t.UTC().Format(MetadataTimeLayout)
}
