package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClaimCutoff(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return now }
	defer func() { nowFunc = time.Now }()

	assert.Equal(t, now.Add(-5*time.Minute), claimCutoff())
}

func TestBeginEventQuery_TakesOverOnlyFailedOrStaleClaims(t *testing.T) {
	q := strings.Join(strings.Fields(beginEventQuery), " ")

	assert.Contains(t, q, "WHERE billing_webhook_events.status = 'failed' OR (billing_webhook_events.status = 'received' AND billing_webhook_events.received_at < $4)")
	assert.NotContains(t, q, "status IN ('received', 'failed')", "a fresh in-flight claim must not be taken over")
	assert.Contains(t, q, "RETURNING id, event_id, event_type, status, received_at")
}
