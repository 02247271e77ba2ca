package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"plik-backend/internal/shared"
)

// DefaultRetentionDays applies when the scheduled payload carries no retention.
const DefaultRetentionDays = 30

// WebhookEventPruner is the billing service slice the retention job needs.
type WebhookEventPruner interface {
	PruneWebhookEvents(ctx context.Context, olderThan time.Duration) (int64, error)
}

// ============================================
// Prune Webhook Events Handler
// ============================================

type PruneWebhookEventsHandler struct {
	pruner WebhookEventPruner
}

func NewPruneWebhookEventsHandler(pruner WebhookEventPruner) *PruneWebhookEventsHandler {
	return &PruneWebhookEventsHandler{pruner: pruner}
}

func (h *PruneWebhookEventsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	p := shared.PruneWebhookEventsPayload{OlderThanDays: DefaultRetentionDays}
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal PruneWebhookEvents payload")
			return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
		}
	}
	if p.OlderThanDays <= 0 {
		p.OlderThanDays = DefaultRetentionDays
	}

	deleted, err := h.pruner.PruneWebhookEvents(ctx, time.Duration(p.OlderThanDays)*24*time.Hour)
	if err != nil {
		log.Error().Err(err).Int("older_than_days", p.OlderThanDays).Msg("Failed to prune webhook events")
		return fmt.Errorf("prune webhook events: %w", err)
	}

	log.Info().Int64("deleted", deleted).Int("older_than_days", p.OlderThanDays).Msg("Webhook events pruned")
	return nil
}
