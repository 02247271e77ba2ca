package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"plik-backend/internal/infrastructure/email"
)

// ============================================
// Send Email Handler
// ============================================

type SendEmailHandler struct {
	sender email.Sender
}

func NewSendEmailHandler(sender email.Sender) *SendEmailHandler {
	return &SendEmailHandler{sender: sender}
}

func (h *SendEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var msg email.Message
	if err := json.Unmarshal(task.Payload(), &msg); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal SendEmail payload")
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	log.Info().
		Str("tag", msg.Tag).
		Str("subject", msg.Subject).
		Msg("Processing queued email")

	id, err := h.sender.Send(ctx, msg)
	if errors.Is(err, email.ErrNotConfigured) {
		log.Error().Err(err).Msg("Dropping queued email")
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to send queued email")
		return fmt.Errorf("send email: %w", err)
	}

	log.Info().
		Str("tag", msg.Tag).
		Str("id", id).
		Msg("Queued email sent successfully")

	return nil
}
