package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"plik-backend/pkg/logger"
)

// ResendSender sends through the Resend API.
type ResendSender struct {
	client *resend.Client
}

// NewResendSender returns a sender; an empty apiKey yields one that always fails with ErrNotConfigured.
func NewResendSender(apiKey string) *ResendSender {
	if apiKey == "" {
		return &ResendSender{}
	}
	return &ResendSender{client: resend.NewClient(apiKey)}
}

func (s *ResendSender) Configured() bool {
	return s.client != nil
}

func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}

	req := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email (tag=%s)", msg.Tag), err)
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	logger.Info("Email sent", map[string]interface{}{
		"tag": msg.Tag,
		"id":  sent.Id,
	})
	return sent.Id, nil
}
