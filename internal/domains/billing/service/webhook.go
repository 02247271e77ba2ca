package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"plik-backend/internal/domains/billing/gateway"
	"plik-backend/internal/domains/billing/model"
	"plik-backend/pkg/logger"
)

// =====================================================
// WEBHOOK PROCESSING
// =====================================================

var nowFunc = time.Now

// HandleWebhook verifies, deduplicates and applies one Stripe event.
func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	// Step 1: Verify signature
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		logger.Warn("webhook signature verification failed", map[string]interface{}{"error": err.Error()})
		return model.NewInvalidSignatureError(err)
	}

	// Step 2: Claim the event id
	if _, err := s.events.Begin(ctx, event.ID, event.Type, event.Payload); err != nil {
		if errors.Is(err, model.ErrDuplicateEvent) {
			logger.Info("webhook event already handled", map[string]interface{}{
				"event_id": event.ID,
				"type":     event.Type,
			})
			return nil
		}
		return model.NewWebhookFailedError(err)
	}

	logger.Info("received stripe webhook", map[string]interface{}{
		"event_id": event.ID,
		"type":     event.Type,
	})

	// Step 3: Apply
	status, err := s.applyEvent(ctx, event)
	if err != nil {
		msg := err.Error()
		if markErr := s.events.Finish(ctx, event.ID, model.WebhookStatusFailed, &msg); markErr != nil {
			logger.Error("failed to mark webhook event failed", markErr)
		}
		logger.Error("webhook handler failed", err)
		return model.NewWebhookFailedError(err)
	}

	// Step 4: Record outcome
	if err := s.events.Finish(ctx, event.ID, status, nil); err != nil {
		logger.Error("failed to mark webhook event done", err)
	}

	return nil
}

// applyEvent returns the log status: processed, or ignored for events that need nothing.
func (s *billingService) applyEvent(ctx context.Context, event *gateway.Event) (string, error) {
	switch event.Type {
	case model.EventCheckoutSessionCompleted:
		return s.onCheckoutCompleted(ctx, event.Session)
	case model.EventSubscriptionUpdated:
		return s.onSubscriptionUpdated(ctx, event.Subscription)
	case model.EventSubscriptionDeleted:
		return s.onSubscriptionDeleted(ctx, event.Subscription)
	case model.EventInvoicePaymentFailed:
		return s.onPaymentFailed(ctx, event.Invoice)
	default:
		logger.Info("unhandled webhook event type", map[string]interface{}{"type": event.Type})
		return model.WebhookStatusIgnored, nil
	}
}

func (s *billingService) onCheckoutCompleted(ctx context.Context, session *gateway.CheckoutSession) (string, error) {
	if session == nil || session.Mode != "subscription" || session.SubscriptionID == "" {
		return model.WebhookStatusIgnored, nil
	}

	sub, err := s.gateway.GetSubscription(ctx, session.SubscriptionID)
	if err != nil {
		return "", fmt.Errorf("retrieve subscription %s: %w", session.SubscriptionID, err)
	}

	planKey := s.catalog.PlanByPriceID(sub.PriceID())
	if session.CustomerID == "" || planKey == "" {
		logger.Warn("checkout completed without customer or known plan", map[string]interface{}{
			"session_id": session.ID,
			"price_id":   sub.PriceID(),
		})
		return model.WebhookStatusIgnored, nil
	}

	err = s.updateMetadata(ctx, session.CustomerID, model.SubscriptionMetadata{
		Plan:           planKey,
		Status:         model.StatusActive,
		StartDate:      sub.CurrentPeriodStart,
		EndDate:        sub.CurrentPeriodEnd,
		SubscriptionID: sub.ID,
	})
	if err != nil {
		return "", err
	}
	return model.WebhookStatusProcessed, nil
}

func (s *billingService) onSubscriptionUpdated(ctx context.Context, sub *gateway.Subscription) (string, error) {
	if sub == nil {
		return model.WebhookStatusIgnored, nil
	}

	planKey := s.catalog.PlanByPriceID(sub.PriceID())
	if planKey == "" || sub.CustomerID == "" {
		return model.WebhookStatusIgnored, nil
	}

	err := s.updateMetadata(ctx, sub.CustomerID, model.SubscriptionMetadata{
		Plan:           planKey,
		Status:         sub.Status,
		StartDate:      sub.CurrentPeriodStart,
		EndDate:        sub.CurrentPeriodEnd,
		SubscriptionID: sub.ID,
	})
	if err != nil {
		return "", err
	}
	return model.WebhookStatusProcessed, nil
}

func (s *billingService) onSubscriptionDeleted(ctx context.Context, sub *gateway.Subscription) (string, error) {
	if sub == nil || sub.CustomerID == "" {
		return model.WebhookStatusIgnored, nil
	}

	err := s.updateMetadata(ctx, sub.CustomerID, model.SubscriptionMetadata{
		Status:  model.StatusCanceled,
		EndDate: nowFunc(),
	})
	if err != nil {
		return "", err
	}
	return model.WebhookStatusProcessed, nil
}

func (s *billingService) onPaymentFailed(ctx context.Context, inv *gateway.Invoice) (string, error) {
	if inv == nil || inv.CustomerID == "" {
		return model.WebhookStatusIgnored, nil
	}

	if err := s.updateMetadata(ctx, inv.CustomerID, model.SubscriptionMetadata{Status: model.StatusPastDue}); err != nil {
		return "", err
	}
	return model.WebhookStatusProcessed, nil
}

func (s *billingService) updateMetadata(ctx context.Context, customerID string, md model.SubscriptionMetadata) error {
	if err := s.gateway.UpdateCustomerMetadata(ctx, customerID, md.ToMap()); err != nil {
		return fmt.Errorf("update customer %s metadata: %w", customerID, err)
	}

	logger.Info("customer subscription metadata updated", map[string]interface{}{
		"customer_id": customerID,
		"status":      md.Status,
		"plan":        md.Plan,
	})
	return nil
}

// =====================================================
// RETENTION
// =====================================================

// PruneWebhookEvents deletes finished event log rows older than olderThan.
func (s *billingService) PruneWebhookEvents(ctx context.Context, olderThan time.Duration) (int64, error) {
	deleted, err := s.events.Prune(ctx, nowFunc().Add(-olderThan))
	if err != nil {
		return 0, err
	}

	logger.Info("pruned webhook events", map[string]interface{}{"deleted": deleted})
	return deleted, nil
}
