package service

import (
	"context"
	"errors"

	"plik-backend/internal/domains/billing/gateway"
	"plik-backend/internal/domains/billing/model"
	"plik-backend/pkg/logger"
)

// =====================================================
// ACCESS VALIDATION
// =====================================================

// ValidateAccess decides whether app.plik.ca may let the caller in.
// Methods are tried in order: checkout session, live subscription, customer metadata.
// A provider failure in one method is logged and the next one is tried.
func (s *billingService) ValidateAccess(ctx context.Context, req model.ValidateAccessRequest) *model.AccessResponse {
	if s.cfg.DemoMode {
		return &model.AccessResponse{
			Valid:      true,
			CustomerID: model.DemoCustomerID,
			Email:      model.DemoEmail,
			PlanID:     model.DemoPlanID,
			Method:     model.AccessMethodDemo,
			IsDemoMode: true,
		}
	}

	// Step 1: New users come back from checkout with a session id
	if req.SessionID != "" {
		if resp := s.accessBySession(ctx, req.SessionID); resp != nil {
			return resp
		}
	}

	// Step 2: Returning users identify by customer id or email
	if req.CustomerID != "" || req.Email != "" {
		if resp := s.accessByCustomer(ctx, req.CustomerID, req.Email); resp != nil {
			return resp
		}
	}

	return &model.AccessResponse{
		Valid: false,
		Error: "No valid access found",
		Debug: map[string]interface{}{
			"sessionId":  req.SessionID,
			"customerId": req.CustomerID,
			"email":      req.Email,
		},
	}
}

func (s *billingService) accessBySession(ctx context.Context, sessionID string) *model.AccessResponse {
	session, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		logAccessFailure("session", err)
		return nil
	}
	if session.PaymentStatus != "paid" || session.Status != "complete" {
		return nil
	}

	return &model.AccessResponse{
		Valid:      true,
		CustomerID: session.CustomerID,
		Email:      session.CustomerEmail,
		PlanID:     session.PriceID,
		Method:     model.AccessMethodSession,
	}
}

func (s *billingService) accessByCustomer(ctx context.Context, customerID, email string) *model.AccessResponse {
	// Step 1: Resolve customer
	var (
		customer *gateway.Customer
		err      error
	)
	if customerID != "" {
		customer, err = s.gateway.GetCustomer(ctx, customerID)
	} else {
		customer, err = s.gateway.FindCustomerByEmail(ctx, email)
	}
	if err != nil {
		logAccessFailure("customer", err)
		return nil
	}
	if customer == nil {
		return nil
	}

	// Step 2: Any active or trialing subscription among the latest ones
	subs, err := s.gateway.ListSubscriptions(ctx, customer.ID, "", model.SubscriptionLookupLimit)
	if err != nil {
		logAccessFailure("subscription", err)
	}
	for _, sub := range subs {
		if sub.Status != model.StatusActive && sub.Status != model.StatusTrialing {
			continue
		}
		planID := sub.PriceID()
		return &model.AccessResponse{
			Valid:              true,
			CustomerID:         customer.ID,
			Email:              customer.Email,
			PlanID:             planID,
			Method:             model.AccessMethodSubscription,
			SubscriptionStatus: sub.Status,
			Debug: map[string]interface{}{
				"subscriptionId": sub.ID,
				"status":         sub.Status,
				"planId":         planID,
			},
		}
	}

	// Step 3: Webhook-maintained metadata
	if customer.Metadata[model.MetaSubscriptionStatus] == model.StatusActive {
		return &model.AccessResponse{
			Valid:      true,
			CustomerID: customer.ID,
			Email:      customer.Email,
			PlanID:     customer.Metadata[model.MetaSubscriptionPlan],
			Method:     model.AccessMethodMetadata,
		}
	}

	return nil
}

func logAccessFailure(method string, err error) {
	if errors.Is(err, gateway.ErrNotFound) {
		logger.Debug("access validation: " + method + " not found")
		return
	}
	logger.Warn("access validation lookup failed", map[string]interface{}{
		"method": method,
		"error":  err.Error(),
	})
}
