package service

import (
	"context"
	"errors"

	"plik-backend/internal/domains/billing/gateway"
	"plik-backend/internal/domains/billing/model"
)

// =====================================================
// DEBUG (admin only)
// =====================================================

const maskedKeyPrefixLen = 8

func (s *billingService) DebugCustomer(ctx context.Context, customerID string) (*model.DebugCustomerResponse, error) {
	if customerID == "" {
		return nil, model.NewInvalidRequestError("Customer ID required")
	}

	customer, err := s.gateway.GetCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return nil, model.NewNotFoundError("Customer not found")
		}
		return nil, model.NewProviderError("Failed to fetch customer details", err)
	}

	subs, err := s.gateway.ListSubscriptions(ctx, customerID, model.StatusActive, model.SubscriptionLookupLimit)
	if err != nil {
		return nil, model.NewProviderError("Failed to fetch customer details", err)
	}

	resp := &model.DebugCustomerResponse{
		Customer: model.DebugCustomer{
			ID:       customer.ID,
			Email:    customer.Email,
			Metadata: customer.Metadata,
		},
		Subscriptions: make([]model.DebugSubscription, 0, len(subs)),
	}
	for _, sub := range subs {
		items := make([]model.DebugPriceItem, 0, len(sub.Items))
		for _, item := range sub.Items {
			items = append(items, model.DebugPriceItem{
				PriceID:  item.PriceID,
				Amount:   item.UnitAmount,
				Currency: item.Currency,
				Interval: item.Interval,
			})
		}
		resp.Subscriptions = append(resp.Subscriptions, model.DebugSubscription{
			SubscriptionID: sub.ID,
			Status:         sub.Status,
			Items:          items,
		})
	}

	return resp, nil
}

func (s *billingService) DebugPrices(ctx context.Context) ([]model.DebugPrice, error) {
	prices, err := s.gateway.ListActivePrices(ctx)
	if err != nil {
		return nil, model.NewProviderError("Failed to fetch prices", err)
	}

	out := make([]model.DebugPrice, 0, len(prices))
	for _, p := range prices {
		out = append(out, model.DebugPrice{
			PriceID:     p.ID,
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			Amount:      p.UnitAmount,
			Currency:    p.Currency,
			Interval:    p.Interval,
		})
	}
	return out, nil
}

func (s *billingService) DebugAccount(ctx context.Context) (*model.DebugAccountResponse, error) {
	acct, err := s.gateway.GetAccount(ctx)
	if err != nil {
		return nil, model.NewProviderError("Stripe account check failed", err)
	}

	return &model.DebugAccountResponse{
		Account: model.DebugAccount{
			ID:          acct.ID,
			Email:       acct.Email,
			DisplayName: acct.DisplayName,
			Country:     acct.Country,
		},
		SecretKeyPrefix: maskKey(s.cfg.SecretKey),
		PriceChecks:     s.TestPrices(ctx),
	}, nil
}

// TestPrices checks every configured price id against Stripe.
func (s *billingService) TestPrices(ctx context.Context) []model.PriceCheck {
	ids := s.catalog.PriceIDs()
	checks := make([]model.PriceCheck, 0, len(ids))

	for _, id := range ids {
		check := model.PriceCheck{PriceID: id, Plan: s.catalog.PlanByPriceID(id)}

		price, err := s.gateway.GetPrice(ctx, id)
		if err != nil {
			check.Error = err.Error()
			checks = append(checks, check)
			continue
		}

		check.Exists = true
		check.Active = price.Active
		check.Amount = price.UnitAmount
		check.Currency = price.Currency
		check.ProductID = price.ProductID
		checks = append(checks, check)
	}

	return checks
}

func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) > maskedKeyPrefixLen {
		key = key[:maskedKeyPrefixLen]
	}
	return key + "..."
}
