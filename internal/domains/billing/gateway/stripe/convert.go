package stripe

import (
	"encoding/json"
	"fmt"

	stripego "github.com/stripe/stripe-go/v79"

	"plik-backend/internal/domains/billing/gateway"
	"plik-backend/internal/domains/billing/model"
)

func toCheckoutSession(s *stripego.CheckoutSession) *gateway.CheckoutSession {
	out := &gateway.CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		Mode:          string(s.Mode),
		Status:        string(s.Status),
		PaymentStatus: string(s.PaymentStatus),
		Metadata:      s.Metadata,
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	if s.CustomerDetails != nil && s.CustomerDetails.Email != "" {
		out.CustomerEmail = s.CustomerDetails.Email
	} else if s.CustomerEmail != "" {
		out.CustomerEmail = s.CustomerEmail
	}
	if s.Subscription != nil {
		out.SubscriptionID = s.Subscription.ID
		out.PriceID = toSubscription(s.Subscription).PriceID()
	}
	return out
}

func toCustomer(c *stripego.Customer) *gateway.Customer {
	metadata := c.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	return &gateway.Customer{
		ID:       c.ID,
		Email:    c.Email,
		Name:     c.Name,
		Metadata: metadata,
	}
}

func toSubscription(s *stripego.Subscription) gateway.Subscription {
	out := gateway.Subscription{
		ID:                 s.ID,
		Status:             string(s.Status),
		CurrentPeriodStart: unixTime(s.CurrentPeriodStart),
		CurrentPeriodEnd:   unixTime(s.CurrentPeriodEnd),
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	if s.Items != nil {
		for _, item := range s.Items.Data {
			if item == nil || item.Price == nil {
				continue
			}
			out.Items = append(out.Items, gateway.SubscriptionItem{
				PriceID:    item.Price.ID,
				UnitAmount: item.Price.UnitAmount,
				Currency:   string(item.Price.Currency),
				Interval:   priceInterval(item.Price),
			})
		}
	}
	return out
}

func toPrice(p *stripego.Price) gateway.Price {
	out := gateway.Price{
		ID:         p.ID,
		Active:     p.Active,
		UnitAmount: p.UnitAmount,
		Currency:   string(p.Currency),
		Interval:   priceInterval(p),
	}
	if p.Product != nil {
		out.ProductID = p.Product.ID
		out.ProductName = p.Product.Name
	}
	if out.ProductName == "" {
		out.ProductName = "Unknown"
	}
	return out
}

func priceInterval(p *stripego.Price) string {
	if p.Recurring == nil {
		return "one-time"
	}
	return string(p.Recurring.Interval)
}

// decodeEvent unmarshals data.object for the event types the service reacts to.
func decodeEvent(evt stripego.Event, payload []byte) (*gateway.Event, error) {
	out := &gateway.Event{
		ID:      evt.ID,
		Type:    string(evt.Type),
		Payload: payload,
	}
	if evt.Data == nil {
		return out, nil
	}

	switch out.Type {
	case model.EventCheckoutSessionCompleted:
		var s stripego.CheckoutSession
		if err := json.Unmarshal(evt.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		out.Session = toCheckoutSession(&s)

	case model.EventSubscriptionUpdated, model.EventSubscriptionDeleted:
		var s stripego.Subscription
		if err := json.Unmarshal(evt.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("decode subscription: %w", err)
		}
		sub := toSubscription(&s)
		out.Subscription = &sub

	case model.EventInvoicePaymentFailed:
		var inv stripego.Invoice
		if err := json.Unmarshal(evt.Data.Raw, &inv); err != nil {
			return nil, fmt.Errorf("decode invoice: %w", err)
		}
		out.Invoice = &gateway.Invoice{ID: inv.ID}
		if inv.Customer != nil {
			out.Invoice.CustomerID = inv.Customer.ID
		}
		if inv.Subscription != nil {
			out.Invoice.SubscriptionID = inv.Subscription.ID
		}
	}

	return out, nil
}
