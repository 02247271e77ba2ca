package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	stripego "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"plik-backend/internal/config"
	"plik-backend/internal/domains/billing/gateway"
)

// =====================================================
// STRIPE GATEWAY IMPLEMENTATION
// =====================================================

type Client struct {
	api           *client.API
	webhookSecret string
}

// NewClient builds the Stripe API client from config.
func NewClient(cfg config.StripeConfig) *Client {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	return &Client{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
	}
}

var _ gateway.Gateway = (*Client)(nil)

// =====================================================
// CHECKOUT
// =====================================================

func (c *Client) CreateCheckoutSession(ctx context.Context, req gateway.CheckoutSessionRequest) (*gateway.CheckoutSession, error) {
	params := &stripego.CheckoutSessionParams{
		PaymentMethodTypes: stripego.StringSlice([]string{"card"}),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{
				Price:    stripego.String(req.PriceID),
				Quantity: stripego.Int64(1),
			},
		},
		Mode:       stripego.String(string(stripego.CheckoutSessionModeSubscription)),
		SuccessURL: stripego.String(req.SuccessURL),
		CancelURL:  stripego.String(req.CancelURL),
	}
	if req.AllowPromotionCodes {
		params.AllowPromotionCodes = stripego.Bool(true)
	}
	if req.AutomaticTax {
		params.AutomaticTax = &stripego.CheckoutSessionAutomaticTaxParams{Enabled: stripego.Bool(true)}
	}
	if req.RequireBillingAddress {
		params.BillingAddressCollection = stripego.String(string(stripego.CheckoutSessionBillingAddressCollectionRequired))
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	s, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, wrapError("create checkout session", err)
	}
	return toCheckoutSession(s), nil
}

func (c *Client) GetCheckoutSession(ctx context.Context, sessionID string) (*gateway.CheckoutSession, error) {
	params := &stripego.CheckoutSessionParams{}
	params.AddExpand("subscription")
	params.AddExpand("subscription.items.data.price")
	params.Context = ctx

	s, err := c.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, wrapError("retrieve checkout session", err)
	}
	return toCheckoutSession(s), nil
}

// =====================================================
// CUSTOMERS
// =====================================================

func (c *Client) GetCustomer(ctx context.Context, customerID string) (*gateway.Customer, error) {
	params := &stripego.CustomerParams{}
	params.Context = ctx

	cus, err := c.api.Customers.Get(customerID, params)
	if err != nil {
		return nil, wrapError("retrieve customer", err)
	}
	if cus.Deleted {
		return nil, gateway.ErrNotFound
	}
	return toCustomer(cus), nil
}

func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (*gateway.Customer, error) {
	params := &stripego.CustomerListParams{Email: stripego.String(email)}
	params.Limit = stripego.Int64(1)
	params.Single = true
	params.Context = ctx

	it := c.api.Customers.List(params)
	if it.Next() {
		return toCustomer(it.Customer()), nil
	}
	if err := it.Err(); err != nil {
		return nil, wrapError("list customers", err)
	}
	return nil, nil
}

func (c *Client) UpdateCustomerMetadata(ctx context.Context, customerID string, metadata map[string]string) error {
	params := &stripego.CustomerParams{}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	if _, err := c.api.Customers.Update(customerID, params); err != nil {
		return wrapError("update customer metadata", err)
	}
	return nil
}

// =====================================================
// SUBSCRIPTIONS
// =====================================================

func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*gateway.Subscription, error) {
	params := &stripego.SubscriptionParams{}
	params.Context = ctx

	sub, err := c.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, wrapError("retrieve subscription", err)
	}
	out := toSubscription(sub)
	return &out, nil
}

func (c *Client) ListSubscriptions(ctx context.Context, customerID, status string, limit int) ([]gateway.Subscription, error) {
	if status == "" {
		status = "all"
	}
	params := &stripego.SubscriptionListParams{
		Customer: stripego.String(customerID),
		Status:   stripego.String(status),
	}
	params.Limit = stripego.Int64(int64(limit))
	params.Single = true
	params.AddExpand("data.items.data.price")
	params.Context = ctx

	subs := make([]gateway.Subscription, 0, limit)
	it := c.api.Subscriptions.List(params)
	for it.Next() {
		subs = append(subs, toSubscription(it.Subscription()))
	}
	if err := it.Err(); err != nil {
		return nil, wrapError("list subscriptions", err)
	}
	return subs, nil
}

// =====================================================
// PRICES
// =====================================================

func (c *Client) GetPrice(ctx context.Context, priceID string) (*gateway.Price, error) {
	params := &stripego.PriceParams{}
	params.AddExpand("product")
	params.Context = ctx

	p, err := c.api.Prices.Get(priceID, params)
	if err != nil {
		return nil, wrapError("retrieve price", err)
	}
	out := toPrice(p)
	return &out, nil
}

func (c *Client) ListActivePrices(ctx context.Context) ([]gateway.Price, error) {
	params := &stripego.PriceListParams{Active: stripego.Bool(true)}
	params.Limit = stripego.Int64(100)
	params.Single = true
	params.AddExpand("data.product")
	params.Context = ctx

	prices := make([]gateway.Price, 0)
	it := c.api.Prices.List(params)
	for it.Next() {
		prices = append(prices, toPrice(it.Price()))
	}
	if err := it.Err(); err != nil {
		return nil, wrapError("list prices", err)
	}
	return prices, nil
}

// =====================================================
// PORTAL / ACCOUNT
// =====================================================

func (c *Client) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripego.BillingPortalSessionParams{
		Customer:  stripego.String(customerID),
		ReturnURL: stripego.String(returnURL),
	}
	params.Context = ctx

	s, err := c.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", wrapError("create portal session", err)
	}
	return s.URL, nil
}

func (c *Client) GetAccount(ctx context.Context) (*gateway.Account, error) {
	acct, err := c.api.Accounts.Get()
	if err != nil {
		return nil, wrapError("retrieve account", err)
	}

	out := &gateway.Account{
		ID:      acct.ID,
		Email:   acct.Email,
		Country: acct.Country,
	}
	if acct.Settings != nil && acct.Settings.Dashboard != nil {
		out.DisplayName = acct.Settings.Dashboard.DisplayName
	}
	if out.DisplayName == "" && acct.BusinessProfile != nil {
		out.DisplayName = acct.BusinessProfile.Name
	}
	return out, nil
}

// =====================================================
// WEBHOOKS
// =====================================================

func (c *Client) ParseWebhook(payload []byte, signature string) (*gateway.Event, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signature, c.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", gateway.ErrInvalidSignature, err)
	}
	return decodeEvent(evt, payload)
}

// =====================================================
// ERRORS
// =====================================================

func wrapError(op string, err error) error {
	var stripeErr *stripego.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.HTTPStatusCode == http.StatusNotFound || stripeErr.Code == stripego.ErrorCodeResourceMissing {
			return fmt.Errorf("%s: %w: %s", op, gateway.ErrNotFound, stripeErr.Msg)
		}
		return fmt.Errorf("%s: stripe %s (%s): %w", op, stripeErr.Type, stripeErr.Code, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func unixTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
