package gateway

import (
	"context"
	"errors"
	"time"
)

// =====================================================
// GATEWAY INTERFACE
// =====================================================

// ErrNotFound is returned when the provider has no such resource.
var ErrNotFound = errors.New("resource not found at billing provider")

// ErrInvalidSignature is returned by ParseWebhook for unverifiable payloads.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// Gateway is everything the billing service asks of Stripe.
type Gateway interface {
	// Checkout
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)

	// Customers
	GetCustomer(ctx context.Context, customerID string) (*Customer, error)
	// FindCustomerByEmail returns nil, nil when no customer has the email.
	FindCustomerByEmail(ctx context.Context, email string) (*Customer, error)
	UpdateCustomerMetadata(ctx context.Context, customerID string, metadata map[string]string) error

	// Subscriptions
	GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)
	// ListSubscriptions returns the newest subscriptions; status "" means all.
	ListSubscriptions(ctx context.Context, customerID, status string, limit int) ([]Subscription, error)

	// Prices
	GetPrice(ctx context.Context, priceID string) (*Price, error)
	ListActivePrices(ctx context.Context) ([]Price, error)

	// Portal and account
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	GetAccount(ctx context.Context) (*Account, error)

	// ParseWebhook verifies the Stripe-Signature header and decodes the event.
	ParseWebhook(payload []byte, signature string) (*Event, error)
}

// =====================================================
// COMMON REQUEST/RESPONSE TYPES
// =====================================================

type CheckoutSessionRequest struct {
	PriceID    string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string

	// Simple checkout extras
	AllowPromotionCodes   bool
	AutomaticTax          bool
	RequireBillingAddress bool
}

type CheckoutSession struct {
	ID             string
	URL            string
	Mode           string // payment, setup, subscription
	Status         string // open, complete, expired
	PaymentStatus  string // paid, unpaid, no_payment_required
	CustomerID     string
	CustomerEmail  string
	SubscriptionID string
	PriceID        string // first item of the expanded subscription
	Metadata       map[string]string
}

type Customer struct {
	ID       string
	Email    string
	Name     string
	Metadata map[string]string
}

type SubscriptionItem struct {
	PriceID    string
	UnitAmount int64
	Currency   string
	Interval   string
}

type Subscription struct {
	ID                 string
	CustomerID         string
	Status             string
	Items              []SubscriptionItem
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
}

// PriceID is the price of the first item, "" when there are none.
func (s Subscription) PriceID() string {
	if len(s.Items) == 0 {
		return ""
	}
	return s.Items[0].PriceID
}

type Price struct {
	ID          string
	Active      bool
	UnitAmount  int64
	Currency    string
	Interval    string // "one-time" for non recurring prices
	ProductID   string
	ProductName string
}

type Account struct {
	ID          string
	Email       string
	DisplayName string
	Country     string
}

type Invoice struct {
	ID             string
	CustomerID     string
	SubscriptionID string
}

// Event is a verified webhook event. Exactly one of Session, Subscription or
// Invoice is set for the event types the service handles.
type Event struct {
	ID           string
	Type         string
	Payload      []byte
	Session      *CheckoutSession
	Subscription *Subscription
	Invoice      *Invoice
}
