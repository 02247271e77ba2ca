package service

import (
	"context"
	"time"

	"plik-backend/internal/domains/billing/model"
)

// ServiceInterface defines billing business operations
type ServiceInterface interface {
	// Checkout
	CreateCheckoutSession(ctx context.Context, req model.CheckoutRequest, origin string) (*model.CheckoutResponse, error)
	CreateSimpleCheckout(ctx context.Context, req model.SimpleCheckoutRequest, origin string) (*model.CheckoutResponse, error)
	CreatePortalSession(ctx context.Context, req model.EmailRequest, origin string) (*model.PortalResponse, error)

	// Access
	ValidateAccess(ctx context.Context, req model.ValidateAccessRequest) *model.AccessResponse
	GetSubscription(ctx context.Context, req model.EmailRequest) (*model.SubscriptionInfoResponse, error)
	Login(ctx context.Context, req model.EmailRequest) (*model.LoginResponse, error)
	Me(customerID, email, planKey string) *model.MeResponse
	ListPlans() []model.PlanResponse

	// Webhooks
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	PruneWebhookEvents(ctx context.Context, olderThan time.Duration) (int64, error)

	// Debug (admin)
	DebugCustomer(ctx context.Context, customerID string) (*model.DebugCustomerResponse, error)
	DebugPrices(ctx context.Context) ([]model.DebugPrice, error)
	DebugAccount(ctx context.Context) (*model.DebugAccountResponse, error)
	TestPrices(ctx context.Context) []model.PriceCheck
}

// TokenIssuer signs subscriber tokens after login.
type TokenIssuer interface {
	GenerateAccessToken(userID, email, role string) (string, error)
	TTL() time.Duration
}

// Config carries the settings the billing service reads at runtime.
type Config struct {
	AppURL    string
	DemoMode  bool
	SecretKey string
}
