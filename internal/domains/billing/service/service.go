package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"plik-backend/internal/domains/billing/gateway"
	"plik-backend/internal/domains/billing/model"
	"plik-backend/internal/domains/billing/repository"
	"plik-backend/pkg/logger"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type billingService struct {
	gateway gateway.Gateway
	events  repository.WebhookEventRepository
	catalog *model.Catalog
	tokens  TokenIssuer
	cfg     Config
}

// NewBillingService wires the billing service.
func NewBillingService(
	gw gateway.Gateway,
	events repository.WebhookEventRepository,
	catalog *model.Catalog,
	tokens TokenIssuer,
	cfg Config,
) ServiceInterface {
	if cfg.AppURL == "" {
		cfg.AppURL = model.DefaultAppURL
	}
	cfg.AppURL = strings.TrimRight(cfg.AppURL, "/")

	return &billingService{
		gateway: gw,
		events:  events,
		catalog: catalog,
		tokens:  tokens,
		cfg:     cfg,
	}
}

// =====================================================
// CHECKOUT
// =====================================================

func (s *billingService) CreateCheckoutSession(
	ctx context.Context,
	req model.CheckoutRequest,
	origin string,
) (*model.CheckoutResponse, error) {
	// Step 1: Validate
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidRequestError("Missing required fields")
	}

	// Step 2: Only catalog prices can be sold
	planKey := s.catalog.PlanByPriceID(req.PriceID)
	if planKey == "" {
		return nil, model.NewInvalidRequestError("Invalid price ID")
	}

	// Step 3: Create session
	return s.checkout(ctx, gateway.CheckoutSessionRequest{
		PriceID:    req.PriceID,
		SuccessURL: s.successURL(),
		CancelURL:  cancelURL(origin),
		Metadata:   map[string]string{model.MetaCheckoutPlanKey: planKey},
	})
}

func (s *billingService) CreateSimpleCheckout(
	ctx context.Context,
	req model.SimpleCheckoutRequest,
	origin string,
) (*model.CheckoutResponse, error) {
	// Step 1: Resolve plan
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidRequestError("Invalid plan")
	}
	plan, ok := s.catalog.PlanByKey(req.Plan)
	if !ok {
		return nil, model.NewInvalidRequestError("Invalid plan")
	}

	// Step 2: Make sure Stripe still sells the price
	price, err := s.gateway.GetPrice(ctx, plan.PriceID)
	if err != nil {
		logger.Warn("simple checkout price lookup failed", map[string]interface{}{
			"price_id": plan.PriceID,
			"error":    err.Error(),
		})
		return nil, model.NewInvalidRequestError("Invalid price ID")
	}
	if !price.Active {
		return nil, model.NewInvalidRequestError("Selected plan is not available")
	}

	// Step 3: Create session
	return s.checkout(ctx, gateway.CheckoutSessionRequest{
		PriceID:               plan.PriceID,
		SuccessURL:            s.successURL(),
		CancelURL:             cancelURL(origin),
		Metadata:              map[string]string{model.MetaCheckoutPlanKey: plan.Key},
		AllowPromotionCodes:   true,
		AutomaticTax:          true,
		RequireBillingAddress: true,
	})
}

func (s *billingService) checkout(ctx context.Context, req gateway.CheckoutSessionRequest) (*model.CheckoutResponse, error) {
	session, err := s.gateway.CreateCheckoutSession(ctx, req)
	if err != nil {
		return nil, model.NewProviderError("Failed to create checkout session", err)
	}

	logger.Info("checkout session created", map[string]interface{}{
		"session_id": session.ID,
		"plan":       req.Metadata[model.MetaCheckoutPlanKey],
	})

	return &model.CheckoutResponse{SessionID: session.ID, URL: session.URL}, nil
}

func (s *billingService) successURL() string {
	return s.cfg.AppURL + "?session_id=" + model.CheckoutSessionPlaceholder
}

func cancelURL(origin string) string {
	return strings.TrimRight(origin, "/") + "?cancelled=true"
}

// =====================================================
// CUSTOMER PORTAL
// =====================================================

func (s *billingService) CreatePortalSession(
	ctx context.Context,
	req model.EmailRequest,
	origin string,
) (*model.PortalResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidRequestError(firstMessage(err))
	}

	customer, err := s.findCustomer(ctx, req.Email, "No subscription found for this email")
	if err != nil {
		return nil, err
	}

	url, err := s.gateway.CreatePortalSession(ctx, customer.ID, strings.TrimRight(origin, "/"))
	if err != nil {
		return nil, model.NewProviderError("Failed to create customer portal session", err)
	}

	return &model.PortalResponse{URL: url}, nil
}

// =====================================================
// SUBSCRIPTION LOOKUP / LOGIN
// =====================================================

func (s *billingService) GetSubscription(ctx context.Context, req model.EmailRequest) (*model.SubscriptionInfoResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidRequestError(firstMessage(err))
	}

	customer, err := s.findCustomer(ctx, req.Email, "Customer not found")
	if err != nil {
		return nil, err
	}

	md := customer.Metadata
	status := md[model.MetaSubscriptionStatus]
	if status == "" {
		status = model.StatusInactive
	}

	return &model.SubscriptionInfoResponse{
		SubscriptionStatus:   status,
		SubscriptionPlan:     optional(md[model.MetaSubscriptionPlan]),
		SubscriptionStart:    optional(md[model.MetaSubscriptionStart]),
		SubscriptionEnd:      optional(md[model.MetaSubscriptionEnd]),
		TrialEnd:             optional(md[model.MetaTrialEnd]),
		StripeSubscriptionID: optional(md[model.MetaSubscriptionID]),
	}, nil
}

func (s *billingService) Login(ctx context.Context, req model.EmailRequest) (*model.LoginResponse, error) {
	// Step 1: Validate
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidRequestError(firstMessage(err))
	}

	// Step 2: Find customer
	customer, err := s.findCustomer(ctx, req.Email, "No subscription found for this email")
	if err != nil {
		return nil, err
	}

	// Step 3: Require an active subscription
	subs, err := s.gateway.ListSubscriptions(ctx, customer.ID, model.StatusActive, 1)
	if err != nil {
		return nil, model.NewProviderError("Internal server error", err)
	}
	if len(subs) == 0 {
		return nil, model.NewNotFoundError("No active subscription found")
	}
	sub := subs[0]

	// Step 4: Resolve plan: metadata first, then the price, then the entry plan
	plan := customer.Metadata[model.MetaSubscriptionPlan]
	if plan == "" {
		plan = customer.Metadata[model.MetaLegacyPlan]
	}
	if plan == "" {
		plan = s.catalog.PlanByPriceID(sub.PriceID())
	}
	if plan == "" {
		plan = model.PlanInfluencer
	}

	// Step 5: Issue subscriber token
	email := customer.Email
	if email == "" {
		email = req.Email
	}
	token, err := s.tokens.GenerateAccessToken(customer.ID, email, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to sign subscriber token: %w", err)
	}

	logger.Info("subscriber logged in", map[string]interface{}{
		"customer_id": customer.ID,
		"plan":        plan,
	})

	return &model.LoginResponse{
		Email:              email,
		CustomerID:         customer.ID,
		SubscriptionStatus: sub.Status,
		Plan:               plan,
		SubscriptionID:     sub.ID,
		Permissions:        s.permissions(plan),
		AccessToken:        token,
		ExpiresIn:          int64(s.tokens.TTL().Seconds()),
	}, nil
}

func (s *billingService) Me(customerID, email, planKey string) *model.MeResponse {
	resp := &model.MeResponse{
		CustomerID:  customerID,
		Email:       email,
		Plan:        planKey,
		Permissions: s.permissions(planKey),
		Features:    []string{},
	}
	if plan, ok := s.catalog.PlanByKey(planKey); ok {
		resp.Features = plan.Features
	}
	resp.HasMediaAccess = s.catalog.HasPermission(planKey, model.PermissionMedia)
	return resp
}

func (s *billingService) ListPlans() []model.PlanResponse {
	plans := s.catalog.Plans()
	out := make([]model.PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, p.ToResponse())
	}
	return out
}

func (s *billingService) permissions(planKey string) []string {
	if plan, ok := s.catalog.PlanByKey(planKey); ok {
		return plan.Permissions
	}
	return []string{}
}

// findCustomer maps "no such customer" to a not found error carrying notFoundMsg.
func (s *billingService) findCustomer(ctx context.Context, email, notFoundMsg string) (*gateway.Customer, error) {
	customer, err := s.gateway.FindCustomerByEmail(ctx, email)
	if err != nil {
		return nil, model.NewProviderError("Internal server error", err)
	}
	if customer == nil {
		return nil, model.NewNotFoundError(notFoundMsg)
	}
	return customer, nil
}

// =====================================================
// HELPERS
// =====================================================

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// firstMessage returns one field message of an ozzo validation error.
func firstMessage(err error) string {
	var errs validation.Errors
	if errors.As(err, &errs) {
		for _, fieldErr := range errs {
			return fieldErr.Error()
		}
	}
	return err.Error()
}
