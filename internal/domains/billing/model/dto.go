package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// =====================================================
// REQUEST DTOs
// =====================================================

type CheckoutRequest struct {
	PriceID string `json:"priceId"`
}

func (r CheckoutRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PriceID, validation.Required.Error("Missing required fields")),
	)
}

type SimpleCheckoutRequest struct {
	Plan string `json:"plan"`
}

func (r SimpleCheckoutRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Plan, validation.Required.Error("Invalid plan")),
	)
}

// EmailRequest is shared by portal, login and subscription lookups.
type EmailRequest struct {
	Email string `json:"email" form:"email"`
}

func (r EmailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("Email is required"),
			is.EmailFormat.Error("Invalid email format"),
		),
	)
}

type ValidateAccessRequest struct {
	SessionID  string `json:"sessionId"`
	CustomerID string `json:"customerId"`
	Email      string `json:"email"`
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type PortalResponse struct {
	URL string `json:"url"`
}

// AccessResponse keeps the shape app.plik.ca already parses.
type AccessResponse struct {
	Valid              bool                   `json:"valid"`
	CustomerID         string                 `json:"customerId,omitempty"`
	Email              string                 `json:"email,omitempty"`
	PlanID             string                 `json:"planId,omitempty"`
	Method             string                 `json:"method,omitempty"`
	SubscriptionStatus string                 `json:"subscriptionStatus,omitempty"`
	IsDemoMode         bool                   `json:"isDemoMode,omitempty"`
	Error              string                 `json:"error,omitempty"`
	Debug              map[string]interface{} `json:"debug,omitempty"`
}

// SubscriptionInfoResponse mirrors the customer metadata; missing values are null.
type SubscriptionInfoResponse struct {
	SubscriptionStatus   string  `json:"subscription_status"`
	SubscriptionPlan     *string `json:"subscription_plan"`
	SubscriptionStart    *string `json:"subscription_start_date"`
	SubscriptionEnd      *string `json:"subscription_end_date"`
	TrialEnd             *string `json:"trial_end_date"`
	StripeSubscriptionID *string `json:"stripe_subscription_id"`
}

type LoginResponse struct {
	Email              string   `json:"email"`
	CustomerID         string   `json:"customerId"`
	SubscriptionStatus string   `json:"subscriptionStatus"`
	Plan               string   `json:"plan"`
	SubscriptionID     string   `json:"subscriptionId"`
	Permissions        []string `json:"permissions"`
	AccessToken        string   `json:"accessToken"`
	ExpiresIn          int64    `json:"expiresIn"`
}

type MeResponse struct {
	CustomerID     string   `json:"customerId"`
	Email          string   `json:"email"`
	Plan           string   `json:"plan"`
	Permissions    []string `json:"permissions"`
	Features       []string `json:"features"`
	HasMediaAccess bool     `json:"hasMediaAccess"`
}

type PlanResponse struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	AmountCents int64    `json:"amount"`
	Currency    string   `json:"currency"`
	Interval    string   `json:"interval"`
	PriceID     string   `json:"priceId"`
	Permissions []string `json:"permissions"`
	Features    []string `json:"features"`
}

func (p Plan) ToResponse() PlanResponse {
	return PlanResponse{
		Key:         p.Key,
		Name:        p.Name,
		Price:       p.Price.StringFixed(2),
		AmountCents: p.AmountCents(),
		Currency:    p.Currency,
		Interval:    p.Interval,
		PriceID:     p.PriceID,
		Permissions: p.Permissions,
		Features:    p.Features,
	}
}

// =====================================================
// DEBUG DTOs (admin only)
// =====================================================

type DebugPriceItem struct {
	PriceID  string `json:"priceId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Interval string `json:"interval"`
}

type DebugSubscription struct {
	SubscriptionID string           `json:"subscriptionId"`
	Status         string           `json:"status"`
	Items          []DebugPriceItem `json:"items"`
}

type DebugCustomer struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Metadata map[string]string `json:"metadata"`
}

type DebugCustomerResponse struct {
	Customer      DebugCustomer       `json:"customer"`
	Subscriptions []DebugSubscription `json:"subscriptions"`
}

type DebugPrice struct {
	PriceID     string `json:"priceId"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Interval    string `json:"interval"`
}

type PriceCheck struct {
	PriceID   string `json:"priceId"`
	Plan      string `json:"plan,omitempty"`
	Exists    bool   `json:"exists"`
	Active    bool   `json:"active"`
	Amount    int64  `json:"amount,omitempty"`
	Currency  string `json:"currency,omitempty"`
	ProductID string `json:"product,omitempty"`
	Error     string `json:"error,omitempty"`
}

type DebugAccount struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Country     string `json:"country"`
}

type DebugAccountResponse struct {
	Account         DebugAccount `json:"account"`
	SecretKeyPrefix string       `json:"secret_key_prefix"`
	PriceChecks     []PriceCheck `json:"price_checks"`
}
