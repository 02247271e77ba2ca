package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"plik-backend/internal/domains/billing/gateway"
	"plik-backend/internal/domains/billing/model"
)

// ========================================
// MOCKS
// ========================================

type mockGateway struct{ mock.Mock }

func (m *mockGateway) CreateCheckoutSession(ctx context.Context, req gateway.CheckoutSessionRequest) (*gateway.CheckoutSession, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).(*gateway.CheckoutSession)
	return s, args.Error(1)
}

func (m *mockGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*gateway.CheckoutSession, error) {
	args := m.Called(ctx, sessionID)
	s, _ := args.Get(0).(*gateway.CheckoutSession)
	return s, args.Error(1)
}

func (m *mockGateway) GetCustomer(ctx context.Context, customerID string) (*gateway.Customer, error) {
	args := m.Called(ctx, customerID)
	c, _ := args.Get(0).(*gateway.Customer)
	return c, args.Error(1)
}

func (m *mockGateway) FindCustomerByEmail(ctx context.Context, email string) (*gateway.Customer, error) {
	args := m.Called(ctx, email)
	c, _ := args.Get(0).(*gateway.Customer)
	return c, args.Error(1)
}

func (m *mockGateway) UpdateCustomerMetadata(ctx context.Context, customerID string, metadata map[string]string) error {
	return m.Called(ctx, customerID, metadata).Error(0)
}

func (m *mockGateway) GetSubscription(ctx context.Context, subscriptionID string) (*gateway.Subscription, error) {
	args := m.Called(ctx, subscriptionID)
	s, _ := args.Get(0).(*gateway.Subscription)
	return s, args.Error(1)
}

func (m *mockGateway) ListSubscriptions(ctx context.Context, customerID, status string, limit int) ([]gateway.Subscription, error) {
	args := m.Called(ctx, customerID, status, limit)
	s, _ := args.Get(0).([]gateway.Subscription)
	return s, args.Error(1)
}

func (m *mockGateway) GetPrice(ctx context.Context, priceID string) (*gateway.Price, error) {
	args := m.Called(ctx, priceID)
	p, _ := args.Get(0).(*gateway.Price)
	return p, args.Error(1)
}

func (m *mockGateway) ListActivePrices(ctx context.Context) ([]gateway.Price, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]gateway.Price)
	return p, args.Error(1)
}

func (m *mockGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	args := m.Called(ctx, customerID, returnURL)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) GetAccount(ctx context.Context) (*gateway.Account, error) {
	args := m.Called(ctx)
	a, _ := args.Get(0).(*gateway.Account)
	return a, args.Error(1)
}

func (m *mockGateway) ParseWebhook(payload []byte, signature string) (*gateway.Event, error) {
	args := m.Called(payload, signature)
	e, _ := args.Get(0).(*gateway.Event)
	return e, args.Error(1)
}

type mockEvents struct{ mock.Mock }

func (m *mockEvents) Begin(ctx context.Context, eventID, eventType string, payload []byte) (*model.WebhookEvent, error) {
	args := m.Called(ctx, eventID, eventType, payload)
	e, _ := args.Get(0).(*model.WebhookEvent)
	return e, args.Error(1)
}

func (m *mockEvents) Finish(ctx context.Context, eventID, status string, errMsg *string) error {
	return m.Called(ctx, eventID, status, errMsg).Error(0)
}

func (m *mockEvents) Prune(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type fakeTokens struct {
	lastSubject, lastRole string
}

func (f *fakeTokens) GenerateAccessToken(userID, email, role string) (string, error) {
	f.lastSubject, f.lastRole = userID, role
	return "signed-token", nil
}

func (f *fakeTokens) TTL() time.Duration { return time.Hour }

func newTestService(cfg Config) (*billingService, *mockGateway, *mockEvents, *fakeTokens) {
	gw := &mockGateway{}
	events := &mockEvents{}
	tokens := &fakeTokens{}
	svc := NewBillingService(gw, events, model.NewCatalog("", ""), tokens, cfg).(*billingService)
	return svc, gw, events, tokens
}

var ctx = context.Background()

func billingCode(t *testing.T, err error) string {
	t.Helper()
	var be *model.BillingError
	require.True(t, errors.As(err, &be), "expected BillingError, got %v", err)
	return be.Code
}

// ========================================
// CHECKOUT
// ========================================

func TestCreateCheckoutSession(t *testing.T) {
	svc, gw, _, _ := newTestService(Config{})

	gw.On("CreateCheckoutSession", ctx, mock.MatchedBy(func(r gateway.CheckoutSessionRequest) bool {
		return r.PriceID == model.DefaultInfluencerPriceID &&
			r.SuccessURL == "https://app.plik.ca?session_id={CHECKOUT_SESSION_ID}" &&
			r.CancelURL == "https://plik.ca?cancelled=true" &&
			r.Metadata[model.MetaCheckoutPlanKey] == model.PlanInfluencer &&
			!r.AllowPromotionCodes
	})).Return(&gateway.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/c/cs_1"}, nil)

	resp, err := svc.CreateCheckoutSession(ctx, model.CheckoutRequest{PriceID: model.DefaultInfluencerPriceID}, "https://plik.ca/")
	require.NoError(t, err)
	assert.Equal(t, "cs_1", resp.SessionID)
	assert.Equal(t, "https://checkout.stripe.com/c/cs_1", resp.URL)
	gw.AssertExpectations(t)
}

func TestCreateCheckoutSession_Rejections(t *testing.T) {
	svc, gw, _, _ := newTestService(Config{})

	_, err := svc.CreateCheckoutSession(ctx, model.CheckoutRequest{}, "https://plik.ca")
	assert.Equal(t, model.ErrCodeInvalidRequest, billingCode(t, err))
	assert.Contains(t, err.Error(), "Missing required fields")

	_, err = svc.CreateCheckoutSession(ctx, model.CheckoutRequest{PriceID: "price_unknown"}, "https://plik.ca")
	assert.Contains(t, err.Error(), "Invalid price ID")

	gw.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCreateCheckoutSession_ProviderError(t *testing.T) {
	svc, gw, _, _ := newTestService(Config{})
	gw.On("CreateCheckoutSession", ctx, mock.Anything).Return(nil, errors.New("card_declined"))

	_, err := svc.CreateCheckoutSession(ctx, model.CheckoutRequest{PriceID: model.LegacyInfluencerMediaPriceID}, "https://plik.ca")
	assert.Equal(t, model.ErrCodeProvider, billingCode(t, err))
	assert.ErrorIs(t, err, model.ErrProvider)
}

func TestCreateSimpleCheckout(t *testing.T) {
	svc, gw, _, _ := newTestService(Config{AppURL: "https://app.example.test/"})

	gw.On("GetPrice", ctx, model.DefaultInfluencerMediaPriceID).
		Return(&gateway.Price{ID: model.DefaultInfluencerMediaPriceID, Active: true}, nil)
	gw.On("CreateCheckoutSession", ctx, mock.MatchedBy(func(r gateway.CheckoutSessionRequest) bool {
		return r.AllowPromotionCodes && r.AutomaticTax && r.RequireBillingAddress &&
			r.SuccessURL == "https://app.example.test?session_id={CHECKOUT_SESSION_ID}" &&
			r.Metadata[model.MetaCheckoutPlanKey] == model.PlanInfluencerMedia
	})).Return(&gateway.CheckoutSession{ID: "cs_2", URL: "u"}, nil)

	resp, err := svc.CreateSimpleCheckout(ctx, model.SimpleCheckoutRequest{Plan: model.PlanInfluencerMedia}, "https://plik.ca")
	require.NoError(t, err)
	assert.Equal(t, "cs_2", resp.SessionID)
}

func TestCreateSimpleCheckout_PriceChecks(t *testing.T) {
	tests := []struct {
		name    string
		price   *gateway.Price
		err     error
		wantMsg string
	}{
		{"lookup fails", nil, gateway.ErrNotFound, "Invalid price ID"},
		{"inactive", &gateway.Price{Active: false}, nil, "Selected plan is not available"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, gw, _, _ := newTestService(Config{})
			gw.On("GetPrice", ctx, model.DefaultInfluencerPriceID).Return(tt.price, tt.err)

			_, err := svc.CreateSimpleCheckout(ctx, model.SimpleCheckoutRequest{Plan: model.PlanInfluencer}, "https://plik.ca")
			assert.Equal(t, model.ErrCodeInvalidRequest, billingCode(t, err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	svc, _, _, _ := newTestService(Config{})
	_, err := svc.CreateSimpleCheckout(ctx, model.SimpleCheckoutRequest{Plan: "GOLD"}, "https://plik.ca")
	assert.Contains(t, err.Error(), "Invalid plan")
}

// ========================================
// PORTAL / SUBSCRIPTION / LOGIN
// ========================================

func TestCreatePortalSession(t *testing.T) {
	svc, gw, _, _ := newTestService(Config{})
	gw.On("FindCustomerByEmail", ctx, "jane@example.com").Return(&gateway.Customer{ID: "cus_1"}, nil)
	gw.On("CreatePortalSession", ctx, "cus_1", "https://plik.ca").Return("https://billing.stripe.com/p/1", nil)

	resp, err := svc.CreatePortalSession(ctx, model.EmailRequest{Email: "jane@example.com"}, "https://plik.ca/")
	require.NoError(t, err)
	assert.Equal(t, "https://billing.stripe.com/p/1", resp.URL)
}

func TestCreatePortalSession_NoCustomer(t *testing.T) {
	svc, gw, _, _ := newTestService(Config{})
	gw.On("FindCustomerByEmail", ctx, "ghost@example.com").Return(nil, nil)

	_, err := svc.CreatePortalSession(ctx, model.EmailRequest{Email: "ghost@example.com"}, "https://plik.ca")
	assert.Equal(t, model.ErrCodeNotFound, billingCode(t, err))
	assert.Contains(t, err.Error(), "No subscription found for this email")
}

func TestGetSubscription(t *testing.T) {
	svc, gw, _, _ := newTestService(Config{})
	gw.On("FindCustomerByEmail", ctx, "jane@example.com").Return(&gateway.Customer{
		ID: "cus_1",
		Metadata: map[string]string{
			model.MetaSubscriptionPlan: model.PlanInfluencer,
			model.MetaSubscriptionEnd:  "2025-02-01T00:00:00.000Z",
		},
	}, nil)

	resp, err := svc.GetSubscription(ctx, model.EmailRequest{Email: "jane@example.com"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusInactive, resp.SubscriptionStatus)
	require.NotNil(t, resp.SubscriptionPlan)
	assert.Equal(t, model.PlanInfluencer, *resp.SubscriptionPlan)
	assert.Nil(t, resp.SubscriptionStart)
	assert.Nil(t, resp.TrialEnd)
	require.NotNil(t, resp.SubscriptionEnd)
}

func TestGetSubscription_Validation(t *testing.T) {
	svc, gw, _, _ := newTestService(Config{})

	_, err := svc.GetSubscription(ctx, model.EmailRequest{})
	assert.Contains(t, err.Error(), "Email is required")

	_, err = svc.GetSubscription(ctx, model.EmailRequest{Email: "nope"})
	assert.Contains(t, err.Error(), "Invalid email format")

	gw.On("FindCustomerByEmail", ctx, "ghost@example.com").Return(nil, nil)
	_, err = svc.GetSubscription(ctx, model.EmailRequest{Email: "ghost@example.com"})
	assert.Contains(t, err.Error(), "Customer not found")
}

func TestLogin_PlanResolution(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]string
		priceID  string
		wantPlan string
	}{
		{"metadata plan", map[string]string{model.MetaSubscriptionPlan: model.PlanInfluencerMedia}, model.DefaultInfluencerPriceID, model.PlanInfluencerMedia},
		{"legacy metadata key", map[string]string{model.MetaLegacyPlan: model.PlanAgency}, "", model.PlanAgency},
		{"price mapping", nil, model.LegacyInfluencerMediaPriceID, model.PlanInfluencerMedia},
		{"fallback", nil, "price_other", model.PlanInfluencer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, gw, _, tokens := newTestService(Config{})
			gw.On("FindCustomerByEmail", ctx, "jane@example.com").
				Return(&gateway.Customer{ID: "cus_1", Email: "jane@example.com", Metadata: tt.metadata}, nil)
			gw.On("ListSubscriptions", ctx, "cus_1", model.StatusActive, 1).Return([]gateway.Subscription{{
				ID:     "sub_1",
				Status: model.StatusActive,
				Items:  []gateway.SubscriptionItem{{PriceID: tt.priceID}},
			}}, nil)

			resp, err := svc.Login(ctx, model.EmailRequest{Email: "jane@example.com"})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPlan, resp.Plan)
			assert.Equal(t, "sub_1", resp.SubscriptionID)
			assert.Equal(t, "signed-token", resp.AccessToken)
			assert.Equal(t, int64(3600), resp.ExpiresIn)
			assert.Equal(t, "cus_1", tokens.lastSubject)
			assert.Equal(t, tt.wantPlan, tokens.lastRole)
		})
	}
}

func TestLogin_NoActiveSubscription(t *testing.T) {
	svc, gw, _, _ := newTestService(Config{})
	gw.On("FindCustomerByEmail", ctx, "jane@example.com").Return(&gateway.Customer{ID: "cus_1"}, nil)
	gw.On("ListSubscriptions", ctx, "cus_1", model.StatusActive, 1).Return([]gateway.Subscription{}, nil)

	_, err := svc.Login(ctx, model.EmailRequest{Email: "jane@example.com"})
	assert.Equal(t, model.ErrCodeNotFound, billingCode(t, err))
	assert.Contains(t, err.Error(), "No active subscription found")
}

func TestMe(t *testing.T) {
	svc, _, _, _ := newTestService(Config{})

	me := svc.Me("cus_1", "jane@example.com", model.PlanInfluencerMedia)
	assert.True(t, me.HasMediaAccess)
	assert.Equal(t, []string{model.PermissionInfluencerList, model.PermissionMedia}, me.Permissions)

	me = svc.Me("cus_2", "joe@example.com", model.PlanInfluencer)
	assert.False(t, me.HasMediaAccess)

	me = svc.Me("cus_3", "x@example.com", "UNKNOWN")
	assert.Empty(t, me.Permissions)
	assert.NotNil(t, me.Features)
}

func TestListPlans(t *testing.T) {
	svc, _, _, _ := newTestService(Config{})

	plans := svc.ListPlans()
	require.Len(t, plans, 2)
	assert.Equal(t, model.PlanInfluencer, plans[0].Key)
	assert.Equal(t, "49.00", plans[0].Price)
	assert.Equal(t, int64(9900), plans[1].AmountCents)
}

// ========================================
// VALIDATE ACCESS
// ========================================

func TestValidateAccess_DemoMode(t *testing.T) {
	svc, gw, _, _ := newTestService(Config{DemoMode: true})

	resp := svc.ValidateAccess(ctx, model.ValidateAccessRequest{SessionID: "cs_1"})
	assert.True(t, resp.Valid)
	assert.True(t, resp.IsDemoMode)
	assert.Equal(t, model.DemoCustomerID, resp.CustomerID)
	assert.Equal(t, model.AccessMethodDemo, resp.Method)
	gw.AssertNotCalled(t, "GetCheckoutSession", mock.Anything, mock.Anything)
}

func TestValidateAccess_Session(t *testing.T) {
	svc, gw, _, _ := newTestService(Config{})
	gw.On("GetCheckoutSession", ctx, "cs_1").Return(&gateway.CheckoutSession{
		ID:            "cs_1",
		Status:        "complete",
		PaymentStatus: "paid",
		CustomerID:    "cus_1",
		CustomerEmail: "jane@example.com",
		PriceID:       model.DefaultInfluencerPriceID,
	}, nil)

	resp := svc.ValidateAccess(ctx, model.ValidateAccessRequest{SessionID: "cs_1"})
	assert.True(t, resp.Valid)
	assert.Equal(t, model.AccessMethodSession, resp.Method)
	assert.Equal(t, model.DefaultInfluencerPriceID, resp.PlanID)
	assert.Equal(t, "jane@example.com", resp.Email)
}

func TestValidateAccess_UnpaidSessionFallsThroughToSubscription(t *testing.T) {
	svc, gw, _, _ := newTestService(Config{})
	gw.On("GetCheckoutSession", ctx, "cs_1").Return(&gateway.CheckoutSession{Status: "open", PaymentStatus: "unpaid"}, nil)
	gw.On("GetCustomer", ctx, "cus_1").Return(&gateway.Customer{ID: "cus_1", Email: "jane@example.com"}, nil)
	gw.On("ListSubscriptions", ctx, "cus_1", "", model.SubscriptionLookupLimit).Return([]gateway.Subscription{
		{ID: "sub_old", Status: model.StatusCanceled},
		{ID: "sub_1", Status: model.StatusTrialing, Items: []gateway.SubscriptionItem{{PriceID: "price_x"}}},
	}, nil)

	resp := svc.ValidateAccess(ctx, model.ValidateAccessRequest{SessionID: "cs_1", CustomerID: "cus_1"})
	assert.True(t, resp.Valid)
	assert.Equal(t, model.AccessMethodSubscription, resp.Method)
	assert.Equal(t, model.StatusTrialing, resp.SubscriptionStatus)
	assert.Equal(t, "sub_1", resp.Debug["subscriptionId"])
	assert.Equal(t, "price_x", resp.PlanID)
}

func TestValidateAccess_Metadata(t *testing.T) {
	svc, gw, _, _ := newTestService(Config{})
	gw.On("FindCustomerByEmail", ctx, "jane@example.com").Return(&gateway.Customer{
		ID:    "cus_1",
		Email: "jane@example.com",
		Metadata: map[string]string{
			model.MetaSubscriptionStatus: model.StatusActive,
			model.MetaSubscriptionPlan:   model.PlanInfluencer,
		},
	}, nil)
	gw.On("ListSubscriptions", ctx, "cus_1", "", model.SubscriptionLookupLimit).Return(nil, errors.New("rate limited"))

	resp := svc.ValidateAccess(ctx, model.ValidateAccessRequest{Email: "jane@example.com"})
	assert.True(t, resp.Valid)
	assert.Equal(t, model.AccessMethodMetadata, resp.Method)
	assert.Equal(t, model.PlanInfluencer, resp.PlanID)
}

func TestValidateAccess_NoAccess(t *testing.T) {
	svc, gw, _, _ := newTestService(Config{})
	gw.On("GetCheckoutSession", ctx, "cs_bad").Return(nil, gateway.ErrNotFound)
	gw.On("GetCustomer", ctx, "cus_gone").Return(nil, gateway.ErrNotFound)

	resp := svc.ValidateAccess(ctx, model.ValidateAccessRequest{SessionID: "cs_bad", CustomerID: "cus_gone"})
	assert.False(t, resp.Valid)
	assert.Equal(t, "No valid access found", resp.Error)
	assert.Equal(t, "cs_bad", resp.Debug["sessionId"])
	assert.Equal(t, "cus_gone", resp.Debug["customerId"])
}

// ========================================
// WEBHOOKS
// ========================================

func fixedNow(t *testing.T, now time.Time) {
	prev := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = prev })
}

func TestHandleWebhook_InvalidSignature(t *testing.T) {
	svc, gw, events, _ := newTestService(Config{})
	gw.On("ParseWebhook", []byte("{}"), "bad").Return(nil, gateway.ErrInvalidSignature)

	err := svc.HandleWebhook(ctx, []byte("{}"), "bad")
	assert.Equal(t, model.ErrCodeInvalidSignature, billingCode(t, err))
	events.AssertNotCalled(t, "Begin", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleWebhook_CheckoutCompleted(t *testing.T) {
	svc, gw, events, _ := newTestService(Config{})
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	payload := []byte(`{"id":"evt_1"}`)

	gw.On("ParseWebhook", payload, "sig").Return(&gateway.Event{
		ID:      "evt_1",
		Type:    model.EventCheckoutSessionCompleted,
		Payload: payload,
		Session: &gateway.CheckoutSession{ID: "cs_1", Mode: "subscription", CustomerID: "cus_1", SubscriptionID: "sub_1"},
	}, nil)
	events.On("Begin", ctx, "evt_1", model.EventCheckoutSessionCompleted, payload).Return(&model.WebhookEvent{}, nil)
	gw.On("GetSubscription", ctx, "sub_1").Return(&gateway.Subscription{
		ID:                 "sub_1",
		Items:              []gateway.SubscriptionItem{{PriceID: model.DefaultInfluencerMediaPriceID}},
		CurrentPeriodStart: start,
		CurrentPeriodEnd:   start.AddDate(0, 1, 0),
	}, nil)
	gw.On("UpdateCustomerMetadata", ctx, "cus_1", map[string]string{
		model.MetaSubscriptionPlan:   model.PlanInfluencerMedia,
		model.MetaSubscriptionStatus: model.StatusActive,
		model.MetaSubscriptionStart:  "2025-01-01T00:00:00.000Z",
		model.MetaSubscriptionEnd:    "2025-02-01T00:00:00.000Z",
		model.MetaSubscriptionID:     "sub_1",
	}).Return(nil)
	events.On("Finish", ctx, "evt_1", model.WebhookStatusProcessed, (*string)(nil)).Return(nil)

	require.NoError(t, svc.HandleWebhook(ctx, payload, "sig"))
	gw.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestHandleWebhook_Duplicate(t *testing.T) {
	svc, gw, events, _ := newTestService(Config{})
	gw.On("ParseWebhook", mock.Anything, "sig").Return(&gateway.Event{ID: "evt_1", Type: model.EventInvoicePaymentFailed}, nil)
	events.On("Begin", ctx, "evt_1", model.EventInvoicePaymentFailed, mock.Anything).Return(nil, model.ErrDuplicateEvent)

	require.NoError(t, svc.HandleWebhook(ctx, []byte("{}"), "sig"))
	gw.AssertNotCalled(t, "UpdateCustomerMetadata", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleWebhook_SubscriptionDeletedAndPaymentFailed(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	fixedNow(t, now)

	tests := []struct {
		name  string
		event *gateway.Event
		want  map[string]string
	}{
		{
			name:  "deleted",
			event: &gateway.Event{ID: "evt_d", Type: model.EventSubscriptionDeleted, Subscription: &gateway.Subscription{ID: "sub_1", CustomerID: "cus_1"}},
			want: map[string]string{
				model.MetaSubscriptionStatus: model.StatusCanceled,
				model.MetaSubscriptionEnd:    "2025-03-04T05:06:07.000Z",
			},
		},
		{
			name:  "payment failed",
			event: &gateway.Event{ID: "evt_p", Type: model.EventInvoicePaymentFailed, Invoice: &gateway.Invoice{ID: "in_1", CustomerID: "cus_1"}},
			want:  map[string]string{model.MetaSubscriptionStatus: model.StatusPastDue},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, gw, events, _ := newTestService(Config{})
			gw.On("ParseWebhook", mock.Anything, "sig").Return(tt.event, nil)
			events.On("Begin", ctx, tt.event.ID, tt.event.Type, mock.Anything).Return(&model.WebhookEvent{}, nil)
			gw.On("UpdateCustomerMetadata", ctx, "cus_1", tt.want).Return(nil)
			events.On("Finish", ctx, tt.event.ID, model.WebhookStatusProcessed, (*string)(nil)).Return(nil)

			require.NoError(t, svc.HandleWebhook(ctx, []byte("{}"), "sig"))
			gw.AssertExpectations(t)
		})
	}
}

func TestHandleWebhook_SubscriptionUpdatedUnknownPriceIgnored(t *testing.T) {
	svc, gw, events, _ := newTestService(Config{})
	gw.On("ParseWebhook", mock.Anything, "sig").Return(&gateway.Event{
		ID:           "evt_u",
		Type:         model.EventSubscriptionUpdated,
		Subscription: &gateway.Subscription{ID: "sub_1", CustomerID: "cus_1", Items: []gateway.SubscriptionItem{{PriceID: "price_other"}}},
	}, nil)
	events.On("Begin", ctx, "evt_u", model.EventSubscriptionUpdated, mock.Anything).Return(&model.WebhookEvent{}, nil)
	events.On("Finish", ctx, "evt_u", model.WebhookStatusIgnored, (*string)(nil)).Return(nil)

	require.NoError(t, svc.HandleWebhook(ctx, []byte("{}"), "sig"))
	gw.AssertNotCalled(t, "UpdateCustomerMetadata", mock.Anything, mock.Anything, mock.Anything)
	events.AssertExpectations(t)
}

func TestHandleWebhook_UnhandledTypeIgnored(t *testing.T) {
	svc, gw, events, _ := newTestService(Config{})
	gw.On("ParseWebhook", mock.Anything, "sig").Return(&gateway.Event{ID: "evt_x", Type: "charge.refunded"}, nil)
	events.On("Begin", ctx, "evt_x", "charge.refunded", mock.Anything).Return(&model.WebhookEvent{}, nil)
	events.On("Finish", ctx, "evt_x", model.WebhookStatusIgnored, (*string)(nil)).Return(nil)

	require.NoError(t, svc.HandleWebhook(ctx, []byte("{}"), "sig"))
	events.AssertExpectations(t)
}

func TestHandleWebhook_FailureMarksEventFailed(t *testing.T) {
	svc, gw, events, _ := newTestService(Config{})
	gw.On("ParseWebhook", mock.Anything, "sig").Return(&gateway.Event{
		ID:      "evt_f",
		Type:    model.EventInvoicePaymentFailed,
		Invoice: &gateway.Invoice{CustomerID: "cus_1"},
	}, nil)
	events.On("Begin", ctx, "evt_f", model.EventInvoicePaymentFailed, mock.Anything).Return(&model.WebhookEvent{}, nil)
	gw.On("UpdateCustomerMetadata", ctx, "cus_1", mock.Anything).Return(errors.New("stripe down"))
	events.On("Finish", ctx, "evt_f", model.WebhookStatusFailed, mock.MatchedBy(func(msg *string) bool {
		return msg != nil && *msg != ""
	})).Return(nil)

	err := svc.HandleWebhook(ctx, []byte("{}"), "sig")
	assert.Equal(t, model.ErrCodeWebhookFailed, billingCode(t, err))
	events.AssertExpectations(t)
}

func TestPruneWebhookEvents(t *testing.T) {
	now := time.Date(2025, 6, 30, 3, 0, 0, 0, time.UTC)
	fixedNow(t, now)

	svc, _, events, _ := newTestService(Config{})
	events.On("Prune", ctx, now.Add(-30*24*time.Hour)).Return(int64(7), nil)

	deleted, err := svc.PruneWebhookEvents(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
}

// ========================================
// DEBUG
// ========================================

func TestDebugCustomer(t *testing.T) {
	svc, gw, _, _ := newTestService(Config{})
	gw.On("GetCustomer", ctx, "cus_1").Return(&gateway.Customer{ID: "cus_1", Email: "jane@example.com", Metadata: map[string]string{}}, nil)
	gw.On("ListSubscriptions", ctx, "cus_1", model.StatusActive, model.SubscriptionLookupLimit).Return([]gateway.Subscription{{
		ID:     "sub_1",
		Status: model.StatusActive,
		Items:  []gateway.SubscriptionItem{{PriceID: "price_1", UnitAmount: 4900, Currency: "cad", Interval: "month"}},
	}}, nil)

	resp, err := svc.DebugCustomer(ctx, "cus_1")
	require.NoError(t, err)
	require.Len(t, resp.Subscriptions, 1)
	assert.Equal(t, int64(4900), resp.Subscriptions[0].Items[0].Amount)

	_, err = svc.DebugCustomer(ctx, "")
	assert.Contains(t, err.Error(), "Customer ID required")

	gw.On("GetCustomer", ctx, "cus_gone").Return(nil, gateway.ErrNotFound)
	_, err = svc.DebugCustomer(ctx, "cus_gone")
	assert.Equal(t, model.ErrCodeNotFound, billingCode(t, err))
}

func TestDebugAccount_MasksKeyAndChecksPrices(t *testing.T) {
	svc, gw, _, _ := newTestService(Config{SecretKey: "sk_test_51RQZ9WQD4kb3METU"})
	gw.On("GetAccount", ctx).Return(&gateway.Account{ID: "acct_1", Country: "CA"}, nil)
	gw.On("GetPrice", ctx, model.DefaultInfluencerPriceID).Return(&gateway.Price{Active: true, UnitAmount: 4900, Currency: "cad"}, nil)
	gw.On("GetPrice", ctx, model.DefaultInfluencerMediaPriceID).Return(&gateway.Price{Active: true, UnitAmount: 9900, Currency: "cad"}, nil)
	gw.On("GetPrice", ctx, model.LegacyInfluencerMediaPriceID).Return(nil, gateway.ErrNotFound)

	resp, err := svc.DebugAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sk_test_...", resp.SecretKeyPrefix)
	require.Len(t, resp.PriceChecks, 3)

	byID := map[string]model.PriceCheck{}
	for _, c := range resp.PriceChecks {
		byID[c.PriceID] = c
	}
	assert.True(t, byID[model.DefaultInfluencerPriceID].Exists)
	assert.Equal(t, model.PlanInfluencer, byID[model.DefaultInfluencerPriceID].Plan)
	assert.False(t, byID[model.LegacyInfluencerMediaPriceID].Exists)
	assert.NotEmpty(t, byID[model.LegacyInfluencerMediaPriceID].Error)
}

func TestDebugPrices(t *testing.T) {
	svc, gw, _, _ := newTestService(Config{})
	gw.On("ListActivePrices", ctx).Return([]gateway.Price{
		{ID: "price_1", ProductID: "prod_1", ProductName: "Influencer", UnitAmount: 4900, Currency: "cad", Interval: "month"},
	}, nil)

	prices, err := svc.DebugPrices(ctx)
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, "Influencer", prices[0].ProductName)
}
