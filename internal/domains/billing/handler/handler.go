package handler

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"plik-backend/internal/domains/billing/model"
	"plik-backend/internal/domains/billing/service"
	"plik-backend/internal/shared/middleware"
	"plik-backend/internal/shared/response"
	"plik-backend/pkg/logger"
)

// Stripe events are small; anything bigger is not from Stripe.
const maxWebhookBodyBytes = 64 << 10

// =====================================================
// BILLING HANDLER
// =====================================================

type BillingHandler struct {
	billingService service.ServiceInterface
	siteURL        string
}

// NewBillingHandler creates the billing handler; siteURL is where checkout cancels and
// the customer portal return.
func NewBillingHandler(billingService service.ServiceInterface, siteURL string) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		siteURL:        strings.TrimRight(siteURL, "/"),
	}
}

// =====================================================
// CHECKOUT
// =====================================================

// CreateCheckoutSession starts a subscription checkout for a price
// POST /api/v1/stripe/create-checkout-session
func (h *BillingHandler) CreateCheckoutSession(c *gin.Context) {
	var req model.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Missing required fields")
		return
	}

	resp, err := h.billingService.CreateCheckoutSession(c.Request.Context(), req, h.siteURL)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// CreateSimpleCheckout starts a checkout for a plan key
// POST /api/v1/stripe/simple-checkout
func (h *BillingHandler) CreateSimpleCheckout(c *gin.Context) {
	var req model.SimpleCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid plan")
		return
	}

	resp, err := h.billingService.CreateSimpleCheckout(c.Request.Context(), req, h.siteURL)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// =====================================================
// CUSTOMER PORTAL
// =====================================================

// PortalRedirect sends the browser to the Stripe customer portal
// GET /api/v1/stripe/create-customer-portal?email=
func (h *BillingHandler) PortalRedirect(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		c.Redirect(http.StatusSeeOther, portalLoginURL(h.siteURL))
		return
	}

	resp, err := h.billingService.CreatePortalSession(c.Request.Context(), model.EmailRequest{Email: email}, h.siteURL)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, resp.URL)
}

// CreatePortalSession returns the portal URL
// POST /api/v1/stripe/create-customer-portal
func (h *BillingHandler) CreatePortalSession(c *gin.Context) {
	var req model.EmailRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Email is required")
		return
	}

	resp, err := h.billingService.CreatePortalSession(c.Request.Context(), req, h.siteURL)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// =====================================================
// WEBHOOKS
// =====================================================

// Webhook receives Stripe events. The body must be read raw for signature checks and the
// reply keeps the bare {"received":true} shape Stripe tooling shows.
// POST /api/v1/stripe/webhooks
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	err = h.billingService.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		var be *model.BillingError
		if errors.As(err, &be) && be.Code == model.ErrCodeInvalidSignature {
			c.JSON(http.StatusBadRequest, gin.H{"error": be.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook handler failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// =====================================================
// ACCESS
// =====================================================

// ValidateAccess is called cross-origin by app.plik.ca and answers with the bare access
// object, not the response envelope.
// POST /api/v1/stripe/validate-access
func (h *BillingHandler) ValidateAccess(c *gin.Context) {
	var req model.ValidateAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("access validation body rejected", map[string]interface{}{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, model.AccessResponse{Valid: false, Error: "Validation failed"})
		return
	}

	c.JSON(http.StatusOK, h.billingService.ValidateAccess(c.Request.Context(), req))
}

// Preflight answers CORS preflight for ValidateAccess; OpenCORS sets the headers.
// OPTIONS /api/v1/stripe/validate-access
func (h *BillingHandler) Preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}

// GetSubscription reads the subscription metadata of a customer
// GET /api/v1/user/subscription?email=
func (h *BillingHandler) GetSubscription(c *gin.Context) {
	req := model.EmailRequest{Email: strings.TrimSpace(c.Query("email"))}

	resp, err := h.billingService.GetSubscription(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Login signs in a subscriber by email
// POST /api/v1/auth/login
func (h *BillingHandler) Login(c *gin.Context) {
	var req model.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email is required")
		return
	}

	resp, err := h.billingService.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Me returns the plan of the signed-in subscriber
// GET /api/v1/me
func (h *BillingHandler) Me(c *gin.Context) {
	resp := h.billingService.Me(middleware.GetUserID(c), middleware.GetEmail(c), middleware.GetRole(c))
	response.Success(c, http.StatusOK, resp)
}

// ListPlans returns the plan catalog
// GET /api/v1/plans
func (h *BillingHandler) ListPlans(c *gin.Context) {
	response.Success(c, http.StatusOK, h.billingService.ListPlans())
}

// =====================================================
// ADMIN DEBUG ENDPOINTS
// =====================================================

// DebugCustomer GET /api/v1/admin/debug/customer?customerId=
func (h *BillingHandler) DebugCustomer(c *gin.Context) {
	resp, err := h.billingService.DebugCustomer(c.Request.Context(), c.Query("customerId"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// DebugPrices GET /api/v1/admin/debug/prices
func (h *BillingHandler) DebugPrices(c *gin.Context) {
	prices, err := h.billingService.DebugPrices(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"prices": prices})
}

// DebugAccount GET /api/v1/admin/debug/stripe-account
func (h *BillingHandler) DebugAccount(c *gin.Context) {
	resp, err := h.billingService.DebugAccount(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// TestPrices GET /api/v1/admin/test-prices
func (h *BillingHandler) TestPrices(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"results": h.billingService.TestPrices(c.Request.Context())})
}

// =====================================================
// ERROR MAPPING
// =====================================================

func (h *BillingHandler) handleError(c *gin.Context, err error) {
	status, code := mapBillingError(err)

	var be *model.BillingError
	if !errors.As(err, &be) {
		logger.Error("billing request failed", err)
		response.InternalServerError(c, "Failed to process billing request")
		return
	}

	if status >= http.StatusInternalServerError {
		logger.Error("billing provider call failed", err)
	}
	response.ErrorResponse(c, status, code, be.Message)
}

func mapBillingError(err error) (int, string) {
	var be *model.BillingError
	if errors.As(err, &be) {
		switch be.Code {
		case model.ErrCodeInvalidRequest, model.ErrCodeInvalidSignature:
			return http.StatusBadRequest, be.Code
		case model.ErrCodeNotFound:
			return http.StatusNotFound, be.Code
		case model.ErrCodeUnauthorized:
			return http.StatusUnauthorized, be.Code
		case model.ErrCodeProvider, model.ErrCodeWebhookFailed:
			return http.StatusInternalServerError, be.Code
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// portalLoginURL is the page where visitors type their email; relative when siteURL is unset.
func portalLoginURL(siteURL string) string {
	u, err := url.Parse(siteURL)
	if err != nil || u.Host == "" {
		return model.PortalLoginPath
	}
	u.Path = model.PortalLoginPath
	return u.String()
}
