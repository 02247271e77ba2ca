package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"plik-backend/internal/domains/contact/model"
	"plik-backend/internal/domains/contact/service"
	"plik-backend/internal/shared/response"
	"plik-backend/pkg/logger"
)

// =====================================================
// CONTACT HANDLER
// =====================================================

type ContactHandler struct {
	contactService service.ServiceInterface
}

func NewContactHandler(contactService service.ServiceInterface) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// SendContact handles the contact form
// POST /api/v1/send-contact
func (h *ContactHandler) SendContact(c *gin.Context) {
	var req model.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "All fields are required")
		return
	}

	resp, err := h.contactService.SendContact(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// SendDemoRequest handles the demo request form (multipart or urlencoded)
// POST /api/v1/send-demo-request
func (h *ContactHandler) SendDemoRequest(c *gin.Context) {
	var req model.DemoRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Missing required fields")
		return
	}

	resp, err := h.contactService.SendDemoRequest(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// SubscribeNewsletter handles the footer newsletter form
// POST /api/v1/newsletter/subscribe
func (h *ContactHandler) SubscribeNewsletter(c *gin.Context) {
	var req model.NewsletterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Email is required")
		return
	}

	resp, err := h.contactService.SubscribeNewsletter(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// =====================================================
// ERROR MAPPING
// =====================================================

func (h *ContactHandler) handleError(c *gin.Context, err error) {
	status, code := mapContactError(err)

	var ce *model.ContactError
	if !errors.As(err, &ce) {
		logger.Error("contact form failed", err)
		response.InternalServerError(c, "Internal server error")
		return
	}

	if status >= http.StatusInternalServerError {
		logger.Error("contact form delivery failed", err)
	}
	response.ErrorResponse(c, status, code, ce.Message)
}

func mapContactError(err error) (int, string) {
	var ce *model.ContactError
	if errors.As(err, &ce) {
		switch ce.Code {
		case model.ErrCodeInvalidInput:
			return http.StatusBadRequest, ce.Code
		case model.ErrCodeNotConfigured, model.ErrCodeDeliveryFailed:
			return http.StatusInternalServerError, ce.Code
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}
