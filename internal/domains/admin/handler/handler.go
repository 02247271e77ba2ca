package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"plik-backend/internal/domains/admin/model"
	"plik-backend/internal/domains/admin/service"
	"plik-backend/internal/shared/response"
	"plik-backend/pkg/logger"
)

type AdminHandler struct {
	adminService service.ServiceInterface
}

func NewAdminHandler(adminService service.ServiceInterface) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// Login exchanges the admin credentials for a bearer token
// POST /api/v1/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Unauthorized(c, "Invalid credentials")
		return
	}

	resp, err := h.adminService.Login(c.Request.Context(), req)
	if err != nil {
		var ae *model.AdminError
		if errors.As(err, &ae) && ae.Code == model.ErrCodeInvalidCredentials {
			response.ErrorResponse(c, http.StatusUnauthorized, ae.Code, ae.Message)
			return
		}
		logger.Error("admin login failed", err)
		response.InternalServerError(c, "Login failed")
		return
	}

	response.Success(c, http.StatusOK, resp)
}
