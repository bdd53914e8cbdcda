package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ayatech/muslim-companion-api/internal/usecase"
)

// AdminHandler exposes operational endpoints restricted to administrators.
type AdminHandler struct {
	auth    *usecase.AuthService
	content *usecase.ContentService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(auth *usecase.AuthService, content *usecase.ContentService) *AdminHandler {
	return &AdminHandler{auth: auth, content: content}
}

// CacheStats serves GET /api/v1/admin/cache/stats.
func (h *AdminHandler) CacheStats(c *gin.Context) {
	stats, err := h.content.CacheStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "cache statistics unavailable"))
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ClearLockout serves DELETE /api/v1/admin/lockouts/:email, restoring access
// for an account before its lock expires naturally.
func (h *AdminHandler) ClearLockout(c *gin.Context) {
	email := strings.TrimSpace(c.Param("email"))
	if email == "" || !strings.Contains(email, "@") {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "a valid email address is required"))
		return
	}

	h.auth.ClearLockout(c.Request.Context(), email)

	c.JSON(http.StatusOK, MessageResponse{Message: "lockout cleared"})
}
