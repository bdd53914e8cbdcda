package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ayatech/muslim-companion-api/internal/usecase"
)

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	auth *usecase.AuthService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login validates credentials and issues an access token. A locked account is
// rejected with 423 and a distinct code so clients can show the unlock time
// rather than an invalid-credentials hint.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "email and password are required"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		if errors.Is(err, usecase.ErrAccountLocked) {
			retry := int(h.auth.RetryAfter(c.Request.Context(), req.Email).Round(time.Second).Seconds())
			response := NewErrorResponse(c, "account temporarily locked due to repeated failures")
			response.Code = "ACCOUNT_LOCKED"
			response.RetryAfter = retry
			c.Header("Retry-After", strconv.Itoa(retry))
			c.JSON(http.StatusLocked, response)
			return
		}

		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid email or password", Code: "INVALID_CREDENTIALS"},
			{Err: usecase.ErrInactiveAccount, Status: http.StatusForbidden, Message: "account is not active", Code: "ACCOUNT_INACTIVE"},
		}, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   result.ExpiresAt,
		User: UserSummary{
			ID:          result.User.ID,
			Email:       result.User.Email,
			DisplayName: result.User.DisplayName,
			Status:      result.User.Status,
			IsAdmin:     result.User.IsAdmin,
		},
	})
}
