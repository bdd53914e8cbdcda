package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ayatech/muslim-companion-api/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	RetryAfter int    `json:"retry_after,omitempty"`
	TraceID    string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports per-dependency readiness.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token and user summary.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        UserSummary `json:"user"`
}

// UserSummary describes a minimal view of a user returned by the API.
type UserSummary struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	DisplayName string            `json:"display_name"`
	Status      domain.UserStatus `json:"status"`
	IsAdmin     bool              `json:"is_admin,omitempty"`
}

// CreateBookmarkRequest defines the payload for creating a bookmark.
type CreateBookmarkRequest struct {
	SurahNumber int    `json:"surah_number" binding:"required,min=1,max=114"`
	VerseNumber int    `json:"verse_number" binding:"required,min=1"`
	Label       string `json:"label"`
}

// UpdateSurahRequest defines the payload for an administrative surah revision.
type UpdateSurahRequest struct {
	NameArabic     string               `json:"name_arabic"`
	NameEnglish    string               `json:"name_english"`
	RevelationType string               `json:"revelation_type"`
	Verses         []UpdateVersePayload `json:"verses" binding:"required,min=1,dive"`
}

// UpdateVersePayload is one verse inside an UpdateSurahRequest.
type UpdateVersePayload struct {
	Number int    `json:"number" binding:"required,min=1"`
	Text   string `json:"text" binding:"required"`
}

// UpdateReciterRequest defines the payload for an administrative reciter revision.
type UpdateReciterRequest struct {
	Name      string `json:"name" binding:"required"`
	Style     string `json:"style"`
	Language  string `json:"language" binding:"required"`
	AudioBase string `json:"audio_base"`
}

// UpdateTranslationRequest defines the payload for an administrative translation revision.
type UpdateTranslationRequest struct {
	Name       string `json:"name" binding:"required"`
	Language   string `json:"language" binding:"required"`
	Translator string `json:"translator"`
}
