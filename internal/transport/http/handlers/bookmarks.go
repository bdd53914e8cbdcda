package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ayatech/muslim-companion-api/internal/repository"
	"github.com/ayatech/muslim-companion-api/internal/transport/http/middleware"
	"github.com/ayatech/muslim-companion-api/internal/usecase"
)

// BookmarkHandler exposes the per-user bookmark endpoints.
type BookmarkHandler struct {
	content *usecase.ContentService
}

// NewBookmarkHandler constructs BookmarkHandler.
func NewBookmarkHandler(content *usecase.ContentService) *BookmarkHandler {
	return &BookmarkHandler{content: content}
}

// List serves GET /api/v1/bookmarks.
func (h *BookmarkHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	bookmarks, err := h.content.ListBookmarks(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load bookmarks"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookmarks": bookmarks})
}

// Create serves POST /api/v1/bookmarks.
func (h *BookmarkHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req CreateBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid bookmark payload"))
		return
	}

	bookmark, err := h.content.CreateBookmark(c.Request.Context(), userID, req.SurahNumber, req.VerseNumber, req.Label)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrSurahOutOfRange, Status: http.StatusBadRequest, Message: "surah number must be between 1 and 114"},
		}, http.StatusInternalServerError, "failed to create bookmark")
		return
	}

	c.JSON(http.StatusCreated, bookmark)
}

// Delete serves DELETE /api/v1/bookmarks/:id.
func (h *BookmarkHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.content.DeleteBookmark(c.Request.Context(), userID, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "bookmark not found"},
		}, http.StatusInternalServerError, "failed to delete bookmark")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "bookmark deleted"})
}
