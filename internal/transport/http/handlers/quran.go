package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ayatech/muslim-companion-api/internal/core/domain"
	"github.com/ayatech/muslim-companion-api/internal/repository"
	"github.com/ayatech/muslim-companion-api/internal/transport/http/middleware"
	"github.com/ayatech/muslim-companion-api/internal/usecase"
)

// QuranHandler exposes the read endpoints for Quran content and the
// administrative mutation.
type QuranHandler struct {
	content *usecase.ContentService
}

// NewQuranHandler constructs QuranHandler.
func NewQuranHandler(content *usecase.ContentService) *QuranHandler {
	return &QuranHandler{content: content}
}

// GetSurah serves GET /api/v1/quran/surahs/:number.
func (h *QuranHandler) GetSurah(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "surah number must be an integer"))
		return
	}

	surah, err := h.content.GetSurah(c.Request.Context(), number)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrSurahOutOfRange, Status: http.StatusBadRequest, Message: "surah number must be between 1 and 114"},
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "surah not found"},
		}, http.StatusInternalServerError, "failed to load surah")
		return
	}

	c.JSON(http.StatusOK, surah)
}

// ListReciters serves GET /api/v1/quran/reciters.
func (h *QuranHandler) ListReciters(c *gin.Context) {
	reciters, err := h.content.ListReciters(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load reciters"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"reciters": reciters})
}

// GetReciter serves GET /api/v1/quran/reciters/:id.
func (h *QuranHandler) GetReciter(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "reciter id must be an integer"))
		return
	}

	reciter, err := h.content.GetReciter(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "reciter not found"},
		}, http.StatusInternalServerError, "failed to load reciter")
		return
	}

	c.JSON(http.StatusOK, reciter)
}

// ListTranslations serves GET /api/v1/quran/translations.
func (h *QuranHandler) ListTranslations(c *gin.Context) {
	translations, err := h.content.ListTranslations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load translations"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"translations": translations})
}

// GetTranslation serves GET /api/v1/quran/translations/:id.
func (h *QuranHandler) GetTranslation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "translation id must be an integer"))
		return
	}

	translation, err := h.content.GetTranslation(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "translation not found"},
		}, http.StatusInternalServerError, "failed to load translation")
		return
	}

	c.JSON(http.StatusOK, translation)
}

// UpdateSurah serves PUT /api/v1/admin/quran/surahs/:number. The cache entries
// for the surah are invalidated before the response is written, so the next
// read serves the revised text.
func (h *QuranHandler) UpdateSurah(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "surah number must be an integer"))
		return
	}

	var req UpdateSurahRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid surah payload"))
		return
	}

	verses := make([]domain.Verse, 0, len(req.Verses))
	for _, verse := range req.Verses {
		verses = append(verses, domain.Verse{Number: verse.Number, Text: verse.Text})
	}

	surah := domain.Surah{
		Number:         number,
		NameArabic:     req.NameArabic,
		NameEnglish:    req.NameEnglish,
		RevelationType: req.RevelationType,
		VerseCount:     len(verses),
		Verses:         verses,
	}

	if err := h.content.UpdateSurahText(c.Request.Context(), surah, middleware.GetUserID(c)); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrSurahOutOfRange, Status: http.StatusBadRequest, Message: "surah number must be between 1 and 114"},
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "surah not found"},
		}, http.StatusInternalServerError, "failed to update surah")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "surah updated"})
}

// UpdateReciter serves PUT /api/v1/admin/quran/reciters/:id.
func (h *QuranHandler) UpdateReciter(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "reciter id must be an integer"))
		return
	}

	var req UpdateReciterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid reciter payload"))
		return
	}

	reciter := domain.Reciter{
		ID:        id,
		Name:      req.Name,
		Style:     req.Style,
		Language:  req.Language,
		AudioBase: req.AudioBase,
	}

	if err := h.content.UpdateReciter(c.Request.Context(), reciter, middleware.GetUserID(c)); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "reciter not found"},
		}, http.StatusInternalServerError, "failed to update reciter")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "reciter updated"})
}

// UpdateTranslation serves PUT /api/v1/admin/quran/translations/:id.
func (h *QuranHandler) UpdateTranslation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "translation id must be an integer"))
		return
	}

	var req UpdateTranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid translation payload"))
		return
	}

	translation := domain.Translation{
		ID:         id,
		Name:       req.Name,
		Language:   req.Language,
		Translator: req.Translator,
	}

	if err := h.content.UpdateTranslation(c.Request.Context(), translation, middleware.GetUserID(c)); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "translation not found"},
		}, http.StatusInternalServerError, "failed to update translation")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "translation updated"})
}
