package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/marqueehq/marquee-backend/internal/domain"
	"github.com/marqueehq/marquee-backend/internal/http/response"
	"github.com/marqueehq/marquee-backend/internal/services"
)

type MediaHandler struct {
	mediaService services.MediaService
}

func NewMediaHandler(mediaService services.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

func (h *MediaHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", errMissingQuery)
		return
	}

	var mediaType *domain.MediaType
	if raw := c.Query("type"); raw != "" {
		mt := domain.MediaType(strings.ToUpper(raw))
		if !mt.Valid() {
			response.RespondError(c, http.StatusBadRequest, "validation_failed", errors.New("invalid type"))
			return
		}
		mediaType = &mt
	}

	items, err := h.mediaService.Search(c.Request.Context(), query, mediaType, queryInt(c, "limit", 20))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"media_items": items})
}

func (h *MediaHandler) Get(c *gin.Context) {
	mediaID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.mediaService.Get(c.Request.Context(), mediaID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"media_item": item})
}

func (h *MediaHandler) Create(c *gin.Context) {
	userID := currentUserID(c)

	var req struct {
		Title          string  `json:"title"`
		MediaType      string  `json:"media_type"`
		ReleaseYear    *int    `json:"release_year"`
		Director       *string `json:"director"`
		Genre          *string `json:"genre"`
		RuntimeMinutes *int    `json:"runtime_minutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	mediaType := domain.MediaType(strings.ToUpper(strings.TrimSpace(req.MediaType)))
	if mediaType == "" {
		mediaType = domain.MediaTypeMovie
	}

	item, err := h.mediaService.CreateManual(c.Request.Context(), userID, services.CreateMediaInput{
		Title:          req.Title,
		MediaType:      mediaType,
		ReleaseYear:    req.ReleaseYear,
		Director:       req.Director,
		Genre:          req.Genre,
		RuntimeMinutes: req.RuntimeMinutes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"media_item": item})
}
