package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marqueehq/marquee-backend/internal/http/response"
	"github.com/marqueehq/marquee-backend/internal/services"
)

type DiscoveryHandler struct {
	discoveryService services.DiscoveryService
}

func NewDiscoveryHandler(discoveryService services.DiscoveryService) *DiscoveryHandler {
	return &DiscoveryHandler{discoveryService: discoveryService}
}

func (h *DiscoveryHandler) Recommendations(c *gin.Context) {
	recs, err := h.discoveryService.Recommendations(c.Request.Context(), currentUserID(c), queryInt(c, "limit", 20))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"recommendations": recs})
}

func (h *DiscoveryHandler) Trending(c *gin.Context) {
	entries, err := h.discoveryService.Trending(c.Request.Context(), currentUserID(c), queryInt(c, "limit", 20))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"trending": entries})
}

// GenreBreakdown defaults to the viewer's own shelf; user_id switches the
// subject to someone else's public breakdown.
func (h *DiscoveryHandler) GenreBreakdown(c *gin.Context) {
	userID := currentUserID(c)
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation_failed", errors.New("invalid user_id"))
			return
		}
		userID = parsed
	}

	genres, err := h.discoveryService.GenreBreakdown(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"genres": genres})
}
