package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marqueehq/marquee-backend/internal/http/response"
	"github.com/marqueehq/marquee-backend/internal/services"
)

type ReviewHandler struct {
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) Write(c *gin.Context) {
	userID := currentUserID(c)

	var req struct {
		MediaItemID      uuid.UUID `json:"media_item_id"`
		Body             string    `json:"body"`
		ContainsSpoilers bool      `json:"contains_spoilers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}

	review, err := h.reviewService.Write(c.Request.Context(), userID, services.WriteReviewInput{
		MediaItemID:      req.MediaItemID,
		Body:             req.Body,
		ContainsSpoilers: req.ContainsSpoilers,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"review": review})
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	userID := currentUserID(c)
	reviewID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := h.reviewService.Delete(c.Request.Context(), userID, reviewID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": deleted})
}

func (h *ReviewHandler) ListByMedia(c *gin.Context) {
	viewerID := currentUserID(c)
	mediaID, ok := parseUUIDParam(c, "mediaID")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListByMedia(c.Request.Context(), viewerID, mediaID, queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"reviews": reviews})
}

func (h *ReviewHandler) ListByUser(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "userID")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListByUser(c.Request.Context(), userID, queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"reviews": reviews})
}

func (h *ReviewHandler) ToggleLike(c *gin.Context) {
	userID := currentUserID(c)
	reviewID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	liked, err := h.reviewService.ToggleLike(c.Request.Context(), userID, reviewID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"liked": liked})
}
