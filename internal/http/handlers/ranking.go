package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marqueehq/marquee-backend/internal/domain"
	"github.com/marqueehq/marquee-backend/internal/http/response"
	"github.com/marqueehq/marquee-backend/internal/services"
)

type RankingHandler struct {
	rankingService services.RankingService
}

func NewRankingHandler(rankingService services.RankingService) *RankingHandler {
	return &RankingHandler{rankingService: rankingService}
}

type placementRequest struct {
	Tier          string     `json:"tier"`
	RankedAboveID *uuid.UUID `json:"ranked_above_id"`
	RankedBelowID *uuid.UUID `json:"ranked_below_id"`
}

func (pr placementRequest) toPlacement() (services.PlacementRequest, error) {
	tier, ok := domain.ParseTier(pr.Tier)
	if !ok {
		return services.PlacementRequest{}, errors.New("invalid tier")
	}
	return services.PlacementRequest{
		Tier:          tier,
		RankedAboveID: pr.RankedAboveID,
		RankedBelowID: pr.RankedBelowID,
	}, nil
}

func (h *RankingHandler) List(c *gin.Context) {
	userID := currentUserID(c)

	var filter services.RankingListFilter
	if raw := c.Query("tier"); raw != "" {
		t, ok := domain.ParseTier(raw)
		if !ok {
			response.RespondError(c, http.StatusBadRequest, "validation_failed", errors.New("invalid tier"))
			return
		}
		filter.Tier = &t
	}
	if raw := c.Query("type"); raw != "" {
		mt := domain.MediaType(strings.ToUpper(raw))
		if !mt.Valid() {
			response.RespondError(c, http.StatusBadRequest, "validation_failed", errors.New("invalid type"))
			return
		}
		filter.MediaType = &mt
	}
	if raw := c.Query("genre"); raw != "" {
		filter.Genre = &raw
	}

	rankings, err := h.rankingService.ListForUser(c.Request.Context(), userID, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"rankings": rankings})
}

func (h *RankingHandler) Create(c *gin.Context) {
	userID := currentUserID(c)

	var req struct {
		MediaItemID uuid.UUID `json:"media_item_id"`
		Notes       *string   `json:"notes"`
		placementRequest
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	placement, err := req.toPlacement()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}

	ranking, err := h.rankingService.Create(c.Request.Context(), userID, services.CreateRankingInput{
		MediaItemID: req.MediaItemID,
		Placement:   placement,
		Notes:       req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"ranking": ranking})
}

func (h *RankingHandler) Get(c *gin.Context) {
	userID := currentUserID(c)
	rankingID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	ranking, err := h.rankingService.Get(c.Request.Context(), userID, rankingID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ranking": ranking})
}

func (h *RankingHandler) Move(c *gin.Context) {
	userID := currentUserID(c)
	rankingID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req placementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	placement, err := req.toPlacement()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}

	ranking, err := h.rankingService.Move(c.Request.Context(), userID, rankingID, placement)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ranking": ranking})
}

func (h *RankingHandler) UpdateNotes(c *gin.Context) {
	userID := currentUserID(c)
	rankingID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Notes *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}

	ranking, err := h.rankingService.UpdateNotes(c.Request.Context(), userID, rankingID, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ranking": ranking})
}

func (h *RankingHandler) Delete(c *gin.Context) {
	userID := currentUserID(c)
	rankingID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := h.rankingService.Delete(c.Request.Context(), userID, rankingID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": deleted})
}
