package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marqueehq/marquee-backend/internal/http/response"
	"github.com/marqueehq/marquee-backend/internal/services"
)

type WatchlistHandler struct {
	watchlistService services.WatchlistService
}

func NewWatchlistHandler(watchlistService services.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService}
}

func (h *WatchlistHandler) Create(c *gin.Context) {
	userID := currentUserID(c)

	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}

	watchlist, err := h.watchlistService.Create(c.Request.Context(), userID, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"watchlist": watchlist})
}

func (h *WatchlistHandler) ListMine(c *gin.Context) {
	watchlists, err := h.watchlistService.ListMine(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"watchlists": watchlists})
}

func (h *WatchlistHandler) Detail(c *gin.Context) {
	viewerID := currentUserID(c)
	watchlistID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.watchlistService.Detail(c.Request.Context(), viewerID, watchlistID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, detail)
}

func (h *WatchlistHandler) AddMember(c *gin.Context) {
	actorID := currentUserID(c)
	watchlistID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}

	if err := h.watchlistService.AddMember(c.Request.Context(), actorID, watchlistID, req.UserID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"added": true})
}

func (h *WatchlistHandler) AddItem(c *gin.Context) {
	actorID := currentUserID(c)
	watchlistID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		MediaItemID uuid.UUID `json:"media_item_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}

	item, err := h.watchlistService.AddItem(c.Request.Context(), actorID, watchlistID, req.MediaItemID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"item": item})
}

func (h *WatchlistHandler) ToggleVote(c *gin.Context) {
	actorID := currentUserID(c)
	itemID, ok := parseUUIDParam(c, "itemID")
	if !ok {
		return
	}

	voted, err := h.watchlistService.ToggleVote(c.Request.Context(), actorID, itemID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"voted": voted})
}

func (h *WatchlistHandler) RemoveItem(c *gin.Context) {
	actorID := currentUserID(c)
	itemID, ok := parseUUIDParam(c, "itemID")
	if !ok {
		return
	}

	removed, err := h.watchlistService.RemoveItem(c.Request.Context(), actorID, itemID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"removed": removed})
}
