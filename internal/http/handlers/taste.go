package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/marqueehq/marquee-backend/internal/http/response"
	"github.com/marqueehq/marquee-backend/internal/services"
)

type TasteHandler struct {
	tasteService services.TasteService
}

func NewTasteHandler(tasteService services.TasteService) *TasteHandler {
	return &TasteHandler{tasteService: tasteService}
}

func (h *TasteHandler) Compare(c *gin.Context) {
	viewerID := currentUserID(c)
	otherID, ok := parseUUIDParam(c, "userID")
	if !ok {
		return
	}

	report, err := h.tasteService.Compare(c.Request.Context(), viewerID, otherID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, report)
}
