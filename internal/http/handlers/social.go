package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marqueehq/marquee-backend/internal/http/response"
	"github.com/marqueehq/marquee-backend/internal/services"
)

type SocialHandler struct {
	socialService services.SocialService
}

func NewSocialHandler(socialService services.SocialService) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

func (h *SocialHandler) Follow(c *gin.Context) {
	viewerID := currentUserID(c)
	targetID, ok := parseUUIDParam(c, "userID")
	if !ok {
		return
	}

	if err := h.socialService.Follow(c.Request.Context(), viewerID, targetID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"following": true})
}

func (h *SocialHandler) Unfollow(c *gin.Context) {
	viewerID := currentUserID(c)
	targetID, ok := parseUUIDParam(c, "userID")
	if !ok {
		return
	}

	removed, err := h.socialService.Unfollow(c.Request.Context(), viewerID, targetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"removed": removed})
}

func (h *SocialHandler) Following(c *gin.Context) {
	users, err := h.socialService.Following(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"users": users})
}

func (h *SocialHandler) Followers(c *gin.Context) {
	users, err := h.socialService.Followers(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"users": users})
}

func (h *SocialHandler) Feed(c *gin.Context) {
	entries, err := h.socialService.Feed(c.Request.Context(), currentUserID(c), queryInt(c, "limit", 50))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"feed": entries})
}

func (h *SocialHandler) Leaderboard(c *gin.Context) {
	entries, err := h.socialService.Leaderboard(c.Request.Context(), currentUserID(c), queryInt(c, "limit", 20))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"leaderboard": entries})
}

func (h *SocialHandler) SearchUsers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", errMissingQuery)
		return
	}

	results, err := h.socialService.SearchUsers(c.Request.Context(), currentUserID(c), query, queryInt(c, "limit", 20))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"users": results})
}

func (h *SocialHandler) Profile(c *gin.Context) {
	viewerID := currentUserID(c)
	userID, ok := parseUUIDParam(c, "userID")
	if !ok {
		return
	}

	profile, err := h.socialService.GetProfile(c.Request.Context(), viewerID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, profile)
}

func (h *SocialHandler) MyProfile(c *gin.Context) {
	viewerID := currentUserID(c)
	profile, err := h.socialService.GetProfile(c.Request.Context(), viewerID, viewerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, profile)
}

func (h *SocialHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		DisplayName         *string `json:"display_name"`
		Bio                 *string `json:"bio"`
		AvatarURL           *string `json:"avatar_url"`
		OnboardingCompleted *bool   `json:"onboarding_completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}

	user, err := h.socialService.UpdateProfile(c.Request.Context(), currentUserID(c), services.UpdateProfileInput{
		DisplayName:         req.DisplayName,
		Bio:                 req.Bio,
		AvatarURL:           req.AvatarURL,
		OnboardingCompleted: req.OnboardingCompleted,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}
