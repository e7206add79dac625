package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marqueehq/marquee-backend/internal/http/response"
	"github.com/marqueehq/marquee-backend/internal/services"
)

type errorMapping struct {
	sentinel error
	status   int
	code     string
}

// Ordering matters only for readability; sentinels are disjoint.
var errorMappings = []errorMapping{
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{services.ErrInvalidToken, http.StatusUnauthorized, "unauthorized"},
	{services.ErrForbidden, http.StatusForbidden, "forbidden"},
	{services.ErrNotWatchlistMember, http.StatusForbidden, "not_a_member"},

	{services.ErrUsernameTaken, http.StatusConflict, "username_taken"},
	{services.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{services.ErrDuplicateRanking, http.StatusConflict, "duplicate_ranking"},
	{services.ErrDuplicateReview, http.StatusConflict, "duplicate_review"},
	{services.ErrDuplicateListItem, http.StatusConflict, "duplicate_watchlist_item"},

	{services.ErrRankingNotFound, http.StatusNotFound, "ranking_not_found"},
	{services.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{services.ErrMediaNotFound, http.StatusNotFound, "media_not_found"},
	{services.ErrReviewNotFound, http.StatusNotFound, "review_not_found"},
	{services.ErrWatchlistNotFound, http.StatusNotFound, "watchlist_not_found"},
	{services.ErrWatchlistItemNotFound, http.StatusNotFound, "watchlist_item_not_found"},

	{services.ErrInvalidNeighbor, http.StatusBadRequest, "invalid_neighbor"},
	{services.ErrValidation, http.StatusBadRequest, "validation_failed"},
}

// respondServiceError translates service sentinels into the error envelope;
// anything unmapped is an internal error.
func respondServiceError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.sentinel) {
			response.RespondError(c, m.status, m.code, err)
			return
		}
	}
	response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
}
