package services

import (
	"fmt"

	apperrors "github.com/marqueehq/marquee-backend/internal/pkg/errors"
)

// Service-level sentinels. Handlers map these onto HTTP status codes and
// symbolic error codes; everything else surfaces as a 500.
var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("invalid token: %w", apperrors.ErrUnauthorized)
	ErrUsernameTaken      = fmt.Errorf("username taken: %w", apperrors.ErrConflict)
	ErrEmailTaken         = fmt.Errorf("email taken: %w", apperrors.ErrConflict)
	ErrValidation         = fmt.Errorf("validation failed: %w", apperrors.ErrInvalidArgument)

	ErrUserNotFound  = fmt.Errorf("user: %w", apperrors.ErrNotFound)
	ErrMediaNotFound = fmt.Errorf("media item: %w", apperrors.ErrNotFound)

	ErrRankingNotFound  = fmt.Errorf("ranking: %w", apperrors.ErrNotFound)
	ErrDuplicateRanking = fmt.Errorf("media already ranked: %w", apperrors.ErrConflict)
	ErrInvalidNeighbor  = fmt.Errorf("invalid neighbor: %w", apperrors.ErrInvalidArgument)

	ErrReviewNotFound  = fmt.Errorf("review: %w", apperrors.ErrNotFound)
	ErrDuplicateReview = fmt.Errorf("media already reviewed: %w", apperrors.ErrConflict)

	ErrWatchlistNotFound     = fmt.Errorf("watchlist: %w", apperrors.ErrNotFound)
	ErrWatchlistItemNotFound = fmt.Errorf("watchlist item: %w", apperrors.ErrNotFound)
	ErrNotWatchlistMember    = fmt.Errorf("not a watchlist member: %w", apperrors.ErrUnauthorized)
	ErrDuplicateListItem     = fmt.Errorf("item already on watchlist: %w", apperrors.ErrConflict)

	ErrForbidden = fmt.Errorf("forbidden: %w", apperrors.ErrUnauthorized)
)
