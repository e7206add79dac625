package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	rankingrepo "github.com/marqueehq/marquee-backend/internal/data/repos/ranking"
	reviewrepo "github.com/marqueehq/marquee-backend/internal/data/repos/review"
	userrepo "github.com/marqueehq/marquee-backend/internal/data/repos/user"
	"github.com/marqueehq/marquee-backend/internal/domain"
	"github.com/marqueehq/marquee-backend/internal/pkg/dbctx"
	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
)

const (
	reviewMinLen = 10
	reviewMaxLen = 2000
)

type WriteReviewInput struct {
	MediaItemID      uuid.UUID
	Body             string
	ContainsSpoilers bool
}

type ReviewService interface {
	Write(ctx context.Context, userID uuid.UUID, input WriteReviewInput) (*domain.Review, error)
	Delete(ctx context.Context, userID, reviewID uuid.UUID) (bool, error)
	ListByMedia(ctx context.Context, viewerID, mediaItemID uuid.UUID, limit, offset int) ([]*domain.Review, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Review, error)
	ToggleLike(ctx context.Context, userID, reviewID uuid.UUID) (liked bool, err error)
}

type reviewService struct {
	db          *gorm.DB
	log         *logger.Logger
	reviewRepo  reviewrepo.ReviewRepo
	rankingRepo rankingrepo.RankingRepo
	followRepo  userrepo.FollowRepo
}

func NewReviewService(db *gorm.DB, log *logger.Logger, reviewRepo reviewrepo.ReviewRepo, rankingRepo rankingrepo.RankingRepo, followRepo userrepo.FollowRepo) ReviewService {
	return &reviewService{
		db:          db,
		log:         log.With("service", "ReviewService"),
		reviewRepo:  reviewRepo,
		rankingRepo: rankingRepo,
		followRepo:  followRepo,
	}
}

// Write creates the author's review for a title, or replaces the body of an
// existing one. The rating tier is snapshotted from the author's current
// ranking at write time; it does not track later moves.
func (s *reviewService) Write(ctx context.Context, userID uuid.UUID, input WriteReviewInput) (*domain.Review, error) {
	body := strings.TrimSpace(input.Body)
	if len(body) < reviewMinLen || len(body) > reviewMaxLen {
		return nil, fmt.Errorf("%w: review body must be %d-%d characters", ErrValidation, reviewMinLen, reviewMaxLen)
	}

	var out *domain.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		var ratingTier *domain.Tier
		if rk, err := s.rankingRepo.GetByUserAndMedia(dbc, userID, input.MediaItemID); err != nil {
			return err
		} else if rk != nil {
			tier := rk.Tier
			ratingTier = &tier
		}

		existing, err := s.reviewRepo.GetByUserAndMedia(dbc, userID, input.MediaItemID)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := s.reviewRepo.Update(dbc, existing.ID, map[string]interface{}{
				"body":              body,
				"contains_spoilers": input.ContainsSpoilers,
				"rating_tier":       ratingTier,
			}); err != nil {
				return err
			}
			existing.Body = body
			existing.ContainsSpoilers = input.ContainsSpoilers
			existing.RatingTier = ratingTier
			out = existing
			return nil
		}

		out = &domain.Review{
			ID:               uuid.New(),
			UserID:           userID,
			MediaItemID:      input.MediaItemID,
			Body:             body,
			RatingTier:       ratingTier,
			ContainsSpoilers: input.ContainsSpoilers,
		}
		return s.reviewRepo.Create(dbc, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *reviewService) Delete(ctx context.Context, userID, reviewID uuid.UUID) (bool, error) {
	dbc := dbctx.Context{Ctx: ctx}
	existing, err := s.reviewRepo.GetByID(dbc, reviewID)
	if err != nil {
		return false, err
	}
	if existing == nil || existing.UserID != userID {
		return false, nil
	}
	return s.reviewRepo.Delete(dbc, reviewID)
}

// ListByMedia puts reviews by people the viewer follows ahead of the rest.
func (s *reviewService) ListByMedia(ctx context.Context, viewerID, mediaItemID uuid.UUID, limit, offset int) ([]*domain.Review, error) {
	dbc := dbctx.Context{Ctx: ctx}
	reviews, err := s.reviewRepo.ListByMedia(dbc, mediaItemID, limit, offset)
	if err != nil {
		return nil, err
	}
	followedIDs, err := s.followRepo.ListFollowingIDs(dbc, viewerID)
	if err != nil {
		return nil, err
	}
	followed := make(map[uuid.UUID]struct{}, len(followedIDs))
	for _, id := range followedIDs {
		followed[id] = struct{}{}
	}

	friends := make([]*domain.Review, 0, len(reviews))
	others := make([]*domain.Review, 0, len(reviews))
	for _, rv := range reviews {
		if _, ok := followed[rv.UserID]; ok {
			friends = append(friends, rv)
		} else {
			others = append(others, rv)
		}
	}
	return append(friends, others...), nil
}

func (s *reviewService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Review, error) {
	return s.reviewRepo.ListByUser(dbctx.Context{Ctx: ctx}, userID, limit, offset)
}

// ToggleLike likes an unliked review and unlikes a liked one, reporting the
// resulting state.
func (s *reviewService) ToggleLike(ctx context.Context, userID, reviewID uuid.UUID) (bool, error) {
	var liked bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		review, err := s.reviewRepo.GetByID(dbc, reviewID)
		if err != nil {
			return err
		}
		if review == nil {
			return ErrReviewNotFound
		}

		added, err := s.reviewRepo.AddLike(dbc, reviewID, userID)
		if err != nil {
			return err
		}
		if added {
			liked = true
			return nil
		}
		if _, err := s.reviewRepo.RemoveLike(dbc, reviewID, userID); err != nil {
			return err
		}
		liked = false
		return nil
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}
