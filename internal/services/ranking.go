package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	mediarepo "github.com/marqueehq/marquee-backend/internal/data/repos/media"
	rankingrepo "github.com/marqueehq/marquee-backend/internal/data/repos/ranking"
	"github.com/marqueehq/marquee-backend/internal/domain"
	"github.com/marqueehq/marquee-backend/internal/pkg/dbctx"
	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
	"github.com/marqueehq/marquee-backend/internal/ranking"
)

// PlacementRequest names the rows the new item should land between.
// RankedAboveID is the neighbor that ends up better than the item,
// RankedBelowID the one that ends up worse. Either side may be nil; both nil
// appends to the bottom of the tier.
type PlacementRequest struct {
	Tier          domain.Tier
	RankedAboveID *uuid.UUID
	RankedBelowID *uuid.UUID
}

type CreateRankingInput struct {
	MediaItemID uuid.UUID
	Placement   PlacementRequest
	Notes       *string
}

// RankingListFilter narrows a shelf read. All fields optional.
type RankingListFilter struct {
	Tier      *domain.Tier
	MediaType *domain.MediaType
	Genre     *string
}

type RankingService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateRankingInput) (*domain.Ranking, error)
	Move(ctx context.Context, userID, rankingID uuid.UUID, placement PlacementRequest) (*domain.Ranking, error)
	UpdateNotes(ctx context.Context, userID, rankingID uuid.UUID, notes *string) (*domain.Ranking, error)
	Delete(ctx context.Context, userID, rankingID uuid.UUID) (bool, error)
	Get(ctx context.Context, userID, rankingID uuid.UUID) (*domain.Ranking, error)
	ListForUser(ctx context.Context, userID uuid.UUID, filter RankingListFilter) ([]*domain.Ranking, error)
}

type rankingService struct {
	db          *gorm.DB
	log         *logger.Logger
	rankingRepo rankingrepo.RankingRepo
	mediaRepo   mediarepo.MediaRepo
}

func NewRankingService(db *gorm.DB, log *logger.Logger, rankingRepo rankingrepo.RankingRepo, mediaRepo mediarepo.MediaRepo) RankingService {
	return &rankingService{
		db:          db,
		log:         log.With("service", "RankingService"),
		rankingRepo: rankingRepo,
		mediaRepo:   mediaRepo,
	}
}

func (s *rankingService) Create(ctx context.Context, userID uuid.UUID, input CreateRankingInput) (*domain.Ranking, error) {
	if err := validatePlacement(input.Placement); err != nil {
		return nil, err
	}

	var created *domain.Ranking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		existing, err := s.rankingRepo.GetByUserAndMedia(dbc, userID, input.MediaItemID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrDuplicateRanking
		}

		item, err := s.mediaRepo.GetByID(dbc, input.MediaItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrMediaNotFound
		}

		position, score, err := s.placeLocked(dbc, userID, input.Placement, uuid.Nil)
		if err != nil {
			return err
		}

		created = &domain.Ranking{
			ID:           uuid.New(),
			UserID:       userID,
			MediaItemID:  input.MediaItemID,
			Tier:         input.Placement.Tier,
			RankPosition: position,
			VisualScore:  score,
			Notes:        input.Notes,
		}
		return s.rankingRepo.Create(dbc, created)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Ranking created",
		"user_id", userID, "media_item_id", input.MediaItemID,
		"tier", created.Tier, "position", created.RankPosition, "score", created.VisualScore)
	return created, nil
}

func (s *rankingService) Move(ctx context.Context, userID, rankingID uuid.UUID, placement PlacementRequest) (*domain.Ranking, error) {
	if err := validatePlacement(placement); err != nil {
		return nil, err
	}
	if refersTo(placement, rankingID) {
		return nil, fmt.Errorf("%w: a ranking cannot neighbor itself", ErrInvalidNeighbor)
	}

	var moved *domain.Ranking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		target, err := s.rankingRepo.GetByIDForUpdate(dbc, rankingID)
		if err != nil {
			return err
		}
		if target == nil || target.UserID != userID {
			return ErrRankingNotFound
		}

		position, score, err := s.placeLocked(dbc, userID, placement, rankingID)
		if err != nil {
			return err
		}

		if err := s.rankingRepo.UpdatePlacement(dbc, rankingID, placement.Tier, position, score); err != nil {
			return err
		}

		target.Tier = placement.Tier
		target.RankPosition = position
		target.VisualScore = score
		moved = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Ranking moved",
		"user_id", userID, "ranking_id", rankingID,
		"tier", moved.Tier, "position", moved.RankPosition, "score", moved.VisualScore)
	return moved, nil
}

// placeLocked locks the destination tier and computes the new position and
// visual score between the requested neighbors. When bisection runs out of
// room it rebalances the tier and retries exactly once; a second exhaustion
// means positions are corrupt and is surfaced as an internal error.
// excludeID removes the row being moved from neighbor consideration.
func (s *rankingService) placeLocked(dbc dbctx.Context, userID uuid.UUID, placement PlacementRequest, excludeID uuid.UUID) (float64, float64, error) {
	for attempt := 0; ; attempt++ {
		rows, err := s.rankingRepo.LockTier(dbc, userID, placement.Tier)
		if err != nil {
			return 0, 0, err
		}

		prev, next, err := resolveNeighbors(rows, placement, excludeID)
		if err != nil {
			return 0, 0, err
		}

		var prevPos, nextPos, prevScore, nextScore *float64
		if prev != nil {
			prevPos, prevScore = &prev.RankPosition, &prev.VisualScore
		}
		if next != nil {
			nextPos, nextScore = &next.RankPosition, &next.VisualScore
		}

		position, err := ranking.CalculatePosition(prevPos, nextPos)
		if errors.Is(err, ranking.ErrGapExhausted) {
			if attempt > 0 {
				s.log.Error("Tier still gap-exhausted after rebalance",
					"user_id", userID, "tier", placement.Tier)
				return 0, 0, fmt.Errorf("tier %s gap exhausted after rebalance: %w", placement.Tier, err)
			}
			if _, err := s.rankingRepo.RebalanceTier(dbc, userID, placement.Tier); err != nil {
				return 0, 0, err
			}
			s.log.Warn("Rebalanced tier after gap exhaustion", "user_id", userID, "tier", placement.Tier)
			continue
		}
		if errors.Is(err, ranking.ErrInvalidNeighborOrder) {
			return 0, 0, fmt.Errorf("%w: neighbors are out of order", ErrInvalidNeighbor)
		}
		if err != nil {
			return 0, 0, err
		}

		score, err := ranking.InterpolateScore(placement.Tier, prevScore, nextScore)
		if err != nil {
			return 0, 0, err
		}
		return position, score, nil
	}
}

// resolveNeighbors maps the requested neighbor IDs onto the locked tier rows.
// Both neighbors must belong to the caller's destination tier; with neither
// given, the item appends below the current last row.
func resolveNeighbors(rows []*domain.Ranking, placement PlacementRequest, excludeID uuid.UUID) (prev, next *domain.Ranking, err error) {
	byID := make(map[uuid.UUID]*domain.Ranking, len(rows))
	var last *domain.Ranking
	for _, row := range rows {
		if excludeID != uuid.Nil && row.ID == excludeID {
			continue
		}
		byID[row.ID] = row
		last = row
	}

	if placement.RankedAboveID == nil && placement.RankedBelowID == nil {
		return last, nil, nil
	}

	if placement.RankedAboveID != nil {
		prev = byID[*placement.RankedAboveID]
		if prev == nil {
			return nil, nil, fmt.Errorf("%w: ranked_above %s is not in tier %s", ErrInvalidNeighbor, *placement.RankedAboveID, placement.Tier)
		}
	}
	if placement.RankedBelowID != nil {
		next = byID[*placement.RankedBelowID]
		if next == nil {
			return nil, nil, fmt.Errorf("%w: ranked_below %s is not in tier %s", ErrInvalidNeighbor, *placement.RankedBelowID, placement.Tier)
		}
	}
	return prev, next, nil
}

func validatePlacement(placement PlacementRequest) error {
	if !placement.Tier.Valid() {
		return fmt.Errorf("%w: unknown tier %q", ErrValidation, placement.Tier)
	}
	if placement.RankedAboveID != nil && placement.RankedBelowID != nil &&
		*placement.RankedAboveID == *placement.RankedBelowID {
		return fmt.Errorf("%w: ranked_above and ranked_below must differ", ErrInvalidNeighbor)
	}
	return nil
}

func refersTo(placement PlacementRequest, id uuid.UUID) bool {
	if placement.RankedAboveID != nil && *placement.RankedAboveID == id {
		return true
	}
	if placement.RankedBelowID != nil && *placement.RankedBelowID == id {
		return true
	}
	return false
}

func (s *rankingService) UpdateNotes(ctx context.Context, userID, rankingID uuid.UUID, notes *string) (*domain.Ranking, error) {
	dbc := dbctx.Context{Ctx: ctx}
	target, err := s.rankingRepo.GetByID(dbc, rankingID)
	if err != nil {
		return nil, err
	}
	if target == nil || target.UserID != userID {
		return nil, ErrRankingNotFound
	}
	if err := s.rankingRepo.UpdateNotes(dbc, rankingID, notes); err != nil {
		return nil, err
	}
	target.Notes = notes
	return target, nil
}

func (s *rankingService) Delete(ctx context.Context, userID, rankingID uuid.UUID) (bool, error) {
	dbc := dbctx.Context{Ctx: ctx}
	target, err := s.rankingRepo.GetByID(dbc, rankingID)
	if err != nil {
		return false, err
	}
	if target == nil || target.UserID != userID {
		return false, nil
	}
	return s.rankingRepo.Delete(dbc, rankingID)
}

func (s *rankingService) Get(ctx context.Context, userID, rankingID uuid.UUID) (*domain.Ranking, error) {
	dbc := dbctx.Context{Ctx: ctx}
	target, err := s.rankingRepo.GetByID(dbc, rankingID)
	if err != nil {
		return nil, err
	}
	if target == nil || target.UserID != userID {
		return nil, ErrRankingNotFound
	}
	return target, nil
}

func (s *rankingService) ListForUser(ctx context.Context, userID uuid.UUID, filter RankingListFilter) ([]*domain.Ranking, error) {
	if filter.Tier != nil && !filter.Tier.Valid() {
		return nil, fmt.Errorf("%w: unknown tier %q", ErrValidation, *filter.Tier)
	}
	if filter.MediaType != nil && !filter.MediaType.Valid() {
		return nil, fmt.Errorf("%w: unknown media type %q", ErrValidation, *filter.MediaType)
	}
	rows, err := s.rankingRepo.ListByUser(dbctx.Context{Ctx: ctx}, userID, filter.Tier)
	if err != nil {
		return nil, err
	}
	if filter.MediaType == nil && filter.Genre == nil {
		return rows, nil
	}

	out := make([]*domain.Ranking, 0, len(rows))
	for _, rk := range rows {
		if rk.MediaItem == nil {
			continue
		}
		if filter.MediaType != nil && rk.MediaItem.MediaType != *filter.MediaType {
			continue
		}
		if filter.Genre != nil && !mediaHasGenre(rk.MediaItem, *filter.Genre) {
			continue
		}
		out = append(out, rk)
	}
	return out, nil
}

func mediaHasGenre(item *domain.MediaItem, genre string) bool {
	if len(item.Attributes) == 0 {
		return false
	}
	var attrs domain.MediaAttributes
	if err := json.Unmarshal(item.Attributes, &attrs); err != nil {
		return false
	}
	genres := attrs.Genres
	if len(genres) == 0 && attrs.Genre != nil {
		genres = []string{*attrs.Genre}
	}
	for _, g := range genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}
