package ranking

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marqueehq/marquee-backend/internal/domain"
	"github.com/marqueehq/marquee-backend/internal/pkg/dbctx"
	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
)

type RankingRepo interface {
	Create(dbc dbctx.Context, ranking *domain.Ranking) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Ranking, error)
	GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*domain.Ranking, error)
	GetByUserAndMedia(dbc dbctx.Context, userID, mediaItemID uuid.UUID) (*domain.Ranking, error)
	LockTier(dbc dbctx.Context, userID uuid.UUID, tier domain.Tier) ([]*domain.Ranking, error)
	RebalanceTier(dbc dbctx.Context, userID uuid.UUID, tier domain.Tier) (int64, error)
	UpdatePlacement(dbc dbctx.Context, id uuid.UUID, tier domain.Tier, position, visualScore float64) error
	UpdateNotes(dbc dbctx.Context, id uuid.UUID, notes *string) error
	Delete(dbc dbctx.Context, id uuid.UUID) (bool, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, tier *domain.Tier) ([]*domain.Ranking, error)
	ListByUsersForMedia(dbc dbctx.Context, userIDs []uuid.UUID, mediaItemID uuid.UUID) ([]*domain.Ranking, error)
	ListRecentByUsers(dbc dbctx.Context, userIDs []uuid.UUID, limit int) ([]*domain.Ranking, error)
	TiersByMediaForUsers(dbc dbctx.Context, userIDs []uuid.UUID) (map[uuid.UUID]map[uuid.UUID]domain.Tier, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
}

type rankingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRankingRepo(db *gorm.DB, baseLog *logger.Logger) RankingRepo {
	return &rankingRepo{
		db:  db,
		log: baseLog.With("repo", "RankingRepo"),
	}
}

func (r *rankingRepo) Create(dbc dbctx.Context, ranking *domain.Ranking) error {
	transaction := dbc.Session(r.db)
	return transaction.WithContext(dbc.Ctx).Create(ranking).Error
}

func (r *rankingRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Ranking, error) {
	transaction := dbc.Session(r.db)
	var rk domain.Ranking
	err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&rk).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rk, nil
}

// GetByIDForUpdate locks the row until the surrounding transaction commits.
// Must be called with dbc.Tx set.
func (r *rankingRepo) GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*domain.Ranking, error) {
	transaction := dbc.Session(r.db)
	var rk domain.Ranking
	err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&rk).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rk, nil
}

func (r *rankingRepo) GetByUserAndMedia(dbc dbctx.Context, userID, mediaItemID uuid.UUID) (*domain.Ranking, error) {
	transaction := dbc.Session(r.db)
	var rk domain.Ranking
	err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND media_item_id = ?", userID, mediaItemID).
		First(&rk).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rk, nil
}

// LockTier takes FOR UPDATE on every row of one user's tier, in position
// order. Concurrent placements into the same tier serialize behind it, which
// keeps midpoint computation and the rebalance fallback race-free.
func (r *rankingRepo) LockTier(dbc dbctx.Context, userID uuid.UUID, tier domain.Tier) ([]*domain.Ranking, error) {
	transaction := dbc.Session(r.db)
	var out []*domain.Ranking
	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND tier = ?", userID, tier).
		Order("rank_position ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// RebalanceTier renumbers one user's tier to rn*1000.0 in current order,
// restoring uniform gaps after bisection has exhausted a region. Relative
// order and visual scores are untouched.
func (r *rankingRepo) RebalanceTier(dbc dbctx.Context, userID uuid.UUID, tier domain.Tier) (int64, error) {
	transaction := dbc.Session(r.db)
	res := transaction.WithContext(dbc.Ctx).Exec(`
		UPDATE user_rankings
		SET rank_position = numbered.rn * 1000.0,
		    updated_at = now()
		FROM (
			SELECT id, row_number() OVER (ORDER BY rank_position ASC, id ASC) AS rn
			FROM user_rankings
			WHERE user_id = ? AND tier = ?
		) AS numbered
		WHERE user_rankings.id = numbered.id;
	`, userID, tier)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *rankingRepo) UpdatePlacement(dbc dbctx.Context, id uuid.UUID, tier domain.Tier, position, visualScore float64) error {
	transaction := dbc.Session(r.db)
	return transaction.WithContext(dbc.Ctx).
		Model(&domain.Ranking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"tier":          tier,
			"rank_position": position,
			"visual_score":  visualScore,
		}).Error
}

func (r *rankingRepo) UpdateNotes(dbc dbctx.Context, id uuid.UUID, notes *string) error {
	transaction := dbc.Session(r.db)
	return transaction.WithContext(dbc.Ctx).
		Model(&domain.Ranking{}).
		Where("id = ?", id).
		Update("notes", notes).Error
}

func (r *rankingRepo) Delete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	transaction := dbc.Session(r.db)
	res := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&domain.Ranking{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListByUser returns a user's full ranked list (or one tier of it) in display
// order: best tier first, then ascending position within the tier.
func (r *rankingRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, tier *domain.Tier) ([]*domain.Ranking, error) {
	transaction := dbc.Session(r.db)
	q := transaction.WithContext(dbc.Ctx).
		Preload("MediaItem").
		Where("user_id = ?", userID)
	if tier != nil {
		q = q.Where("tier = ?", *tier)
	}
	var out []*domain.Ranking
	if err := q.
		Order(`CASE tier
			WHEN 'S' THEN 1
			WHEN 'A' THEN 2
			WHEN 'B' THEN 3
			WHEN 'C' THEN 4
			WHEN 'D' THEN 5
			ELSE 6 END ASC`).
		Order("rank_position ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *rankingRepo) ListByUsersForMedia(dbc dbctx.Context, userIDs []uuid.UUID, mediaItemID uuid.UUID) ([]*domain.Ranking, error) {
	transaction := dbc.Session(r.db)
	var out []*domain.Ranking
	if len(userIDs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id IN ? AND media_item_id = ?", userIDs, mediaItemID).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *rankingRepo) ListRecentByUsers(dbc dbctx.Context, userIDs []uuid.UUID, limit int) ([]*domain.Ranking, error) {
	transaction := dbc.Session(r.db)
	var out []*domain.Ranking
	if len(userIDs) == 0 {
		return out, nil
	}
	if limit <= 0 {
		limit = 50
	}
	if err := transaction.WithContext(dbc.Ctx).
		Preload("MediaItem").
		Preload("User").
		Where("user_id IN ?", userIDs).
		Order("updated_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// TiersByMediaForUsers returns user -> media item -> tier for the given
// users. Taste comparison consumes this shape directly.
func (r *rankingRepo) TiersByMediaForUsers(dbc dbctx.Context, userIDs []uuid.UUID) (map[uuid.UUID]map[uuid.UUID]domain.Tier, error) {
	transaction := dbc.Session(r.db)
	out := make(map[uuid.UUID]map[uuid.UUID]domain.Tier, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []*domain.Ranking
	if err := transaction.WithContext(dbc.Ctx).
		Select("user_id", "media_item_id", "tier").
		Where("user_id IN ?", userIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		byMedia, ok := out[row.UserID]
		if !ok {
			byMedia = make(map[uuid.UUID]domain.Tier)
			out[row.UserID] = byMedia
		}
		byMedia[row.MediaItemID] = row.Tier
	}
	return out, nil
}

func (r *rankingRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	transaction := dbc.Session(r.db)
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&domain.Ranking{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
