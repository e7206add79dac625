package review

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marqueehq/marquee-backend/internal/domain"
	"github.com/marqueehq/marquee-backend/internal/pkg/dbctx"
	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
)

type ReviewRepo interface {
	Create(dbc dbctx.Context, review *domain.Review) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Review, error)
	GetByUserAndMedia(dbc dbctx.Context, userID, mediaItemID uuid.UUID) (*domain.Review, error)
	Update(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(dbc dbctx.Context, id uuid.UUID) (bool, error)
	ListByMedia(dbc dbctx.Context, mediaItemID uuid.UUID, limit, offset int) ([]*domain.Review, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit, offset int) ([]*domain.Review, error)
	AddLike(dbc dbctx.Context, reviewID, userID uuid.UUID) (bool, error)
	RemoveLike(dbc dbctx.Context, reviewID, userID uuid.UUID) (bool, error)
}

type reviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	return &reviewRepo{
		db:  db,
		log: baseLog.With("repo", "ReviewRepo"),
	}
}

func (r *reviewRepo) Create(dbc dbctx.Context, review *domain.Review) error {
	transaction := dbc.Session(r.db)
	return transaction.WithContext(dbc.Ctx).Create(review).Error
}

func (r *reviewRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Review, error) {
	transaction := dbc.Session(r.db)
	var rv domain.Review
	err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&rv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *reviewRepo) GetByUserAndMedia(dbc dbctx.Context, userID, mediaItemID uuid.UUID) (*domain.Review, error) {
	transaction := dbc.Session(r.db)
	var rv domain.Review
	err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND media_item_id = ?", userID, mediaItemID).
		First(&rv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *reviewRepo) Update(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Session(r.db)
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&domain.Review{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *reviewRepo) Delete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	transaction := dbc.Session(r.db)
	res := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&domain.Review{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *reviewRepo) ListByMedia(dbc dbctx.Context, mediaItemID uuid.UUID, limit, offset int) ([]*domain.Review, error) {
	transaction := dbc.Session(r.db)
	if limit <= 0 {
		limit = 20
	}
	var out []*domain.Review
	if err := transaction.WithContext(dbc.Ctx).
		Preload("User").
		Where("media_item_id = ?", mediaItemID).
		Order("like_count DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reviewRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit, offset int) ([]*domain.Review, error) {
	transaction := dbc.Session(r.db)
	if limit <= 0 {
		limit = 20
	}
	var out []*domain.Review
	if err := transaction.WithContext(dbc.Ctx).
		Preload("MediaItem").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// AddLike inserts the like row and bumps the denormalized counter in one
// statement each. The conflict clause makes a second like from the same user
// a no-op so the counter can never drift upward.
func (r *reviewRepo) AddLike(dbc dbctx.Context, reviewID, userID uuid.UUID) (bool, error) {
	transaction := dbc.Session(r.db)
	res := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.ReviewLike{ReviewID: reviewID, UserID: userID})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&domain.Review{}).
		Where("id = ?", reviewID).
		UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *reviewRepo) RemoveLike(dbc dbctx.Context, reviewID, userID uuid.UUID) (bool, error) {
	transaction := dbc.Session(r.db)
	res := transaction.WithContext(dbc.Ctx).
		Where("review_id = ? AND user_id = ?", reviewID, userID).
		Delete(&domain.ReviewLike{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&domain.Review{}).
		Where("id = ? AND like_count > 0", reviewID).
		UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error; err != nil {
		return false, err
	}
	return true, nil
}
