package user

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marqueehq/marquee-backend/internal/domain"
	"github.com/marqueehq/marquee-backend/internal/pkg/dbctx"
	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
)

type FollowRepo interface {
	Create(dbc dbctx.Context, follow *domain.Follow) error
	Delete(dbc dbctx.Context, followerID, followingID uuid.UUID) (bool, error)
	Exists(dbc dbctx.Context, followerID, followingID uuid.UUID) (bool, error)
	ListFollowing(dbc dbctx.Context, followerID uuid.UUID) ([]*domain.User, error)
	ListFollowers(dbc dbctx.Context, followingID uuid.UUID) ([]*domain.User, error)
	ListFollowingIDs(dbc dbctx.Context, followerID uuid.UUID) ([]uuid.UUID, error)
	Counts(dbc dbctx.Context, userID uuid.UUID) (followers int64, following int64, err error)
}

type followRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFollowRepo(db *gorm.DB, baseLog *logger.Logger) FollowRepo {
	return &followRepo{
		db:  db,
		log: baseLog.With("repo", "FollowRepo"),
	}
}

func (r *followRepo) Create(dbc dbctx.Context, follow *domain.Follow) error {
	transaction := dbc.Session(r.db)
	// Re-following is a no-op rather than an error.
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(follow).Error
}

func (r *followRepo) Delete(dbc dbctx.Context, followerID, followingID uuid.UUID) (bool, error) {
	transaction := dbc.Session(r.db)
	res := transaction.WithContext(dbc.Ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&domain.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepo) Exists(dbc dbctx.Context, followerID, followingID uuid.UUID) (bool, error) {
	transaction := dbc.Session(r.db)
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&domain.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *followRepo) ListFollowing(dbc dbctx.Context, followerID uuid.UUID) ([]*domain.User, error) {
	transaction := dbc.Session(r.db)
	var out []*domain.User
	if err := transaction.WithContext(dbc.Ctx).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", followerID).
		Order("follows.created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *followRepo) ListFollowers(dbc dbctx.Context, followingID uuid.UUID) ([]*domain.User, error) {
	transaction := dbc.Session(r.db)
	var out []*domain.User
	if err := transaction.WithContext(dbc.Ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", followingID).
		Order("follows.created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *followRepo) ListFollowingIDs(dbc dbctx.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	transaction := dbc.Session(r.db)
	var out []uuid.UUID
	if err := transaction.WithContext(dbc.Ctx).
		Model(&domain.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("following_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *followRepo) Counts(dbc dbctx.Context, userID uuid.UUID) (int64, int64, error) {
	transaction := dbc.Session(r.db)
	var followers, following int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&domain.Follow{}).
		Where("following_id = ?", userID).
		Count(&followers).Error; err != nil {
		return 0, 0, err
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&domain.Follow{}).
		Where("follower_id = ?", userID).
		Count(&following).Error; err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
