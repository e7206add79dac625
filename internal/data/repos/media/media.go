package media

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marqueehq/marquee-backend/internal/domain"
	"github.com/marqueehq/marquee-backend/internal/pkg/dbctx"
	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
)

type MediaRepo interface {
	Create(dbc dbctx.Context, items []*domain.MediaItem) ([]*domain.MediaItem, error)
	UpsertByTMDBID(dbc dbctx.Context, items []*domain.MediaItem) ([]*domain.MediaItem, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.MediaItem, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domain.MediaItem, error)
	GetByTMDBIDs(dbc dbctx.Context, tmdbIDs []int) ([]*domain.MediaItem, error)
	SearchByTitle(dbc dbctx.Context, query string, mediaType *domain.MediaType, limit int) ([]*domain.MediaItem, error)
	ListRecent(dbc dbctx.Context, limit int) ([]*domain.MediaItem, error)
}

type mediaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMediaRepo(db *gorm.DB, baseLog *logger.Logger) MediaRepo {
	return &mediaRepo{
		db:  db,
		log: baseLog.With("repo", "MediaRepo"),
	}
}

func (r *mediaRepo) Create(dbc dbctx.Context, items []*domain.MediaItem) ([]*domain.MediaItem, error) {
	transaction := dbc.Session(r.db)
	if len(items) == 0 {
		return []*domain.MediaItem{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertByTMDBID caches externally sourced titles. A re-sync of an already
// cached tmdb_id refreshes the mutable columns instead of duplicating the row.
func (r *mediaRepo) UpsertByTMDBID(dbc dbctx.Context, items []*domain.MediaItem) ([]*domain.MediaItem, error) {
	transaction := dbc.Session(r.db)
	if len(items) == 0 {
		return []*domain.MediaItem{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tmdb_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "release_year", "attributes", "updated_at"}),
		}).
		Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *mediaRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.MediaItem, error) {
	transaction := dbc.Session(r.db)
	var item domain.MediaItem
	err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *mediaRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domain.MediaItem, error) {
	transaction := dbc.Session(r.db)
	var out []*domain.MediaItem
	if len(ids) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mediaRepo) GetByTMDBIDs(dbc dbctx.Context, tmdbIDs []int) ([]*domain.MediaItem, error) {
	transaction := dbc.Session(r.db)
	var out []*domain.MediaItem
	if len(tmdbIDs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("tmdb_id IN ?", tmdbIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mediaRepo) SearchByTitle(dbc dbctx.Context, query string, mediaType *domain.MediaType, limit int) ([]*domain.MediaItem, error) {
	transaction := dbc.Session(r.db)
	if limit <= 0 {
		limit = 20
	}
	q := transaction.WithContext(dbc.Ctx).
		Where("title ILIKE ?", "%"+query+"%")
	if mediaType != nil {
		q = q.Where("media_type = ?", *mediaType)
	}
	var out []*domain.MediaItem
	if err := q.
		Order("is_verified DESC, title ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mediaRepo) ListRecent(dbc dbctx.Context, limit int) ([]*domain.MediaItem, error) {
	transaction := dbc.Session(r.db)
	if limit <= 0 {
		limit = 50
	}
	var out []*domain.MediaItem
	if err := transaction.WithContext(dbc.Ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
