package watchlist

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marqueehq/marquee-backend/internal/domain"
	"github.com/marqueehq/marquee-backend/internal/pkg/dbctx"
	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
)

type WatchlistRepo interface {
	Create(dbc dbctx.Context, watchlist *domain.SharedWatchlist) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.SharedWatchlist, error)
	ListByMember(dbc dbctx.Context, userID uuid.UUID) ([]*domain.SharedWatchlist, error)
	AddMember(dbc dbctx.Context, watchlistID, userID uuid.UUID) error
	IsMember(dbc dbctx.Context, watchlistID, userID uuid.UUID) (bool, error)
	ListMembers(dbc dbctx.Context, watchlistID uuid.UUID) ([]*domain.User, error)
	AddItem(dbc dbctx.Context, item *domain.SharedWatchlistItem) error
	GetItem(dbc dbctx.Context, itemID uuid.UUID) (*domain.SharedWatchlistItem, error)
	RemoveItem(dbc dbctx.Context, itemID uuid.UUID) (bool, error)
	ListItems(dbc dbctx.Context, watchlistID uuid.UUID) ([]*domain.SharedWatchlistItem, error)
	AddVote(dbc dbctx.Context, itemID, userID uuid.UUID) (bool, error)
	VotedItemIDs(dbc dbctx.Context, itemIDs []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]bool, error)
	RemoveVote(dbc dbctx.Context, itemID, userID uuid.UUID) (bool, error)
}

type watchlistRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWatchlistRepo(db *gorm.DB, baseLog *logger.Logger) WatchlistRepo {
	return &watchlistRepo{
		db:  db,
		log: baseLog.With("repo", "WatchlistRepo"),
	}
}

func (r *watchlistRepo) Create(dbc dbctx.Context, watchlist *domain.SharedWatchlist) error {
	transaction := dbc.Session(r.db)
	return transaction.WithContext(dbc.Ctx).Create(watchlist).Error
}

func (r *watchlistRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.SharedWatchlist, error) {
	transaction := dbc.Session(r.db)
	var wl domain.SharedWatchlist
	err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&wl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wl, nil
}

func (r *watchlistRepo) ListByMember(dbc dbctx.Context, userID uuid.UUID) ([]*domain.SharedWatchlist, error) {
	transaction := dbc.Session(r.db)
	var out []*domain.SharedWatchlist
	if err := transaction.WithContext(dbc.Ctx).
		Joins("JOIN shared_watchlist_members ON shared_watchlist_members.watchlist_id = shared_watchlists.id").
		Where("shared_watchlist_members.user_id = ?", userID).
		Order("shared_watchlists.created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *watchlistRepo) AddMember(dbc dbctx.Context, watchlistID, userID uuid.UUID) error {
	transaction := dbc.Session(r.db)
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.SharedWatchlistMember{WatchlistID: watchlistID, UserID: userID}).Error
}

func (r *watchlistRepo) IsMember(dbc dbctx.Context, watchlistID, userID uuid.UUID) (bool, error) {
	transaction := dbc.Session(r.db)
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&domain.SharedWatchlistMember{}).
		Where("watchlist_id = ? AND user_id = ?", watchlistID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *watchlistRepo) ListMembers(dbc dbctx.Context, watchlistID uuid.UUID) ([]*domain.User, error) {
	transaction := dbc.Session(r.db)
	var out []*domain.User
	if err := transaction.WithContext(dbc.Ctx).
		Joins("JOIN shared_watchlist_members ON shared_watchlist_members.user_id = users.id").
		Where("shared_watchlist_members.watchlist_id = ?", watchlistID).
		Order("shared_watchlist_members.joined_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *watchlistRepo) AddItem(dbc dbctx.Context, item *domain.SharedWatchlistItem) error {
	transaction := dbc.Session(r.db)
	return transaction.WithContext(dbc.Ctx).Create(item).Error
}

func (r *watchlistRepo) GetItem(dbc dbctx.Context, itemID uuid.UUID) (*domain.SharedWatchlistItem, error) {
	transaction := dbc.Session(r.db)
	var item domain.SharedWatchlistItem
	err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", itemID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *watchlistRepo) RemoveItem(dbc dbctx.Context, itemID uuid.UUID) (bool, error) {
	transaction := dbc.Session(r.db)
	res := transaction.WithContext(dbc.Ctx).
		Where("id = ?", itemID).
		Delete(&domain.SharedWatchlistItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListItems orders by votes so the group's current favorite floats to the top.
func (r *watchlistRepo) ListItems(dbc dbctx.Context, watchlistID uuid.UUID) ([]*domain.SharedWatchlistItem, error) {
	transaction := dbc.Session(r.db)
	var out []*domain.SharedWatchlistItem
	if err := transaction.WithContext(dbc.Ctx).
		Preload("MediaItem").
		Where("watchlist_id = ?", watchlistID).
		Order("vote_count DESC, added_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *watchlistRepo) AddVote(dbc dbctx.Context, itemID, userID uuid.UUID) (bool, error) {
	transaction := dbc.Session(r.db)
	res := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.SharedWatchlistVote{ItemID: itemID, UserID: userID})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&domain.SharedWatchlistItem{}).
		Where("id = ?", itemID).
		UpdateColumn("vote_count", gorm.Expr("vote_count + 1")).Error; err != nil {
		return false, err
	}
	return true, nil
}

// VotedItemIDs reports which of the given items the user has voted for.
func (r *watchlistRepo) VotedItemIDs(dbc dbctx.Context, itemIDs []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	transaction := dbc.Session(r.db)
	out := make(map[uuid.UUID]bool, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	var voted []uuid.UUID
	if err := transaction.WithContext(dbc.Ctx).
		Model(&domain.SharedWatchlistVote{}).
		Where("item_id IN ? AND user_id = ?", itemIDs, userID).
		Pluck("item_id", &voted).Error; err != nil {
		return nil, err
	}
	for _, id := range voted {
		out[id] = true
	}
	return out, nil
}

func (r *watchlistRepo) RemoveVote(dbc dbctx.Context, itemID, userID uuid.UUID) (bool, error) {
	transaction := dbc.Session(r.db)
	res := transaction.WithContext(dbc.Ctx).
		Where("item_id = ? AND user_id = ?", itemID, userID).
		Delete(&domain.SharedWatchlistVote{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&domain.SharedWatchlistItem{}).
		Where("id = ? AND vote_count > 0", itemID).
		UpdateColumn("vote_count", gorm.Expr("vote_count - 1")).Error; err != nil {
		return false, err
	}
	return true, nil
}
