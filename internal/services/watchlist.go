package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	mediarepo "github.com/marqueehq/marquee-backend/internal/data/repos/media"
	userrepo "github.com/marqueehq/marquee-backend/internal/data/repos/user"
	watchlistrepo "github.com/marqueehq/marquee-backend/internal/data/repos/watchlist"
	"github.com/marqueehq/marquee-backend/internal/domain"
	"github.com/marqueehq/marquee-backend/internal/pkg/dbctx"
	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
)

type WatchlistItemView struct {
	Item           *domain.SharedWatchlistItem `json:"item"`
	ViewerHasVoted bool                        `json:"viewer_has_voted"`
}

type WatchlistDetail struct {
	Watchlist *domain.SharedWatchlist `json:"watchlist"`
	Members   []*domain.User          `json:"members"`
	Items     []*WatchlistItemView    `json:"items"`
}

type WatchlistService interface {
	Create(ctx context.Context, creatorID uuid.UUID, name string) (*domain.SharedWatchlist, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]*domain.SharedWatchlist, error)
	Detail(ctx context.Context, viewerID, watchlistID uuid.UUID) (*WatchlistDetail, error)
	AddMember(ctx context.Context, actorID, watchlistID, newMemberID uuid.UUID) error
	AddItem(ctx context.Context, actorID, watchlistID, mediaItemID uuid.UUID) (*domain.SharedWatchlistItem, error)
	ToggleVote(ctx context.Context, actorID, itemID uuid.UUID) (voted bool, err error)
	RemoveItem(ctx context.Context, actorID, itemID uuid.UUID) (bool, error)
}

type watchlistService struct {
	db            *gorm.DB
	log           *logger.Logger
	watchlistRepo watchlistrepo.WatchlistRepo
	mediaRepo     mediarepo.MediaRepo
	userRepo      userrepo.UserRepo
}

func NewWatchlistService(db *gorm.DB, log *logger.Logger, watchlistRepo watchlistrepo.WatchlistRepo, mediaRepo mediarepo.MediaRepo, userRepo userrepo.UserRepo) WatchlistService {
	return &watchlistService{
		db:            db,
		log:           log.With("service", "WatchlistService"),
		watchlistRepo: watchlistRepo,
		mediaRepo:     mediaRepo,
		userRepo:      userRepo,
	}
}

func (s *watchlistService) Create(ctx context.Context, creatorID uuid.UUID, name string) (*domain.SharedWatchlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Movie Night"
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("%w: watchlist name too long", ErrValidation)
	}

	wl := &domain.SharedWatchlist{
		ID:        uuid.New(),
		Name:      name,
		CreatedBy: creatorID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.watchlistRepo.Create(dbc, wl); err != nil {
			return err
		}
		return s.watchlistRepo.AddMember(dbc, wl.ID, creatorID)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Watchlist created", "watchlist_id", wl.ID, "creator_id", creatorID)
	return wl, nil
}

func (s *watchlistService) ListMine(ctx context.Context, userID uuid.UUID) ([]*domain.SharedWatchlist, error) {
	return s.watchlistRepo.ListByMember(dbctx.Context{Ctx: ctx}, userID)
}

func (s *watchlistService) Detail(ctx context.Context, viewerID, watchlistID uuid.UUID) (*WatchlistDetail, error) {
	dbc := dbctx.Context{Ctx: ctx}

	wl, err := s.requireMembership(dbc, viewerID, watchlistID)
	if err != nil {
		return nil, err
	}

	members, err := s.watchlistRepo.ListMembers(dbc, watchlistID)
	if err != nil {
		return nil, err
	}
	items, err := s.watchlistRepo.ListItems(dbc, watchlistID)
	if err != nil {
		return nil, err
	}

	itemIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}
	voted, err := s.watchlistRepo.VotedItemIDs(dbc, itemIDs, viewerID)
	if err != nil {
		return nil, err
	}

	views := make([]*WatchlistItemView, 0, len(items))
	for _, item := range items {
		views = append(views, &WatchlistItemView{Item: item, ViewerHasVoted: voted[item.ID]})
	}

	return &WatchlistDetail{Watchlist: wl, Members: members, Items: views}, nil
}

func (s *watchlistService) AddMember(ctx context.Context, actorID, watchlistID, newMemberID uuid.UUID) error {
	dbc := dbctx.Context{Ctx: ctx}

	if _, err := s.requireMembership(dbc, actorID, watchlistID); err != nil {
		return err
	}
	target, err := s.userRepo.GetByID(dbc, newMemberID)
	if err != nil {
		return err
	}
	if target == nil || !target.IsActive {
		return ErrUserNotFound
	}
	return s.watchlistRepo.AddMember(dbc, watchlistID, newMemberID)
}

func (s *watchlistService) AddItem(ctx context.Context, actorID, watchlistID, mediaItemID uuid.UUID) (*domain.SharedWatchlistItem, error) {
	item := &domain.SharedWatchlistItem{
		ID:          uuid.New(),
		WatchlistID: watchlistID,
		MediaItemID: mediaItemID,
		AddedBy:     actorID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		if _, err := s.requireMembership(dbc, actorID, watchlistID); err != nil {
			return err
		}
		media, err := s.mediaRepo.GetByID(dbc, mediaItemID)
		if err != nil {
			return err
		}
		if media == nil {
			return ErrMediaNotFound
		}

		items, err := s.watchlistRepo.ListItems(dbc, watchlistID)
		if err != nil {
			return err
		}
		for _, existing := range items {
			if existing.MediaItemID == mediaItemID {
				return ErrDuplicateListItem
			}
		}
		return s.watchlistRepo.AddItem(dbc, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *watchlistService) ToggleVote(ctx context.Context, actorID, itemID uuid.UUID) (bool, error) {
	var voted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		item, err := s.watchlistRepo.GetItem(dbc, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrWatchlistItemNotFound
		}
		if _, err := s.requireMembership(dbc, actorID, item.WatchlistID); err != nil {
			return err
		}

		added, err := s.watchlistRepo.AddVote(dbc, itemID, actorID)
		if err != nil {
			return err
		}
		if added {
			voted = true
			return nil
		}
		if _, err := s.watchlistRepo.RemoveVote(dbc, itemID, actorID); err != nil {
			return err
		}
		voted = false
		return nil
	})
	if err != nil {
		return false, err
	}
	return voted, nil
}

// RemoveItem lets the adder or the watchlist creator take an item off.
func (s *watchlistService) RemoveItem(ctx context.Context, actorID, itemID uuid.UUID) (bool, error) {
	dbc := dbctx.Context{Ctx: ctx}

	item, err := s.watchlistRepo.GetItem(dbc, itemID)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, nil
	}
	wl, err := s.requireMembership(dbc, actorID, item.WatchlistID)
	if err != nil {
		return false, err
	}
	if item.AddedBy != actorID && wl.CreatedBy != actorID {
		return false, ErrForbidden
	}
	return s.watchlistRepo.RemoveItem(dbc, itemID)
}

func (s *watchlistService) requireMembership(dbc dbctx.Context, userID, watchlistID uuid.UUID) (*domain.SharedWatchlist, error) {
	wl, err := s.watchlistRepo.GetByID(dbc, watchlistID)
	if err != nil {
		return nil, err
	}
	if wl == nil {
		return nil, ErrWatchlistNotFound
	}
	member, err := s.watchlistRepo.IsMember(dbc, watchlistID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotWatchlistMember
	}
	return wl, nil
}
