package domain

import (
	"time"

	"github.com/google/uuid"
)

// SharedWatchlist is a collaborative list multiple users add movies to.
type SharedWatchlist struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;default:'Movie Night'" json:"name"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`

	Creator *User `gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE" json:"-"`
}

func (SharedWatchlist) TableName() string { return "shared_watchlists" }

// SharedWatchlistMember joins users to the watchlists they belong to.
type SharedWatchlistMember struct {
	WatchlistID uuid.UUID `gorm:"type:uuid;primaryKey" json:"watchlist_id"`
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	JoinedAt    time.Time `gorm:"not null;default:now()" json:"joined_at"`

	Watchlist *SharedWatchlist `gorm:"foreignKey:WatchlistID;constraint:OnDelete:CASCADE" json:"-"`
	User      *User            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SharedWatchlistMember) TableName() string { return "shared_watchlist_members" }

// SharedWatchlistItem is a movie added to a shared watchlist by a member.
type SharedWatchlistItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WatchlistID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_shared_watchlist_item" json:"watchlist_id"`
	MediaItemID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_shared_watchlist_item" json:"media_item_id"`
	AddedBy     uuid.UUID `gorm:"type:uuid;not null" json:"added_by"`
	VoteCount   int       `gorm:"not null;default:0" json:"vote_count"`
	AddedAt     time.Time `gorm:"not null;default:now()" json:"added_at"`

	Watchlist *SharedWatchlist `gorm:"foreignKey:WatchlistID;constraint:OnDelete:CASCADE" json:"-"`
	MediaItem *MediaItem       `gorm:"foreignKey:MediaItemID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SharedWatchlistItem) TableName() string { return "shared_watchlist_items" }

// SharedWatchlistVote is one member's vote for an item.
type SharedWatchlistVote struct {
	ItemID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"item_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`

	Item *SharedWatchlistItem `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"-"`
	User *User                `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SharedWatchlistVote) TableName() string { return "shared_watchlist_votes" }
