package domain

import (
	"time"

	"github.com/google/uuid"
)

// Review is a user's written take on a movie. RatingTier is snapshotted from
// the author's current ranking of the title (nil when they haven't ranked it).
type Review struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_user_review" json:"user_id"`
	MediaItemID      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_user_review" json:"media_item_id"`
	Body             string    `gorm:"type:text;not null" json:"body"`
	RatingTier       *Tier     `gorm:"size:1" json:"rating_tier,omitempty"`
	ContainsSpoilers bool      `gorm:"not null;default:false" json:"contains_spoilers"`
	LikeCount        int       `gorm:"not null;default:0" json:"like_count"`
	CreatedAt        time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;default:now()" json:"updated_at"`

	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	MediaItem *MediaItem `gorm:"foreignKey:MediaItemID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Review) TableName() string { return "movie_reviews" }

// ReviewLike records one like per user per review.
type ReviewLike struct {
	ReviewID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"review_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`

	Review *Review `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"-"`
	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ReviewLike) TableName() string { return "review_likes" }
