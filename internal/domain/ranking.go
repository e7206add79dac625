package domain

import (
	"time"

	"github.com/google/uuid"
)

// Ranking is one user's placement of one media item.
//
// RankPosition is a fractional index: inserting between two neighbors assigns
// the midpoint of their positions so the rest of the list never renumbers.
// VisualScore is the 0-10 display score interpolated from neighbor scores and
// clamped to the tier's band; it is always derived, never caller-chosen.
// Both are managed exclusively by the ranking service.
type Ranking struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_user_media" json:"user_id"`
	MediaItemID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_user_media" json:"media_item_id"`
	Tier         Tier      `gorm:"size:1;not null" json:"tier"`
	RankPosition float64   `gorm:"not null;default:1000.0" json:"rank_position"`
	VisualScore  float64   `gorm:"type:numeric(3,1);not null" json:"visual_score"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:now()" json:"updated_at"`

	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	MediaItem *MediaItem `gorm:"foreignKey:MediaItemID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Ranking) TableName() string { return "user_rankings" }
