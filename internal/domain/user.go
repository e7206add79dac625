package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an application account. Username and email are stored lowercase
// so lookups stay case-insensitive without citext.
type User struct {
	ID                  uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Username            string    `gorm:"size:32;uniqueIndex;not null" json:"username"`
	Email               string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	DisplayName         *string   `gorm:"size:60" json:"display_name,omitempty"`
	Bio                 *string   `gorm:"size:280" json:"bio,omitempty"`
	AvatarURL           *string   `gorm:"size:500" json:"avatar_url,omitempty"`
	OnboardingCompleted bool      `gorm:"not null;default:false" json:"onboarding_completed"`
	PasswordHash        string    `gorm:"not null" json:"-"`
	IsActive            bool      `gorm:"not null;default:true" json:"is_active"`
	IsAdmin             bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt           time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt           time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Follow is a directed edge: Follower follows Following.
type Follow struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FollowerID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_follow" json:"follower_id"`
	FollowingID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_follow" json:"following_id"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`

	Follower  *User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Following *User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Follow) TableName() string { return "follows" }
