package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MediaType distinguishes movies (TMDB-backed) from stage plays (manual only).
type MediaType string

const (
	MediaTypeMovie MediaType = "MOVIE"
	MediaTypePlay  MediaType = "PLAY"
)

func (m MediaType) Valid() bool {
	return m == MediaTypeMovie || m == MediaTypePlay
}

// MediaItem is a rankable title. Attributes is a free-form JSONB bag:
//
//	{"director": "...", "cast": [...], "genres": [...], "genre": "...",
//	 "runtime_minutes": 120, "poster_url": "...", "language": "en",
//	 "source": "tmdb" | "manual"}
type MediaItem struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TMDBID          *int           `gorm:"column:tmdb_id;index" json:"tmdb_id,omitempty"`
	Title           string         `gorm:"size:500;not null;index" json:"title"`
	ReleaseYear     *int           `json:"release_year,omitempty"`
	MediaType       MediaType      `gorm:"size:16;not null;default:MOVIE" json:"media_type"`
	Attributes      datatypes.JSON `gorm:"not null;default:'{}'" json:"attributes"`
	IsVerified      bool           `gorm:"not null;default:false" json:"is_verified"`
	IsUserGenerated bool           `gorm:"not null;default:false" json:"is_user_generated"`
	CreatedByUserID *uuid.UUID     `gorm:"type:uuid;index" json:"created_by_user_id,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (MediaItem) TableName() string { return "media_items" }

// MediaAttributes is the decoded shape of MediaItem.Attributes.
type MediaAttributes struct {
	Director       *string  `json:"director,omitempty"`
	Cast           []string `json:"cast,omitempty"`
	Genres         []string `json:"genres,omitempty"`
	Genre          *string  `json:"genre,omitempty"`
	RuntimeMinutes *int     `json:"runtime_minutes,omitempty"`
	ReleaseDate    *string  `json:"release_date,omitempty"`
	PosterURL      *string  `json:"poster_url,omitempty"`
	Language       *string  `json:"language,omitempty"`
	Source         string   `json:"source,omitempty"`
}
