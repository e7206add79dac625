package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/marqueehq/marquee-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Identity + social graph
		// =========================
		&domain.User{},
		&domain.Follow{},

		// =========================
		// Media catalog
		// =========================
		&domain.MediaItem{},

		// =========================
		// Rankings (the centerpiece)
		// =========================
		&domain.Ranking{},

		// =========================
		// Reviews
		// =========================
		&domain.Review{},
		&domain.ReviewLike{},

		// =========================
		// Shared watchlists
		// =========================
		&domain.SharedWatchlist{},
		&domain.SharedWatchlistMember{},
		&domain.SharedWatchlistItem{},
		&domain.SharedWatchlistVote{},
	)
}

// EnsureRankingConstraints installs the database-level guards that AutoMigrate
// cannot express. The per-tier score band and the finite-position check are
// the last line of defense for ranking integrity regardless of what the
// application layer computes.
func EnsureRankingConstraints(db *gorm.DB) error {
	if err := db.Exec(`
		ALTER TABLE user_rankings
		DROP CONSTRAINT IF EXISTS ck_rank_position_finite;
	`).Error; err != nil {
		return fmt.Errorf("drop ck_rank_position_finite: %w", err)
	}
	if err := db.Exec(`
		ALTER TABLE user_rankings
		ADD CONSTRAINT ck_rank_position_finite
		CHECK (rank_position = rank_position AND rank_position < 'infinity'::float8 AND rank_position > '-infinity'::float8);
	`).Error; err != nil {
		return fmt.Errorf("create ck_rank_position_finite: %w", err)
	}

	if err := db.Exec(`
		ALTER TABLE user_rankings
		DROP CONSTRAINT IF EXISTS ck_visual_score_range;
	`).Error; err != nil {
		return fmt.Errorf("drop ck_visual_score_range: %w", err)
	}
	if err := db.Exec(`
		ALTER TABLE user_rankings
		ADD CONSTRAINT ck_visual_score_range
		CHECK (visual_score >= 0.0 AND visual_score <= 10.0);
	`).Error; err != nil {
		return fmt.Errorf("create ck_visual_score_range: %w", err)
	}

	if err := db.Exec(`
		ALTER TABLE user_rankings
		DROP CONSTRAINT IF EXISTS ck_visual_score_tier_band;
	`).Error; err != nil {
		return fmt.Errorf("drop ck_visual_score_tier_band: %w", err)
	}
	if err := db.Exec(`
		ALTER TABLE user_rankings
		ADD CONSTRAINT ck_visual_score_tier_band
		CHECK (
			(tier = 'S' AND visual_score >= 9.0 AND visual_score <= 10.0) OR
			(tier = 'A' AND visual_score >= 8.0 AND visual_score <= 8.9) OR
			(tier = 'B' AND visual_score >= 7.0 AND visual_score <= 7.9) OR
			(tier = 'C' AND visual_score >= 6.0 AND visual_score <= 6.9) OR
			(tier = 'D' AND visual_score >= 0.0 AND visual_score <= 5.9)
		);
	`).Error; err != nil {
		return fmt.Errorf("create ck_visual_score_tier_band: %w", err)
	}

	// Two rows in the same tier of one user's list can never share a position.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uq_user_tier_position
		ON user_rankings (user_id, tier, rank_position);
	`).Error; err != nil {
		return fmt.Errorf("create uq_user_tier_position: %w", err)
	}

	// Covering index for neighbor lookups and ordered tier scans.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_rankings_user_tier_position
		ON user_rankings (user_id, tier, rank_position);
	`).Error; err != nil {
		return fmt.Errorf("create idx_rankings_user_tier_position: %w", err)
	}

	return nil
}

func EnsureMediaIndexes(db *gorm.DB) error {
	// Trigram index backing fuzzy title search.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_media_items_title_trgm
		ON media_items
		USING GIN (title gin_trgm_ops);
	`).Error; err != nil {
		return fmt.Errorf("create idx_media_items_title_trgm: %w", err)
	}

	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uq_media_items_tmdb_id
		ON media_items (tmdb_id)
		WHERE tmdb_id IS NOT NULL;
	`).Error; err != nil {
		return fmt.Errorf("create uq_media_items_tmdb_id: %w", err)
	}

	return nil
}

func EnsureSocialIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_follows_following
		ON follows (following_id, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_follows_following: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reviews_media_created
		ON movie_reviews (media_item_id, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_reviews_media_created: %w", err)
	}

	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureRankingConstraints(s.db); err != nil {
		s.log.Error("Ranking constraint migration failed", "error", err)
		return err
	}
	if err := EnsureMediaIndexes(s.db); err != nil {
		s.log.Error("Media index migration failed", "error", err)
		return err
	}
	if err := EnsureSocialIndexes(s.db); err != nil {
		s.log.Error("Social index migration failed", "error", err)
		return err
	}

	return nil
}
