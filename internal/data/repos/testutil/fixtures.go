package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/marqueehq/marquee-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *domain.User {
	tb.Helper()
	u := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "x",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedMediaItem(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *domain.MediaItem {
	tb.Helper()
	m := &domain.MediaItem{
		ID:         uuid.New(),
		Title:      title,
		MediaType:  domain.MediaTypeMovie,
		Attributes: datatypes.JSON([]byte(`{"source":"manual"}`)),
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed media item: %v", err)
	}
	return m
}

func SeedRanking(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, mediaItemID uuid.UUID, tier domain.Tier, position, score float64) *domain.Ranking {
	tb.Helper()
	r := &domain.Ranking{
		ID:           uuid.New(),
		UserID:       userID,
		MediaItemID:  mediaItemID,
		Tier:         tier,
		RankPosition: position,
		VisualScore:  score,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed ranking: %v", err)
	}
	return r
}

func SeedFollow(tb testing.TB, ctx context.Context, tx *gorm.DB, followerID, followingID uuid.UUID) *domain.Follow {
	tb.Helper()
	f := &domain.Follow{
		ID:          uuid.New(),
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed follow: %v", err)
	}
	return f
}

func SeedReview(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, mediaItemID uuid.UUID, body string) *domain.Review {
	tb.Helper()
	r := &domain.Review{
		ID:          uuid.New(),
		UserID:      userID,
		MediaItemID: mediaItemID,
		Body:        body,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed review: %v", err)
	}
	return r
}

func SeedWatchlist(tb testing.TB, ctx context.Context, tx *gorm.DB, createdBy uuid.UUID, name string) *domain.SharedWatchlist {
	tb.Helper()
	wl := &domain.SharedWatchlist{
		ID:        uuid.New(),
		Name:      name,
		CreatedBy: createdBy,
	}
	if err := tx.WithContext(ctx).Create(wl).Error; err != nil {
		tb.Fatalf("seed watchlist: %v", err)
	}
	m := &domain.SharedWatchlistMember{WatchlistID: wl.ID, UserID: createdBy}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed watchlist member: %v", err)
	}
	return wl
}
