package services

import (
	"context"
	"errors"
	"testing"

	rankingrepo "github.com/marqueehq/marquee-backend/internal/data/repos/ranking"
	"github.com/marqueehq/marquee-backend/internal/data/repos/testutil"
	userrepo "github.com/marqueehq/marquee-backend/internal/data/repos/user"
	"github.com/marqueehq/marquee-backend/internal/domain"
	"gorm.io/gorm"
)

func newSocialService(tx *gorm.DB, t *testing.T) SocialService {
	log := testutil.Logger(t)
	return NewSocialService(tx, log,
		userrepo.NewUserRepo(tx, log),
		userrepo.NewFollowRepo(tx, log),
		rankingrepo.NewRankingRepo(tx, log))
}

func TestSocialServiceFollowRejectsSelf(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newSocialService(tx, t)

	u := testutil.SeedUser(t, ctx, tx, "loner")
	if err := svc.Follow(ctx, u.ID, u.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for self-follow, got %v", err)
	}
}

func TestSocialServiceFeedShowsFollowedRankings(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newSocialService(tx, t)

	viewer := testutil.SeedUser(t, ctx, tx, "feedviewer")
	friend := testutil.SeedUser(t, ctx, tx, "feedfriend")
	stranger := testutil.SeedUser(t, ctx, tx, "feedstranger")
	m1 := testutil.SeedMediaItem(t, ctx, tx, "Heat")
	m2 := testutil.SeedMediaItem(t, ctx, tx, "Collateral")

	if err := svc.Follow(ctx, viewer.ID, friend.ID); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	testutil.SeedRanking(t, ctx, tx, friend.ID, m1.ID, domain.TierA, 1000.0, 8.5)
	testutil.SeedRanking(t, ctx, tx, stranger.ID, m2.ID, domain.TierA, 1000.0, 8.5)

	feed, err := svc.Feed(ctx, viewer.ID, 10)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("expected only the followed user's ranking, got %d entries", len(feed))
	}
	if feed[0].UserID != friend.ID || feed[0].MediaItemID != m1.ID {
		t.Fatalf("unexpected feed entry: user %v media %v", feed[0].UserID, feed[0].MediaItemID)
	}
}

func TestSocialServiceLeaderboardSTierOnly(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newSocialService(tx, t)

	viewer := testutil.SeedUser(t, ctx, tx, "boardviewer")
	friend := testutil.SeedUser(t, ctx, tx, "boardfriend")
	m1 := testutil.SeedMediaItem(t, ctx, tx, "Seven Samurai")
	m2 := testutil.SeedMediaItem(t, ctx, tx, "Ran")

	testutil.SeedFollow(t, ctx, tx, viewer.ID, friend.ID)
	testutil.SeedRanking(t, ctx, tx, friend.ID, m1.ID, domain.TierS, 1000.0, 9.5)
	testutil.SeedRanking(t, ctx, tx, viewer.ID, m2.ID, domain.TierB, 1000.0, 7.5)

	board, err := svc.Leaderboard(ctx, viewer.ID, 10)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(board) != 1 {
		t.Fatalf("expected 1 S-tier entry, got %d", len(board))
	}
	if board[0].Tier != domain.TierS || board[0].UserID != friend.ID {
		t.Fatalf("unexpected leaderboard entry: tier %s user %v", board[0].Tier, board[0].UserID)
	}
}

func TestSocialServiceProfileCountsAndMutual(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newSocialService(tx, t)

	viewer := testutil.SeedUser(t, ctx, tx, "profviewer")
	other := testutil.SeedUser(t, ctx, tx, "profother")
	m := testutil.SeedMediaItem(t, ctx, tx, "Chinatown")

	testutil.SeedFollow(t, ctx, tx, viewer.ID, other.ID)
	testutil.SeedFollow(t, ctx, tx, other.ID, viewer.ID)
	testutil.SeedRanking(t, ctx, tx, other.ID, m.ID, domain.TierS, 1000.0, 9.5)

	profile, err := svc.GetProfile(ctx, viewer.ID, other.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile.RankingCount != 1 {
		t.Fatalf("expected ranking count 1, got %d", profile.RankingCount)
	}
	if !profile.IsFollowing || !profile.IsMutual {
		t.Fatalf("expected mutual follow, got following=%v mutual=%v", profile.IsFollowing, profile.IsMutual)
	}
	if profile.FollowerCount != 1 || profile.FollowingCount != 1 {
		t.Fatalf("unexpected counts: followers %d following %d", profile.FollowerCount, profile.FollowingCount)
	}
}
