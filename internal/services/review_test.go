package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	rankingrepo "github.com/marqueehq/marquee-backend/internal/data/repos/ranking"
	reviewrepo "github.com/marqueehq/marquee-backend/internal/data/repos/review"
	"github.com/marqueehq/marquee-backend/internal/data/repos/testutil"
	userrepo "github.com/marqueehq/marquee-backend/internal/data/repos/user"
	"github.com/marqueehq/marquee-backend/internal/domain"
)

func newReviewService(tx *gorm.DB, t *testing.T) ReviewService {
	log := testutil.Logger(t)
	return NewReviewService(tx, log,
		reviewrepo.NewReviewRepo(tx, log),
		rankingrepo.NewRankingRepo(tx, log),
		userrepo.NewFollowRepo(tx, log))
}

func TestReviewServiceWriteSnapshotsTier(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newReviewService(tx, t)

	u := testutil.SeedUser(t, ctx, tx, "reviewer1")
	m := testutil.SeedMediaItem(t, ctx, tx, "The Conversation")
	testutil.SeedRanking(t, ctx, tx, u.ID, m.ID, domain.TierB, 1000.0, 7.5)

	review, err := svc.Write(ctx, u.ID, WriteReviewInput{
		MediaItemID: m.ID,
		Body:        "Tense from the first frame to the last.",
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if review.RatingTier == nil || *review.RatingTier != domain.TierB {
		t.Fatalf("expected rating tier B snapshot, got %v", review.RatingTier)
	}

	// A second write for the same title replaces the body, not the row.
	updated, err := svc.Write(ctx, u.ID, WriteReviewInput{
		MediaItemID: m.ID,
		Body:        "Still tense on a rewatch, and sadder.",
	})
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if updated.ID != review.ID {
		t.Fatalf("expected update in place, got new review %v", updated.ID)
	}
}

func TestReviewServiceWriteValidatesBody(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newReviewService(tx, t)

	u := testutil.SeedUser(t, ctx, tx, "reviewer2")
	m := testutil.SeedMediaItem(t, ctx, tx, "Blow Out")

	_, err := svc.Write(ctx, u.ID, WriteReviewInput{MediaItemID: m.ID, Body: "meh"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for short body, got %v", err)
	}
}

func TestReviewServiceListByMediaFriendsFirst(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newReviewService(tx, t)

	viewer := testutil.SeedUser(t, ctx, tx, "reviewviewer")
	friend := testutil.SeedUser(t, ctx, tx, "reviewfriend")
	stranger := testutil.SeedUser(t, ctx, tx, "reviewstranger")
	m := testutil.SeedMediaItem(t, ctx, tx, "The Parallax View")

	testutil.SeedFollow(t, ctx, tx, viewer.ID, friend.ID)
	testutil.SeedReview(t, ctx, tx, stranger.ID, m.ID, "A cold and paranoid thriller.")
	friendReview := testutil.SeedReview(t, ctx, tx, friend.ID, m.ID, "Peak seventies paranoia cinema.")

	reviews, err := svc.ListByMedia(ctx, viewer.ID, m.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListByMedia: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviews))
	}
	if reviews[0].ID != friendReview.ID {
		t.Fatalf("expected the followed user's review first, got %v", reviews[0].UserID)
	}
}

func TestReviewServiceToggleLike(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newReviewService(tx, t)

	author := testutil.SeedUser(t, ctx, tx, "likeauthor")
	liker := testutil.SeedUser(t, ctx, tx, "likeliker")
	m := testutil.SeedMediaItem(t, ctx, tx, "Klute")
	review := testutil.SeedReview(t, ctx, tx, author.ID, m.ID, "Fonda carries every scene here.")

	liked, err := svc.ToggleLike(ctx, liker.ID, review.ID)
	if err != nil || !liked {
		t.Fatalf("first toggle: liked=%v err=%v", liked, err)
	}
	liked, err = svc.ToggleLike(ctx, liker.ID, review.ID)
	if err != nil || liked {
		t.Fatalf("second toggle: liked=%v err=%v", liked, err)
	}

	if _, err := svc.ToggleLike(ctx, liker.ID, uuid.New()); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}
