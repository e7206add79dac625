package services

import (
	"context"
	"errors"
	"testing"

	mediarepo "github.com/marqueehq/marquee-backend/internal/data/repos/media"
	rankingrepo "github.com/marqueehq/marquee-backend/internal/data/repos/ranking"
	"github.com/marqueehq/marquee-backend/internal/data/repos/testutil"
	"github.com/marqueehq/marquee-backend/internal/domain"
)

// Tests build the service on the rolled-back test transaction so the
// service's own db.Transaction calls become savepoints.

func TestRankingServiceCreateFirstInTier(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)
	svc := NewRankingService(tx, log, rankingrepo.NewRankingRepo(tx, log), mediarepo.NewMediaRepo(tx, log))

	u := testutil.SeedUser(t, ctx, tx, "svcranker1")
	m := testutil.SeedMediaItem(t, ctx, tx, "The Godfather")

	rk, err := svc.Create(ctx, u.ID, CreateRankingInput{
		MediaItemID: m.ID,
		Placement:   PlacementRequest{Tier: domain.TierS},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rk.RankPosition != 1000.0 {
		t.Fatalf("first item: expected position 1000.0, got %v", rk.RankPosition)
	}
	if rk.VisualScore != 9.5 {
		t.Fatalf("first S item: expected score 9.5, got %v", rk.VisualScore)
	}
}

func TestRankingServiceCreateAppendsAndBisects(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)
	svc := NewRankingService(tx, log, rankingrepo.NewRankingRepo(tx, log), mediarepo.NewMediaRepo(tx, log))

	u := testutil.SeedUser(t, ctx, tx, "svcranker2")
	m1 := testutil.SeedMediaItem(t, ctx, tx, "Goodfellas")
	m2 := testutil.SeedMediaItem(t, ctx, tx, "Casino")
	m3 := testutil.SeedMediaItem(t, ctx, tx, "The Irishman")

	first, err := svc.Create(ctx, u.ID, CreateRankingInput{
		MediaItemID: m1.ID,
		Placement:   PlacementRequest{Tier: domain.TierA},
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}

	second, err := svc.Create(ctx, u.ID, CreateRankingInput{
		MediaItemID: m2.ID,
		Placement:   PlacementRequest{Tier: domain.TierA},
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.RankPosition != 2000.0 {
		t.Fatalf("append: expected position 2000.0, got %v", second.RankPosition)
	}

	between, err := svc.Create(ctx, u.ID, CreateRankingInput{
		MediaItemID: m3.ID,
		Placement: PlacementRequest{
			Tier:          domain.TierA,
			RankedAboveID: &first.ID,
			RankedBelowID: &second.ID,
		},
	})
	if err != nil {
		t.Fatalf("create between: %v", err)
	}
	if between.RankPosition != 1500.0 {
		t.Fatalf("bisect: expected position 1500.0, got %v", between.RankPosition)
	}
	if between.VisualScore < 8.0 || between.VisualScore > 8.9 {
		t.Fatalf("bisect: score %v escaped the A band", between.VisualScore)
	}
}

func TestRankingServiceCreateDuplicate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)
	svc := NewRankingService(tx, log, rankingrepo.NewRankingRepo(tx, log), mediarepo.NewMediaRepo(tx, log))

	u := testutil.SeedUser(t, ctx, tx, "svcranker3")
	m := testutil.SeedMediaItem(t, ctx, tx, "Heat")

	if _, err := svc.Create(ctx, u.ID, CreateRankingInput{
		MediaItemID: m.ID,
		Placement:   PlacementRequest{Tier: domain.TierB},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := svc.Create(ctx, u.ID, CreateRankingInput{
		MediaItemID: m.ID,
		Placement:   PlacementRequest{Tier: domain.TierA},
	})
	if !errors.Is(err, ErrDuplicateRanking) {
		t.Fatalf("expected ErrDuplicateRanking, got %v", err)
	}
}

func TestRankingServiceCreateRejectsCrossTierNeighbor(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)
	svc := NewRankingService(tx, log, rankingrepo.NewRankingRepo(tx, log), mediarepo.NewMediaRepo(tx, log))

	u := testutil.SeedUser(t, ctx, tx, "svcranker4")
	m1 := testutil.SeedMediaItem(t, ctx, tx, "Alien")
	m2 := testutil.SeedMediaItem(t, ctx, tx, "Aliens")

	other := testutil.SeedRanking(t, ctx, tx, u.ID, m1.ID, domain.TierB, 1000.0, 7.5)

	_, err := svc.Create(ctx, u.ID, CreateRankingInput{
		MediaItemID: m2.ID,
		Placement:   PlacementRequest{Tier: domain.TierA, RankedAboveID: &other.ID},
	})
	if !errors.Is(err, ErrInvalidNeighbor) {
		t.Fatalf("expected ErrInvalidNeighbor for neighbor in another tier, got %v", err)
	}
}

func TestRankingServiceCreateRebalancesOnGapExhaustion(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)
	repo := rankingrepo.NewRankingRepo(tx, log)
	svc := NewRankingService(tx, log, repo, mediarepo.NewMediaRepo(tx, log))

	u := testutil.SeedUser(t, ctx, tx, "svcranker5")
	m1 := testutil.SeedMediaItem(t, ctx, tx, "Blade Runner")
	m2 := testutil.SeedMediaItem(t, ctx, tx, "Arrival")
	m3 := testutil.SeedMediaItem(t, ctx, tx, "Dune")

	above := testutil.SeedRanking(t, ctx, tx, u.ID, m1.ID, domain.TierS, 1000.0, 9.7)
	below := testutil.SeedRanking(t, ctx, tx, u.ID, m2.ID, domain.TierS, 1000.0000000001, 9.3)

	created, err := svc.Create(ctx, u.ID, CreateRankingInput{
		MediaItemID: m3.ID,
		Placement: PlacementRequest{
			Tier:          domain.TierS,
			RankedAboveID: &above.ID,
			RankedBelowID: &below.ID,
		},
	})
	if err != nil {
		t.Fatalf("create into exhausted gap: %v", err)
	}

	// After the automatic rebalance the neighbors sit at 1000 and 2000.
	if created.RankPosition != 1500.0 {
		t.Fatalf("expected midpoint 1500.0 after rebalance, got %v", created.RankPosition)
	}

	tier := domain.TierS
	rows, err := svc.ListForUser(ctx, u.ID, RankingListFilter{Tier: &tier})
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].ID != above.ID || rows[1].ID != created.ID || rows[2].ID != below.ID {
		t.Fatalf("unexpected order after rebalance: %v, %v, %v", rows[0].ID, rows[1].ID, rows[2].ID)
	}
}

func TestRankingServiceMoveAcrossTiers(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)
	svc := NewRankingService(tx, log, rankingrepo.NewRankingRepo(tx, log), mediarepo.NewMediaRepo(tx, log))

	u := testutil.SeedUser(t, ctx, tx, "svcranker6")
	m1 := testutil.SeedMediaItem(t, ctx, tx, "Memento")
	m2 := testutil.SeedMediaItem(t, ctx, tx, "Inception")

	target := testutil.SeedRanking(t, ctx, tx, u.ID, m1.ID, domain.TierC, 1000.0, 6.5)
	anchor := testutil.SeedRanking(t, ctx, tx, u.ID, m2.ID, domain.TierA, 1000.0, 8.5)

	moved, err := svc.Move(ctx, u.ID, target.ID, PlacementRequest{
		Tier:          domain.TierA,
		RankedAboveID: &anchor.ID,
	})
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if moved.Tier != domain.TierA {
		t.Fatalf("expected tier A after move, got %s", moved.Tier)
	}
	if moved.RankPosition != 2000.0 {
		t.Fatalf("expected append position 2000.0, got %v", moved.RankPosition)
	}
	if moved.MediaItemID != m1.ID {
		t.Fatalf("move must not change the media item")
	}

	// avg(anchor 8.5, band min 8.0) rounded to one decimal.
	if moved.VisualScore != 8.3 {
		t.Fatalf("expected score 8.3, got %v", moved.VisualScore)
	}
}

func TestRankingServiceMoveRejectsSelfNeighbor(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)
	svc := NewRankingService(tx, log, rankingrepo.NewRankingRepo(tx, log), mediarepo.NewMediaRepo(tx, log))

	u := testutil.SeedUser(t, ctx, tx, "svcranker7")
	m := testutil.SeedMediaItem(t, ctx, tx, "Se7en")
	target := testutil.SeedRanking(t, ctx, tx, u.ID, m.ID, domain.TierB, 1000.0, 7.5)

	_, err := svc.Move(ctx, u.ID, target.ID, PlacementRequest{
		Tier:          domain.TierB,
		RankedAboveID: &target.ID,
	})
	if !errors.Is(err, ErrInvalidNeighbor) {
		t.Fatalf("expected ErrInvalidNeighbor for self reference, got %v", err)
	}
}

func TestRankingServiceMoveOwnerScoped(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)
	svc := NewRankingService(tx, log, rankingrepo.NewRankingRepo(tx, log), mediarepo.NewMediaRepo(tx, log))

	owner := testutil.SeedUser(t, ctx, tx, "svcranker8")
	intruder := testutil.SeedUser(t, ctx, tx, "svcranker9")
	m := testutil.SeedMediaItem(t, ctx, tx, "Zodiac")
	target := testutil.SeedRanking(t, ctx, tx, owner.ID, m.ID, domain.TierB, 1000.0, 7.5)

	_, err := svc.Move(ctx, intruder.ID, target.ID, PlacementRequest{Tier: domain.TierA})
	if !errors.Is(err, ErrRankingNotFound) {
		t.Fatalf("expected ErrRankingNotFound for foreign ranking, got %v", err)
	}
}

func TestRankingServiceDeleteIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)
	svc := NewRankingService(tx, log, rankingrepo.NewRankingRepo(tx, log), mediarepo.NewMediaRepo(tx, log))

	u := testutil.SeedUser(t, ctx, tx, "svcranker10")
	m := testutil.SeedMediaItem(t, ctx, tx, "The Prestige")
	target := testutil.SeedRanking(t, ctx, tx, u.ID, m.ID, domain.TierA, 1000.0, 8.5)

	deleted, err := svc.Delete(ctx, u.ID, target.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected first delete to report true")
	}

	deleted, err = svc.Delete(ctx, u.ID, target.ID)
	if err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if deleted {
		t.Fatal("expected second delete to report false")
	}
}
