package ranking

import (
	"context"
	"testing"

	"github.com/marqueehq/marquee-backend/internal/data/repos/testutil"
	"github.com/marqueehq/marquee-backend/internal/domain"
	"github.com/marqueehq/marquee-backend/internal/pkg/dbctx"
)

func TestRankingRepoCreateAndGet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRankingRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, "ranker1")
	m := testutil.SeedMediaItem(t, ctx, tx, "Seven Samurai")

	rk := testutil.SeedRanking(t, ctx, tx, u.ID, m.ID, domain.TierS, 1000.0, 9.5)

	got, err := repo.GetByUserAndMedia(dbc, u.ID, m.ID)
	if err != nil {
		t.Fatalf("GetByUserAndMedia: %v", err)
	}
	if got == nil || got.ID != rk.ID {
		t.Fatalf("expected ranking %s, got %+v", rk.ID, got)
	}
	if got.Tier != domain.TierS || got.RankPosition != 1000.0 {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestRankingRepoLockTier(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRankingRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, "ranker2")
	m1 := testutil.SeedMediaItem(t, ctx, tx, "Rashomon")
	m2 := testutil.SeedMediaItem(t, ctx, tx, "Ikiru")
	m3 := testutil.SeedMediaItem(t, ctx, tx, "Ran")

	first := testutil.SeedRanking(t, ctx, tx, u.ID, m1.ID, domain.TierA, 1000.0, 8.5)
	last := testutil.SeedRanking(t, ctx, tx, u.ID, m2.ID, domain.TierA, 3000.0, 8.1)
	testutil.SeedRanking(t, ctx, tx, u.ID, m3.ID, domain.TierB, 2000.0, 7.5)

	rows, err := repo.LockTier(dbc, u.ID, domain.TierA)
	if err != nil {
		t.Fatalf("LockTier: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 locked rows, got %d", len(rows))
	}
	if rows[0].ID != first.ID || rows[1].ID != last.ID {
		t.Fatalf("expected position order %s, %s; got %s, %s", first.ID, last.ID, rows[0].ID, rows[1].ID)
	}

	empty, err := repo.LockTier(dbc, u.ID, domain.TierD)
	if err != nil {
		t.Fatalf("LockTier empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty tier, got %d rows", len(empty))
	}
}

func TestRankingRepoRebalanceTier(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRankingRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, "ranker3")
	m1 := testutil.SeedMediaItem(t, ctx, tx, "High and Low")
	m2 := testutil.SeedMediaItem(t, ctx, tx, "Yojimbo")
	m3 := testutil.SeedMediaItem(t, ctx, tx, "Sanjuro")

	// Crowded positions simulate a gap-exhausted region.
	a := testutil.SeedRanking(t, ctx, tx, u.ID, m1.ID, domain.TierB, 1000.0, 7.8)
	b := testutil.SeedRanking(t, ctx, tx, u.ID, m2.ID, domain.TierB, 1000.0000000004, 7.5)
	c := testutil.SeedRanking(t, ctx, tx, u.ID, m3.ID, domain.TierB, 1000.0000000008, 7.2)

	n, err := repo.RebalanceTier(dbc, u.ID, domain.TierB)
	if err != nil {
		t.Fatalf("RebalanceTier: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 rows rebalanced, got %d", n)
	}

	tier := domain.TierB
	rows, err := repo.ListByUser(dbc, u.ID, &tier)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	wantOrder := []string{a.ID.String(), b.ID.String(), c.ID.String()}
	for i, row := range rows {
		if row.ID.String() != wantOrder[i] {
			t.Fatalf("rebalance changed relative order at %d: got %s want %s", i, row.ID, wantOrder[i])
		}
		wantPos := float64(i+1) * 1000.0
		if row.RankPosition != wantPos {
			t.Fatalf("row %d: expected position %v, got %v", i, wantPos, row.RankPosition)
		}
	}
}

func TestRankingRepoListByUserTierOrder(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRankingRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, "ranker4")
	m1 := testutil.SeedMediaItem(t, ctx, tx, "Throne of Blood")
	m2 := testutil.SeedMediaItem(t, ctx, tx, "Kagemusha")
	m3 := testutil.SeedMediaItem(t, ctx, tx, "Dersu Uzala")

	testutil.SeedRanking(t, ctx, tx, u.ID, m1.ID, domain.TierB, 1000.0, 7.5)
	testutil.SeedRanking(t, ctx, tx, u.ID, m2.ID, domain.TierS, 2000.0, 9.5)
	testutil.SeedRanking(t, ctx, tx, u.ID, m3.ID, domain.TierS, 1000.0, 9.7)

	rows, err := repo.ListByUser(dbc, u.ID, nil)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].MediaItemID != m3.ID || rows[1].MediaItemID != m2.ID || rows[2].MediaItemID != m1.ID {
		t.Fatalf("unexpected order: %v, %v, %v", rows[0].MediaItemID, rows[1].MediaItemID, rows[2].MediaItemID)
	}
	if rows[0].MediaItem == nil || rows[0].MediaItem.Title != "Dersu Uzala" {
		t.Fatalf("expected media preload, got %+v", rows[0].MediaItem)
	}
}

func TestRankingRepoDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRankingRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, "ranker5")
	m := testutil.SeedMediaItem(t, ctx, tx, "Stray Dog")
	rk := testutil.SeedRanking(t, ctx, tx, u.ID, m.ID, domain.TierC, 1000.0, 6.5)

	deleted, err := repo.Delete(dbc, rk.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to report a removed row")
	}

	deleted, err = repo.Delete(dbc, rk.ID)
	if err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if deleted {
		t.Fatal("expected second delete to be a no-op")
	}
}
