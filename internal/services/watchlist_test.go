package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	mediarepo "github.com/marqueehq/marquee-backend/internal/data/repos/media"
	"github.com/marqueehq/marquee-backend/internal/data/repos/testutil"
	userrepo "github.com/marqueehq/marquee-backend/internal/data/repos/user"
	watchlistrepo "github.com/marqueehq/marquee-backend/internal/data/repos/watchlist"
)

func newWatchlistService(tx *gorm.DB, t *testing.T) WatchlistService {
	log := testutil.Logger(t)
	return NewWatchlistService(tx, log,
		watchlistrepo.NewWatchlistRepo(tx, log),
		mediarepo.NewMediaRepo(tx, log),
		userrepo.NewUserRepo(tx, log))
}

func TestWatchlistServiceDetailRequiresMembership(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newWatchlistService(tx, t)

	creator := testutil.SeedUser(t, ctx, tx, "wlcreator1")
	outsider := testutil.SeedUser(t, ctx, tx, "wloutsider1")
	wl := testutil.SeedWatchlist(t, ctx, tx, creator.ID, "Friday Picks")

	if _, err := svc.Detail(ctx, outsider.ID, wl.ID); !errors.Is(err, ErrNotWatchlistMember) {
		t.Fatalf("expected ErrNotWatchlistMember, got %v", err)
	}

	detail, err := svc.Detail(ctx, creator.ID, wl.ID)
	if err != nil {
		t.Fatalf("Detail as creator: %v", err)
	}
	if len(detail.Members) != 1 || detail.Members[0].ID != creator.ID {
		t.Fatalf("expected creator as sole member, got %d members", len(detail.Members))
	}
}

func TestWatchlistServiceAddItemAndDuplicates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newWatchlistService(tx, t)

	creator := testutil.SeedUser(t, ctx, tx, "wlcreator2")
	friend := testutil.SeedUser(t, ctx, tx, "wlfriend2")
	wl := testutil.SeedWatchlist(t, ctx, tx, creator.ID, "Heist Night")
	m := testutil.SeedMediaItem(t, ctx, tx, "Rififi")

	if err := svc.AddMember(ctx, creator.ID, wl.ID, friend.ID); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	item, err := svc.AddItem(ctx, friend.ID, wl.ID, m.ID)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.AddedBy != friend.ID {
		t.Fatalf("expected AddedBy %v, got %v", friend.ID, item.AddedBy)
	}

	if _, err := svc.AddItem(ctx, creator.ID, wl.ID, m.ID); !errors.Is(err, ErrDuplicateListItem) {
		t.Fatalf("expected ErrDuplicateListItem, got %v", err)
	}
}

func TestWatchlistServiceToggleVote(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newWatchlistService(tx, t)

	creator := testutil.SeedUser(t, ctx, tx, "wlcreator3")
	wl := testutil.SeedWatchlist(t, ctx, tx, creator.ID, "Voting Night")
	m := testutil.SeedMediaItem(t, ctx, tx, "Le Cercle Rouge")

	item, err := svc.AddItem(ctx, creator.ID, wl.ID, m.ID)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	voted, err := svc.ToggleVote(ctx, creator.ID, item.ID)
	if err != nil || !voted {
		t.Fatalf("first toggle: voted=%v err=%v", voted, err)
	}

	detail, err := svc.Detail(ctx, creator.ID, wl.ID)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if len(detail.Items) != 1 || !detail.Items[0].ViewerHasVoted {
		t.Fatalf("expected viewer vote reflected in detail")
	}

	voted, err = svc.ToggleVote(ctx, creator.ID, item.ID)
	if err != nil || voted {
		t.Fatalf("second toggle: voted=%v err=%v", voted, err)
	}
}

func TestWatchlistServiceRemoveItemPermissions(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc := newWatchlistService(tx, t)

	creator := testutil.SeedUser(t, ctx, tx, "wlcreator4")
	adder := testutil.SeedUser(t, ctx, tx, "wladder4")
	other := testutil.SeedUser(t, ctx, tx, "wlother4")
	wl := testutil.SeedWatchlist(t, ctx, tx, creator.ID, "Noir Night")
	m := testutil.SeedMediaItem(t, ctx, tx, "Out of the Past")

	if err := svc.AddMember(ctx, creator.ID, wl.ID, adder.ID); err != nil {
		t.Fatalf("AddMember adder: %v", err)
	}
	if err := svc.AddMember(ctx, creator.ID, wl.ID, other.ID); err != nil {
		t.Fatalf("AddMember other: %v", err)
	}

	item, err := svc.AddItem(ctx, adder.ID, wl.ID, m.ID)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if _, err := svc.RemoveItem(ctx, other.ID, item.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-adder member, got %v", err)
	}

	removed, err := svc.RemoveItem(ctx, adder.ID, item.ID)
	if err != nil || !removed {
		t.Fatalf("RemoveItem by adder: removed=%v err=%v", removed, err)
	}

	// A second removal of the same item is a no-op.
	removed, err = svc.RemoveItem(ctx, adder.ID, item.ID)
	if err != nil || removed {
		t.Fatalf("repeat removal: removed=%v err=%v", removed, err)
	}
}
