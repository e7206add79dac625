package services

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	rankingrepo "github.com/marqueehq/marquee-backend/internal/data/repos/ranking"
	userrepo "github.com/marqueehq/marquee-backend/internal/data/repos/user"
	"github.com/marqueehq/marquee-backend/internal/domain"
	"github.com/marqueehq/marquee-backend/internal/pkg/dbctx"
	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
)

const trendingWindow = 14 * 24 * time.Hour

// Recommendation is a title the viewer hasn't ranked, backed by the friends
// who placed it in a top tier.
type Recommendation struct {
	MediaItem   *domain.MediaItem `json:"media_item"`
	FriendCount int               `json:"friend_count"`
	BestTier    domain.Tier       `json:"best_tier"`
	Friends     []string          `json:"friends"`
}

type TrendingEntry struct {
	MediaItem   *domain.MediaItem `json:"media_item"`
	RecentCount int               `json:"recent_count"`
}

type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

type DiscoveryService interface {
	Recommendations(ctx context.Context, viewerID uuid.UUID, limit int) ([]*Recommendation, error)
	Trending(ctx context.Context, viewerID uuid.UUID, limit int) ([]*TrendingEntry, error)
	GenreBreakdown(ctx context.Context, userID uuid.UUID) ([]GenreCount, error)
}

type discoveryService struct {
	db          *gorm.DB
	log         *logger.Logger
	rankingRepo rankingrepo.RankingRepo
	followRepo  userrepo.FollowRepo
}

func NewDiscoveryService(db *gorm.DB, log *logger.Logger, rankingRepo rankingrepo.RankingRepo, followRepo userrepo.FollowRepo) DiscoveryService {
	return &discoveryService{
		db:          db,
		log:         log.With("service", "DiscoveryService"),
		rankingRepo: rankingRepo,
		followRepo:  followRepo,
	}
}

// Recommendations collects S and A tier picks from the viewer's friends,
// drops anything the viewer already ranked, and orders by how many friends
// endorse the title.
func (s *discoveryService) Recommendations(ctx context.Context, viewerID uuid.UUID, limit int) ([]*Recommendation, error) {
	if limit <= 0 {
		limit = 20
	}
	dbc := dbctx.Context{Ctx: ctx}

	friends, err := s.followRepo.ListFollowingIDs(dbc, viewerID)
	if err != nil {
		return nil, err
	}
	if len(friends) == 0 {
		return []*Recommendation{}, nil
	}

	friendRankings, err := s.rankingRepo.ListRecentByUsers(dbc, friends, 0)
	if err != nil {
		return nil, err
	}
	mine, err := s.rankingRepo.TiersByMediaForUsers(dbc, []uuid.UUID{viewerID})
	if err != nil {
		return nil, err
	}
	alreadyRanked := mine[viewerID]

	byMedia := make(map[uuid.UUID]*Recommendation)
	for _, rk := range friendRankings {
		if rk.Tier != domain.TierS && rk.Tier != domain.TierA {
			continue
		}
		if _, ranked := alreadyRanked[rk.MediaItemID]; ranked {
			continue
		}
		rec, ok := byMedia[rk.MediaItemID]
		if !ok {
			rec = &Recommendation{MediaItem: rk.MediaItem, BestTier: rk.Tier}
			byMedia[rk.MediaItemID] = rec
		}
		rec.FriendCount++
		if rk.Tier.Rank() < rec.BestTier.Rank() {
			rec.BestTier = rk.Tier
		}
		if rk.User != nil {
			rec.Friends = append(rec.Friends, rk.User.Username)
		}
	}

	out := make([]*Recommendation, 0, len(byMedia))
	for _, rec := range byMedia {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FriendCount != out[j].FriendCount {
			return out[i].FriendCount > out[j].FriendCount
		}
		return out[i].BestTier.Rank() < out[j].BestTier.Rank()
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Trending counts placements among friends inside the trailing window.
func (s *discoveryService) Trending(ctx context.Context, viewerID uuid.UUID, limit int) ([]*TrendingEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	dbc := dbctx.Context{Ctx: ctx}

	friends, err := s.followRepo.ListFollowingIDs(dbc, viewerID)
	if err != nil {
		return nil, err
	}
	if len(friends) == 0 {
		return []*TrendingEntry{}, nil
	}

	rankings, err := s.rankingRepo.ListRecentByUsers(dbc, friends, 0)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-trendingWindow)
	byMedia := make(map[uuid.UUID]*TrendingEntry)
	for _, rk := range rankings {
		if rk.CreatedAt.Before(cutoff) {
			continue
		}
		entry, ok := byMedia[rk.MediaItemID]
		if !ok {
			entry = &TrendingEntry{MediaItem: rk.MediaItem}
			byMedia[rk.MediaItemID] = entry
		}
		entry.RecentCount++
	}

	out := make([]*TrendingEntry, 0, len(byMedia))
	for _, entry := range byMedia {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecentCount > out[j].RecentCount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GenreBreakdown tallies genres across a user's ranked titles.
func (s *discoveryService) GenreBreakdown(ctx context.Context, userID uuid.UUID) ([]GenreCount, error) {
	rankings, err := s.rankingRepo.ListByUser(dbctx.Context{Ctx: ctx}, userID, nil)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, rk := range rankings {
		if rk.MediaItem == nil || len(rk.MediaItem.Attributes) == 0 {
			continue
		}
		var attrs domain.MediaAttributes
		if err := json.Unmarshal(rk.MediaItem.Attributes, &attrs); err != nil {
			continue
		}
		genres := attrs.Genres
		if len(genres) == 0 && attrs.Genre != nil {
			genres = []string{*attrs.Genre}
		}
		for _, g := range genres {
			counts[g]++
		}
	}

	out := make([]GenreCount, 0, len(counts))
	for genre, count := range counts {
		out = append(out, GenreCount{Genre: genre, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Genre < out[j].Genre
	})
	return out, nil
}
