package services

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	mediarepo "github.com/marqueehq/marquee-backend/internal/data/repos/media"
	rankingrepo "github.com/marqueehq/marquee-backend/internal/data/repos/ranking"
	userrepo "github.com/marqueehq/marquee-backend/internal/data/repos/user"
	"github.com/marqueehq/marquee-backend/internal/domain"
	"github.com/marqueehq/marquee-backend/internal/pkg/dbctx"
	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
)

// tierDistanceScore maps how far apart two users placed the same title onto
// a 0-100 agreement value. Exact tier match is full agreement; three or more
// tiers apart is none.
var tierDistanceScore = map[int]int{
	0: 100,
	1: 60,
	2: 20,
}

type SharedTitle struct {
	MediaItem *domain.MediaItem `json:"media_item"`
	MyTier    domain.Tier       `json:"my_tier"`
	TheirTier domain.Tier       `json:"their_tier"`
	Agreement int               `json:"agreement"`
}

type TasteReport struct {
	Score          int            `json:"score"`
	SharedCount    int            `json:"shared_count"`
	ExactMatches   int            `json:"exact_matches"`
	CloseMatches   int            `json:"close_matches"`
	Disagreements  int            `json:"disagreements"`
	TopShared      []*SharedTitle `json:"top_shared"`
	TopDivergences []*SharedTitle `json:"top_divergences"`
}

type TasteService interface {
	Compare(ctx context.Context, viewerID, otherID uuid.UUID) (*TasteReport, error)
}

type tasteService struct {
	db          *gorm.DB
	log         *logger.Logger
	rankingRepo rankingrepo.RankingRepo
	mediaRepo   mediarepo.MediaRepo
	userRepo    userrepo.UserRepo
}

func NewTasteService(db *gorm.DB, log *logger.Logger, rankingRepo rankingrepo.RankingRepo, mediaRepo mediarepo.MediaRepo, userRepo userrepo.UserRepo) TasteService {
	return &tasteService{
		db:          db,
		log:         log.With("service", "TasteService"),
		rankingRepo: rankingRepo,
		mediaRepo:   mediaRepo,
		userRepo:    userRepo,
	}
}

// Compare scores how similarly two users rank the titles they share. The
// overall score is the mean per-title agreement; no shared titles yields a
// zero score with zero counters.
func (s *tasteService) Compare(ctx context.Context, viewerID, otherID uuid.UUID) (*TasteReport, error) {
	dbc := dbctx.Context{Ctx: ctx}

	other, err := s.userRepo.GetByID(dbc, otherID)
	if err != nil {
		return nil, err
	}
	if other == nil || !other.IsActive {
		return nil, ErrUserNotFound
	}

	tiers, err := s.rankingRepo.TiersByMediaForUsers(dbc, []uuid.UUID{viewerID, otherID})
	if err != nil {
		return nil, err
	}
	mine, theirs := tiers[viewerID], tiers[otherID]

	report := &TasteReport{
		TopShared:      []*SharedTitle{},
		TopDivergences: []*SharedTitle{},
	}

	var shared []*SharedTitle
	var total int
	var sharedMediaIDs []uuid.UUID
	for mediaID, myTier := range mine {
		theirTier, ok := theirs[mediaID]
		if !ok {
			continue
		}
		distance := myTier.Rank() - theirTier.Rank()
		if distance < 0 {
			distance = -distance
		}
		agreement := tierDistanceScore[distance]

		shared = append(shared, &SharedTitle{
			MyTier:    myTier,
			TheirTier: theirTier,
			Agreement: agreement,
		})
		sharedMediaIDs = append(sharedMediaIDs, mediaID)
		total += agreement

		switch {
		case distance == 0:
			report.ExactMatches++
		case distance == 1:
			report.CloseMatches++
		default:
			report.Disagreements++
		}
	}

	report.SharedCount = len(shared)
	if report.SharedCount == 0 {
		return report, nil
	}
	report.Score = total / report.SharedCount

	items, err := s.mediaRepo.GetByIDs(dbc, sharedMediaIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*domain.MediaItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	for i, title := range shared {
		title.MediaItem = byID[sharedMediaIDs[i]]
	}

	sort.Slice(shared, func(i, j int) bool { return shared[i].Agreement > shared[j].Agreement })
	for _, title := range shared {
		if title.Agreement >= 60 && len(report.TopShared) < 5 {
			report.TopShared = append(report.TopShared, title)
		}
	}
	for i := len(shared) - 1; i >= 0; i-- {
		if shared[i].Agreement <= 20 && len(report.TopDivergences) < 5 {
			report.TopDivergences = append(report.TopDivergences, shared[i])
		}
	}
	return report, nil
}
