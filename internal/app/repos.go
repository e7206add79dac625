package app

import (
	"gorm.io/gorm"

	mediarepo "github.com/marqueehq/marquee-backend/internal/data/repos/media"
	rankingrepo "github.com/marqueehq/marquee-backend/internal/data/repos/ranking"
	reviewrepo "github.com/marqueehq/marquee-backend/internal/data/repos/review"
	userrepo "github.com/marqueehq/marquee-backend/internal/data/repos/user"
	watchlistrepo "github.com/marqueehq/marquee-backend/internal/data/repos/watchlist"
	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
)

type Repos struct {
	User      userrepo.UserRepo
	Follow    userrepo.FollowRepo
	Media     mediarepo.MediaRepo
	Ranking   rankingrepo.RankingRepo
	Review    reviewrepo.ReviewRepo
	Watchlist watchlistrepo.WatchlistRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      userrepo.NewUserRepo(db, log),
		Follow:    userrepo.NewFollowRepo(db, log),
		Media:     mediarepo.NewMediaRepo(db, log),
		Ranking:   rankingrepo.NewRankingRepo(db, log),
		Review:    reviewrepo.NewReviewRepo(db, log),
		Watchlist: watchlistrepo.NewWatchlistRepo(db, log),
	}
}
