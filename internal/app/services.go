package app

import (
	"gorm.io/gorm"

	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
	"github.com/marqueehq/marquee-backend/internal/services"
)

type Services struct {
	Auth      services.AuthService
	Ranking   services.RankingService
	Media     services.MediaService
	Social    services.SocialService
	Review    services.ReviewService
	Watchlist services.WatchlistService
	Discovery services.DiscoveryService
	Taste     services.TasteService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")
	return Services{
		Auth:      services.NewAuthService(db, log, repos.User, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Ranking:   services.NewRankingService(db, log, repos.Ranking, repos.Media),
		Media:     services.NewMediaService(db, log, repos.Media, clients.TMDB, clients.Cache),
		Social:    services.NewSocialService(db, log, repos.User, repos.Follow, repos.Ranking),
		Review:    services.NewReviewService(db, log, repos.Review, repos.Ranking, repos.Follow),
		Watchlist: services.NewWatchlistService(db, log, repos.Watchlist, repos.Media, repos.User),
		Discovery: services.NewDiscoveryService(db, log, repos.Ranking, repos.Follow),
		Taste:     services.NewTasteService(db, log, repos.Ranking, repos.Media, repos.User),
	}
}
