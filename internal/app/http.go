package app

import (
	"github.com/gin-gonic/gin"

	"github.com/marqueehq/marquee-backend/internal/http/handlers"
	"github.com/marqueehq/marquee-backend/internal/http/middleware"
	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
	"github.com/marqueehq/marquee-backend/internal/server"
)

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

type Handlers struct {
	Auth      *handlers.AuthHandler
	Ranking   *handlers.RankingHandler
	Media     *handlers.MediaHandler
	Social    *handlers.SocialHandler
	Review    *handlers.ReviewHandler
	Watchlist *handlers.WatchlistHandler
	Discovery *handlers.DiscoveryHandler
	Taste     *handlers.TasteHandler
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: middleware.NewAuthMiddleware(log, services.Auth),
	}
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:      handlers.NewAuthHandler(services.Auth),
		Ranking:   handlers.NewRankingHandler(services.Ranking),
		Media:     handlers.NewMediaHandler(services.Media),
		Social:    handlers.NewSocialHandler(services.Social),
		Review:    handlers.NewReviewHandler(services.Review),
		Watchlist: handlers.NewWatchlistHandler(services.Watchlist),
		Discovery: handlers.NewDiscoveryHandler(services.Discovery),
		Taste:     handlers.NewTasteHandler(services.Taste),
	}
}

func wireRouter(log *logger.Logger, cfg Config, h Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		Log:            log,
		AllowedOrigins: cfg.AllowedOrigins,
		AuthMiddleware: mw.Auth,

		AuthHandler:      h.Auth,
		RankingHandler:   h.Ranking,
		MediaHandler:     h.Media,
		SocialHandler:    h.Social,
		ReviewHandler:    h.Review,
		WatchlistHandler: h.Watchlist,
		DiscoveryHandler: h.Discovery,
		TasteHandler:     h.Taste,
	})
}
