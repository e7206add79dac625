package server

import (
	"github.com/gin-gonic/gin"

	"github.com/marqueehq/marquee-backend/internal/http/handlers"
	"github.com/marqueehq/marquee-backend/internal/http/middleware"
	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AllowedOrigins []string

	AuthMiddleware *middleware.AuthMiddleware

	AuthHandler      *handlers.AuthHandler
	RankingHandler   *handlers.RankingHandler
	MediaHandler     *handlers.MediaHandler
	SocialHandler    *handlers.SocialHandler
	ReviewHandler    *handlers.ReviewHandler
	WatchlistHandler *handlers.WatchlistHandler
	DiscoveryHandler *handlers.DiscoveryHandler
	TasteHandler     *handlers.TasteHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.Log != nil {
		router.Use(middleware.RequestLogger(cfg.Log))
	}

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/auth/signup", cfg.AuthHandler.Signup)
		api.POST("/auth/login", cfg.AuthHandler.Login)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Auth
	protected.GET("/auth/me", cfg.AuthHandler.Me)

	// Rankings
	protected.GET("/rankings", cfg.RankingHandler.List)
	protected.POST("/rankings", cfg.RankingHandler.Create)
	protected.GET("/rankings/:id", cfg.RankingHandler.Get)
	protected.PATCH("/rankings/:id", cfg.RankingHandler.UpdateNotes)
	protected.DELETE("/rankings/:id", cfg.RankingHandler.Delete)
	protected.POST("/rankings/:id/move", cfg.RankingHandler.Move)

	// Media
	protected.GET("/media/search", cfg.MediaHandler.Search)
	protected.POST("/media", cfg.MediaHandler.Create)
	protected.GET("/media/:id", cfg.MediaHandler.Get)

	// Social
	protected.GET("/social/me", cfg.SocialHandler.MyProfile)
	protected.PATCH("/social/me", cfg.SocialHandler.UpdateProfile)
	protected.POST("/social/follow/:userID", cfg.SocialHandler.Follow)
	protected.DELETE("/social/follow/:userID", cfg.SocialHandler.Unfollow)
	protected.GET("/social/following", cfg.SocialHandler.Following)
	protected.GET("/social/followers", cfg.SocialHandler.Followers)
	protected.GET("/social/feed", cfg.SocialHandler.Feed)
	protected.GET("/social/leaderboard", cfg.SocialHandler.Leaderboard)
	protected.GET("/social/search", cfg.SocialHandler.SearchUsers)
	protected.GET("/social/profile/:userID", cfg.SocialHandler.Profile)

	// Reviews
	protected.POST("/reviews", cfg.ReviewHandler.Write)
	protected.GET("/reviews/movie/:mediaID", cfg.ReviewHandler.ListByMedia)
	protected.GET("/reviews/user/:userID", cfg.ReviewHandler.ListByUser)
	protected.DELETE("/reviews/:id", cfg.ReviewHandler.Delete)
	protected.POST("/reviews/:id/like", cfg.ReviewHandler.ToggleLike)

	// Watchlists
	protected.POST("/watchlists", cfg.WatchlistHandler.Create)
	protected.GET("/watchlists", cfg.WatchlistHandler.ListMine)
	protected.GET("/watchlists/:id", cfg.WatchlistHandler.Detail)
	protected.POST("/watchlists/:id/members", cfg.WatchlistHandler.AddMember)
	protected.POST("/watchlists/:id/items", cfg.WatchlistHandler.AddItem)
	protected.POST("/watchlists/:id/items/:itemID/vote", cfg.WatchlistHandler.ToggleVote)
	protected.DELETE("/watchlists/:id/items/:itemID", cfg.WatchlistHandler.RemoveItem)

	// Discovery
	protected.GET("/discovery/recommendations", cfg.DiscoveryHandler.Recommendations)
	protected.GET("/discovery/trending", cfg.DiscoveryHandler.Trending)
	protected.GET("/discovery/genres", cfg.DiscoveryHandler.GenreBreakdown)

	// Taste
	protected.GET("/taste/:userID", cfg.TasteHandler.Compare)

	return router
}
