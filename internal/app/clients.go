package app

import (
	redisclient "github.com/marqueehq/marquee-backend/internal/clients/redis"
	"github.com/marqueehq/marquee-backend/internal/clients/tmdb"
	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
)

type Clients struct {
	TMDB  *tmdb.Client
	Cache *redisclient.Cache
}

// wireClients builds the optional outbound clients. Both are nil-safe when
// their env vars are absent, so a missing key degrades the feature rather
// than failing startup.
func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")
	cache, err := redisclient.NewCache(log)
	if err != nil {
		return Clients{}, err
	}
	return Clients{
		TMDB:  tmdb.New(log),
		Cache: cache,
	}, nil
}
