package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
	"github.com/marqueehq/marquee-backend/internal/utils"
)

// Cache is a thin JSON cache over Redis. External search results are the
// main tenant; keys carry a short TTL so stale catalog data ages out.
type Cache struct {
	log *logger.Logger
	rdb *goredis.Client
}

// NewCache returns nil when REDIS_ADDR is unset; callers treat a nil cache
// as a pass-through.
func NewCache(logg *logger.Logger) (*Cache, error) {
	addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", logg))
	if addr == "" {
		logg.Warn("REDIS_ADDR not set, caching disabled")
		return nil, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    utils.GetEnv("REDIS_PASSWORD", "", logg),
		DB:          utils.GetEnvAsInt("REDIS_DB", 0, logg),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Cache{
		log: logg.With("client", "RedisCache"),
		rdb: rdb,
	}, nil
}

// GetJSON reports (false, nil) on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, out interface{}) (bool, error) {
	if c == nil {
		return false, nil
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		// A corrupt entry is treated as a miss and evicted.
		c.log.Warn("Evicting undecodable cache entry", "key", key, "error", err)
		_ = c.rdb.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, ttl).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
