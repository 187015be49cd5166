package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Earthondev/guessing-game-earth-sub000/internal/game"
)

const poolCacheTTL = 30 * time.Second

// PoolCache is a cache-aside layer over the per-category image pool.
// Redis being absent or down never fails a request; every miss or error
// falls through to the store. A nil *PoolCache is a valid always-miss
// cache.
type PoolCache struct {
	rdb    *redis.Client
	logger *slog.Logger
}

func NewPoolCache(rdb *redis.Client, logger *slog.Logger) *PoolCache {
	if rdb == nil {
		return nil
	}
	return &PoolCache{rdb: rdb, logger: logger}
}

func poolKey(category string) string {
	return "pool:" + category
}

func (c *PoolCache) Get(ctx context.Context, category string) ([]game.ImageItem, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, poolKey(category)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("pool cache get failed", "category", category, "error", err)
		}
		return nil, false
	}
	var pool []game.ImageItem
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, false
	}
	return pool, true
}

func (c *PoolCache) Set(ctx context.Context, category string, pool []game.ImageItem) {
	if c == nil {
		return
	}
	data, err := json.Marshal(pool)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, poolKey(category), data, poolCacheTTL).Err(); err != nil {
		c.logger.Debug("pool cache set failed", "category", category, "error", err)
	}
}

// Invalidate drops a category's cached pool after authoring changes.
func (c *PoolCache) Invalidate(ctx context.Context, category string) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, poolKey(category)).Err(); err != nil {
		c.logger.Debug("pool cache invalidate failed", "category", category, "error", err)
	}
}
