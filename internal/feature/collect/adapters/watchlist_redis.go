package adapters

import (
	"context"
	"errors"

	"stock_screener/internal/feature/collect/usecase"

	"github.com/redis/go-redis/v9"
)

// DefaultWatchlistKey is the sorted-set key holding the watchlist mirror.
const DefaultWatchlistKey = "stock:collect:list"

// watchlistRedis implements usecase.WatchlistCache on a Redis sorted set.
// The key is injected so tests can isolate themselves from each other.
type watchlistRedis struct {
	client *redis.Client
	key    string
}

var _ usecase.WatchlistCache = (*watchlistRedis)(nil)

// NewWatchlistRedis creates the Redis-backed watchlist cache. An empty key
// falls back to DefaultWatchlistKey.
func NewWatchlistRedis(client *redis.Client, key string) *watchlistRedis {
	if key == "" {
		key = DefaultWatchlistKey
	}
	return &watchlistRedis{client: client, key: key}
}

// Add upserts the code with the given score.
func (c *watchlistRedis) Add(ctx context.Context, tsCode string, score float64) error {
	return c.client.ZAdd(ctx, c.key, redis.Z{Score: score, Member: tsCode}).Err()
}

// Range returns all members in score-ascending order.
func (c *watchlistRedis) Range(ctx context.Context) ([]string, error) {
	return c.client.ZRange(ctx, c.key, 0, -1).Result()
}

// Score returns the member's score and whether it is present.
func (c *watchlistRedis) Score(ctx context.Context, tsCode string) (float64, bool, error) {
	score, err := c.client.ZScore(ctx, c.key, tsCode).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

// Remove deletes the member and returns how many were removed.
func (c *watchlistRedis) Remove(ctx context.Context, tsCode string) (int64, error) {
	return c.client.ZRem(ctx, c.key, tsCode).Result()
}

// Clear drops the whole sorted set.
func (c *watchlistRedis) Clear(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
