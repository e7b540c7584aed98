package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sportmatch/backend/internal/config"
)

// CountTTL bounds how long a cached liked-you count survives without access.
const CountTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

// KeyForLikedYouCount generates the Redis key for a user's liked-you count.
func (c *RedisCache) KeyForLikedYouCount(userID uint64) string {
	return fmt.Sprintf("liked_you:count:%d", userID)
}

// BumpLikedYouCount increments the cached count and refreshes its TTL.
func (c *RedisCache) BumpLikedYouCount(ctx context.Context, userID uint64) (int64, error) {
	key := c.KeyForLikedYouCount(userID)
	n, err := c.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	_ = c.Client.Expire(ctx, key, CountTTL).Err()
	return n, nil
}

// SetLikedYouCount stores a fresh count with the standard TTL.
func (c *RedisCache) SetLikedYouCount(ctx context.Context, userID uint64, count int64) error {
	return c.Client.Set(ctx, c.KeyForLikedYouCount(userID), count, CountTTL).Err()
}

// GetLikedYouCount reads a cached count. A cache miss returns (0, false, nil).
// TTL is refreshed on access.
func (c *RedisCache) GetLikedYouCount(ctx context.Context, userID uint64) (int64, bool, error) {
	key := c.KeyForLikedYouCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, CountTTL).Err()
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}
