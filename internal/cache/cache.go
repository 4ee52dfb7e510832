package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/yashwanthpalsu/YAR/internal/reminder"
)

const (
	listPrefix = "reminders:user"
	listTTL    = 10 * time.Minute
)

// Cache holds per-user reminder lists in Redis. Misses and Redis errors
// both fall through to the store; the cache is never load-bearing.
type Cache struct {
	rdb *redis.Client
	log zerolog.Logger
}

func New(rdb *redis.Client, log zerolog.Logger) *Cache {
	return &Cache{rdb: rdb, log: log}
}

var _ reminder.ListCache = (*Cache)(nil)

func key(userID uint64) string {
	return fmt.Sprintf("%s:%d", listPrefix, userID)
}

func (c *Cache) GetList(ctx context.Context, userID uint64) ([]reminder.Reminder, bool) {
	val, err := c.rdb.Get(ctx, key(userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Debug().Err(err).Uint64("user_id", userID).Msg("cache read failed")
		}
		return nil, false
	}

	var rs []reminder.Reminder
	if err := json.Unmarshal([]byte(val), &rs); err != nil {
		c.log.Debug().Err(err).Uint64("user_id", userID).Msg("cache entry corrupt, dropping")
		c.Invalidate(ctx, userID)
		return nil, false
	}
	return rs, true
}

func (c *Cache) SetList(ctx context.Context, userID uint64, rs []reminder.Reminder) {
	b, err := json.Marshal(rs)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key(userID), b, listTTL).Err(); err != nil {
		c.log.Debug().Err(err).Uint64("user_id", userID).Msg("cache write failed")
	}
}

func (c *Cache) Invalidate(ctx context.Context, userID uint64) {
	if err := c.rdb.Del(ctx, key(userID)).Err(); err != nil {
		c.log.Debug().Err(err).Uint64("user_id", userID).Msg("cache invalidation failed")
	}
}
