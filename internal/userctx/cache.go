package userctx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "userctx:"

// Cache snapshots resolved contexts to redis so a restarted API node can serve
// reads without an immediate re-resolve. It never extends a context's
// lifecycle: every session event invalidates the snapshot, preserving the
// rebuild-from-scratch rule.
//
// A nil client disables the cache; all methods become no-ops.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context, userID string) (UserContext, bool, error) {
	if c == nil || c.rdb == nil || userID == "" {
		return UserContext{}, false, nil
	}
	raw, err := c.rdb.Get(ctx, cacheKeyPrefix+userID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return UserContext{}, false, nil
		}
		return UserContext{}, false, err
	}
	var uc UserContext
	if err := json.Unmarshal(raw, &uc); err != nil {
		// A corrupt snapshot is treated as a miss, not an access grant.
		return UserContext{}, false, nil
	}
	return uc, true, nil
}

func (c *Cache) Put(ctx context.Context, userID string, uc UserContext) error {
	if c == nil || c.rdb == nil || userID == "" {
		return nil
	}
	raw, err := json.Marshal(uc)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKeyPrefix+userID, raw, c.ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context, userID string) error {
	if c == nil || c.rdb == nil || userID == "" {
		return nil
	}
	return c.rdb.Del(ctx, cacheKeyPrefix+userID).Err()
}
