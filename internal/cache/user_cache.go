package cache

import (
	"context"
	"encoding/json"
	"time"

	dom "github.com/Crapteep/automation-hub/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyUser = "user:id:"

// UserCache caches user records by ID in Redis. The auth middleware reads
// through it on every protected request, so a hot account costs one Postgres
// query per TTL instead of one per request. Hashed passwords stay inside the
// backend boundary: the cached value is only ever unmarshalled back into the
// domain entity.
type UserCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewUserCache returns a new UserCache.
func NewUserCache(rdb *redis.Client, ttl time.Duration) *UserCache {
	return &UserCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached user or nil on miss.
func (c *UserCache) Get(ctx context.Context, id uuid.UUID) (*dom.User, error) {
	b, err := c.rdb.Get(ctx, keyUser+id.String()).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var u dom.User
	if err := json.Unmarshal(b, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Set stores the user in cache.
func (c *UserCache) Set(ctx context.Context, u dom.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyUser+u.ID.String(), b, c.ttl).Err()
}

// Invalidate removes the cached record (cache invalidation on write).
func (c *UserCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	return c.rdb.Del(ctx, keyUser+id.String()).Err()
}
