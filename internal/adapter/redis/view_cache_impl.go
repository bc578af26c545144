package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/tcas-fee-crawler/internal/repository"
)

const viewKeyPrefix = "tcasfee:view:"

// ViewCacheImpl stores rendered dashboard views in Redis with a TTL.
type ViewCacheImpl struct {
	client *redis.Client
}

var _ repository.ViewCache = (*ViewCacheImpl)(nil)

// NewViewCache creates a new instance of ViewCacheImpl.
func NewViewCache(client *redis.Client) *ViewCacheImpl {
	return &ViewCacheImpl{client: client}
}

func (c *ViewCacheImpl) key(k string) string {
	return fmt.Sprintf("%s%s", viewKeyPrefix, k)
}

func (c *ViewCacheImpl) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set uses SET with expiry so that stale views age out on their own.
func (c *ViewCacheImpl) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(key), payload, ttl).Err()
}
