package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewCacheKeysAreNamespaced(t *testing.T) {
	c := NewViewCache(nil)
	assert.Equal(t, "tcasfee:view:ab12:overview:cd34", c.key("ab12:overview:cd34"))
}

func TestViewCacheReportsUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	c := NewViewCache(client)

	_, ok, err := c.Get(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, c.Set(context.Background(), "k", []byte("{}"), time.Minute))
}
