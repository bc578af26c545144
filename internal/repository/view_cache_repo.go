package repository

import (
	"context"
	"time"
)

// ViewCache stores rendered view payloads.
type ViewCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context, key string) (payload []byte, ok bool, err error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}
