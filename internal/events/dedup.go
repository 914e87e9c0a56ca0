package events

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dedupKeyPrefix = "stock-adjustment:"
	dedupKeyTTL    = 24 * time.Hour
)

// RedisDeduplicator remembers processed event ids for a day.
type RedisDeduplicator struct {
	client *redis.Client
}

func NewRedisDeduplicator(client *redis.Client) *RedisDeduplicator {
	return &RedisDeduplicator{client: client}
}

// FirstSeen marks eventID as seen and reports whether it was new.
func (d *RedisDeduplicator) FirstSeen(ctx context.Context, eventID string) (bool, error) {
	return d.client.SetNX(ctx, dedupKeyPrefix+eventID, 1, dedupKeyTTL).Result()
}

// Forget releases eventID so a redelivery is processed again.
func (d *RedisDeduplicator) Forget(ctx context.Context, eventID string) error {
	return d.client.Del(ctx, dedupKeyPrefix+eventID).Err()
}
