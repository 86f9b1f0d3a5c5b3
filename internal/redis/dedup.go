package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dedupKeyPrefix = "webhook:sid:"
	dedupTTL       = 24 * time.Hour
)

// DedupStore tracks webhook delivery ids in Redis so replayed deliveries
// can be dropped.
type DedupStore struct {
	client *redis.Client
}

// NewDedupStore creates a new DedupStore.
func NewDedupStore(client *redis.Client) *DedupStore {
	return &DedupStore{client: client}
}

// ClaimMessageSID attempts to claim a delivery id. Returns true on the
// first delivery and false when the id has been seen before.
func (s *DedupStore) ClaimMessageSID(ctx context.Context, sid string) (bool, error) {
	return s.client.SetNX(ctx, dedupKeyPrefix+sid, "1", dedupTTL).Result()
}
