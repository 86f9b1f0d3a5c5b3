package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireSimulationLock attempts to claim the lifecycle simulation for the
// given ride. Returns true if the claim was acquired, false if another
// simulation already holds it.
func (s *LockStore) AcquireSimulationLock(ctx context.Context, rideID int64, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:simulation:%d", rideID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseSimulationLock releases the simulation claim for the given ride.
func (s *LockStore) ReleaseSimulationLock(ctx context.Context, rideID int64) error {
	key := fmt.Sprintf("lock:simulation:%d", rideID)

	return s.client.Del(ctx, key).Err()
}
