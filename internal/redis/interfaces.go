package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireSimulationLock(ctx context.Context, rideID int64, ttl time.Duration) (bool, error)
	ReleaseSimulationLock(ctx context.Context, rideID int64) error
}

// DedupStoreInterface defines the interface for webhook delivery
// deduplication.
type DedupStoreInterface interface {
	ClaimMessageSID(ctx context.Context, sid string) (bool, error)
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface  = (*LockStore)(nil)
	_ DedupStoreInterface = (*DedupStore)(nil)
)
