package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestLockStore_SecondClaimRejectedUntilRelease(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t)
	store := NewLockStore(client)
	ctx := context.Background()

	ok, err := store.AcquireSimulationLock(ctx, 1, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected first claim to succeed")
	}

	ok, err = store.AcquireSimulationLock(ctx, 1, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected second claim for same ride to fail")
	}

	// A different ride id is an independent claim.
	ok, err = store.AcquireSimulationLock(ctx, 2, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected claim for different ride to succeed")
	}

	if err := store.ReleaseSimulationLock(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ok, err = store.AcquireSimulationLock(ctx, 1, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected claim to succeed after release")
	}
}

func TestLockStore_ClaimExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	client, mr := newTestClient(t)
	store := NewLockStore(client)
	ctx := context.Background()

	if ok, err := store.AcquireSimulationLock(ctx, 1, time.Minute); err != nil || !ok {
		t.Fatalf("expected claim to succeed, got ok=%v err=%v", ok, err)
	}

	// A crashed holder never releases; the TTL frees the ride.
	mr.FastForward(2 * time.Minute)

	ok, err := store.AcquireSimulationLock(ctx, 1, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected claim to succeed after TTL expiry")
	}
}

func TestDedupStore_RepeatedSIDRejected(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t)
	store := NewDedupStore(client)
	ctx := context.Background()

	ok, err := store.ClaimMessageSID(ctx, "SM001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected first delivery to claim")
	}

	ok, err = store.ClaimMessageSID(ctx, "SM001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected repeated delivery to be rejected")
	}

	ok, err = store.ClaimMessageSID(ctx, "SM002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected distinct delivery to claim")
	}
}
