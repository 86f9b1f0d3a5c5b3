package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/georgeey123/ride-hailing-bot/internal/domain"
	"github.com/georgeey123/ride-hailing-bot/internal/repository"
	"github.com/georgeey123/ride-hailing-bot/internal/session"
	"github.com/georgeey123/ride-hailing-bot/internal/transport"
)

// Minimal stubs; the behavioral suite in internal/tests uses richer mocks,
// this white-box test only needs Dispatch to run to completion.

type stubUserRepo struct{}

func (stubUserRepo) Create(ctx context.Context, user *domain.User) error { return nil }
func (stubUserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return nil, repository.ErrNotFound
}

type stubRideRepo struct{}

func (stubRideRepo) Create(ctx context.Context, ride *domain.Ride) error { return nil }
func (stubRideRepo) GetByID(ctx context.Context, id int64) (*domain.Ride, error) {
	return nil, repository.ErrNotFound
}
func (stubRideRepo) UpdateStatus(ctx context.Context, id int64, status domain.RideStatus) error {
	return nil
}
func (stubRideRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Ride, error) {
	return nil, nil
}

type stubFeedbackRepo struct{}

func (stubFeedbackRepo) Create(ctx context.Context, feedback *domain.Feedback) error { return nil }

type stubAssigner struct{}

func (stubAssigner) Assign() Assignment { return Assignment{DriverName: "Alice"} }

type stubSimulator struct{}

func (stubSimulator) Start(rideID int64, recipient string, fare float64) error { return nil }

func newStubDispatcher() *Dispatcher {
	sessions := session.NewMemoryStore()
	conv := NewConversationService(stubUserRepo{}, stubRideRepo{}, sessions, stubAssigner{}, stubSimulator{})
	return NewDispatcher(stubUserRepo{}, stubRideRepo{}, stubFeedbackRepo{}, sessions, conv)
}

func (d *Dispatcher) lockCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.locks)
}

func TestDispatch_IdentityLocksEvictedWhenIdle(t *testing.T) {
	t.Parallel()

	d := newStubDispatcher()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		phone := fmt.Sprintf("+1555000%04d", i)
		d.Dispatch(ctx, transport.Message{From: phone, Body: "hi"})
	}

	if got := d.lockCount(); got != 0 {
		t.Errorf("expected no lock entries after dispatches finished, got %d", got)
	}
}

func TestDispatch_IdentityLocksEvictedAfterContention(t *testing.T) {
	t.Parallel()

	d := newStubDispatcher()
	ctx := context.Background()

	// Many goroutines racing on a handful of identities; the map holds
	// entries only while a dispatch is in flight.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		phone := fmt.Sprintf("+1555000%04d", i%4)
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dispatch(ctx, transport.Message{From: phone, Body: "hi"})
		}()
	}
	wg.Wait()

	if got := d.lockCount(); got != 0 {
		t.Errorf("expected no lock entries after dispatches finished, got %d", got)
	}
}
