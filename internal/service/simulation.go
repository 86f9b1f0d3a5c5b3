package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/georgeey123/ride-hailing-bot/internal/domain"
	redisstore "github.com/georgeey123/ride-hailing-bot/internal/redis"
	"github.com/georgeey123/ride-hailing-bot/internal/repository"
	"github.com/georgeey123/ride-hailing-bot/internal/transport"
)

// defaultStatusInterval is the gap between lifecycle transitions, giving the
// original +10s/+20s/+30s/+40s schedule.
const defaultStatusInterval = 10 * time.Second

// simulationStep is one timed transition of the ride lifecycle.
type simulationStep struct {
	status  domain.RideStatus
	message string
}

// lifecycleSteps returns the fixed status progression for one ride. The fare
// is baked into the final message as immutable payload data.
func lifecycleSteps(fare float64) []simulationStep {
	return []simulationStep{
		{domain.RideStatusDriverArriving, "Your driver is arriving!"},
		{domain.RideStatusTripStarted, "Your trip has started!"},
		{domain.RideStatusDriving, "Driving..."},
		{domain.RideStatusCompleted, fmt.Sprintf("You have arrived at your destination. Total fare: $%.2f. Thank you for riding with us!", fare)},
	}
}

// Simulator advances rides through the fixed lifecycle on a timer. One
// goroutine per ride walks the schedule, so steps for a ride always fire in
// order; a per-ride claim (in-process registry plus an optional Redis lock)
// keeps at most one simulation active per ride id.
type Simulator struct {
	rides     repository.RideRepository
	messenger transport.Messenger
	locks     redisstore.LockStoreInterface // optional, nil disables cross-process claims
	interval  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	active map[int64]chan struct{}
}

// NewSimulator creates a new Simulator. A non-positive interval falls back
// to the default 10 seconds.
func NewSimulator(
	rides repository.RideRepository,
	messenger transport.Messenger,
	locks redisstore.LockStoreInterface,
	interval time.Duration,
) *Simulator {
	if interval <= 0 {
		interval = defaultStatusInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Simulator{
		rides:     rides,
		messenger: messenger,
		locks:     locks,
		interval:  interval,
		ctx:       ctx,
		cancel:    cancel,
		active:    make(map[int64]chan struct{}),
	}
}

// Start claims the ride and schedules its lifecycle. Returns
// ErrSimulationRunning if a simulation is already active for the ride id.
func (s *Simulator) Start(rideID int64, recipient string, fare float64) error {
	select {
	case <-s.ctx.Done():
		return ErrSimulationStopped
	default:
	}

	stop := make(chan struct{})

	s.mu.Lock()
	if _, exists := s.active[rideID]; exists {
		s.mu.Unlock()
		return ErrSimulationRunning
	}
	s.active[rideID] = stop
	s.mu.Unlock()

	if s.locks != nil {
		// The lock outlives the schedule slightly so a crashed process
		// cannot block the ride forever.
		ttl := time.Duration(len(lifecycleSteps(fare))+1) * s.interval
		ok, err := s.locks.AcquireSimulationLock(s.ctx, rideID, ttl)
		if err != nil {
			// Redis unavailable: proceed on the in-process claim alone.
			log.Printf("[SIMULATION] ride=%d lock error: %v", rideID, err)
		} else if !ok {
			s.mu.Lock()
			delete(s.active, rideID)
			s.mu.Unlock()
			return ErrSimulationRunning
		}
	}

	s.wg.Add(1)
	go s.run(rideID, recipient, fare, stop)
	return nil
}

// run fires the lifecycle steps in order, one interval apart. Store and
// transport failures are logged and never skip later steps.
func (s *Simulator) run(rideID int64, recipient string, fare float64, stop chan struct{}) {
	defer s.wg.Done()
	defer s.release(rideID)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for i, step := range lifecycleSteps(fare) {
		if i > 0 {
			timer.Reset(s.interval)
		}
		select {
		case <-timer.C:
		case <-stop:
			return
		case <-s.ctx.Done():
			return
		}

		if err := s.rides.UpdateStatus(s.ctx, rideID, step.status); err != nil {
			log.Printf("[SIMULATION] ride=%d status=%s update failed: %v", rideID, step.status, err)
		}
		if err := s.messenger.Send(s.ctx, recipient, step.message); err != nil {
			log.Printf("[SIMULATION] ride=%d send to %s failed: %v", rideID, recipient, err)
		}
	}
}

// release drops the ride claim once its simulation ends.
func (s *Simulator) release(rideID int64) {
	s.mu.Lock()
	delete(s.active, rideID)
	s.mu.Unlock()

	if s.locks != nil {
		if err := s.locks.ReleaseSimulationLock(context.Background(), rideID); err != nil {
			log.Printf("[SIMULATION] ride=%d lock release failed: %v", rideID, err)
		}
	}
}

// Cancel stops the remaining steps for a ride. Returns false if no
// simulation is active for the ride id.
func (s *Simulator) Cancel(rideID int64) bool {
	s.mu.Lock()
	stop, ok := s.active[rideID]
	if ok {
		delete(s.active, rideID)
	}
	s.mu.Unlock()

	if ok {
		close(stop)
	}
	return ok
}

// Shutdown stops all active simulations and waits for them to finish.
func (s *Simulator) Shutdown() {
	s.cancel()
	s.wg.Wait()
}
