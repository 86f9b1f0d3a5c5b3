package tests

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/georgeey123/ride-hailing-bot/internal/domain"
	"github.com/georgeey123/ride-hailing-bot/internal/service"
	"github.com/georgeey123/ride-hailing-bot/internal/session"
)

// ──────────────────────────────────────────────
// 6. DISPATCHER ROUTING
// ──────────────────────────────────────────────

type dispatcherFixture struct {
	users      *MockUserRepository
	rides      *MockRideRepository
	feedback   *MockFeedbackRepository
	sessions   *session.MemoryStore
	simulator  *MockSimulator
	dispatcher *service.Dispatcher
}

func newDispatcherFixture() *dispatcherFixture {
	users := NewMockUserRepository()
	rides := NewMockRideRepository()
	feedback := NewMockFeedbackRepository()
	sessions := session.NewMemoryStore()
	simulator := NewMockSimulator()
	conv := service.NewConversationService(users, rides, sessions, NewMockAssigner(), simulator)
	return &dispatcherFixture{
		users:      users,
		rides:      rides,
		feedback:   feedback,
		sessions:   sessions,
		simulator:  simulator,
		dispatcher: service.NewDispatcher(users, rides, feedback, sessions, conv),
	}
}

func TestDispatch_UnregisteredIdentityRoutedToRegistration(t *testing.T) {
	t.Parallel()

	f := newDispatcherFixture()

	// Even a recognized command goes to registration for an unknown sender.
	reply := f.dispatcher.Dispatch(context.Background(), text(testPhone, "request ride"))
	if !strings.Contains(reply, "full name") {
		t.Errorf("expected registration prompt, got %q", reply)
	}
}

func TestDispatch_UnknownCommandYieldsHelp(t *testing.T) {
	t.Parallel()

	f := newDispatcherFixture()
	f.users.AddUser(registeredUser(testPhone))

	reply := f.dispatcher.Dispatch(context.Background(), text(testPhone, "what can you do"))
	for _, command := range []string{"request ride", "view profile", "ride history", "feedback"} {
		if !strings.Contains(reply, command) {
			t.Errorf("expected help to list %q, got %q", command, reply)
		}
	}
}

func TestDispatch_ViewProfile(t *testing.T) {
	t.Parallel()

	f := newDispatcherFixture()
	f.users.AddUser(registeredUser(testPhone))

	reply := f.dispatcher.Dispatch(context.Background(), text(testPhone, "view profile"))
	if !strings.Contains(reply, "Jane Doe") {
		t.Errorf("expected profile to contain the name, got %q", reply)
	}
	if !strings.Contains(reply, "Passenger") {
		t.Errorf("expected profile to contain the role, got %q", reply)
	}
	if !strings.Contains(reply, "+15550001111") {
		t.Errorf("expected profile to contain the emergency contact, got %q", reply)
	}
}

func TestDispatch_RideHistoryNewestFirst(t *testing.T) {
	t.Parallel()

	f := newDispatcherFixture()
	user := registeredUser(testPhone)
	f.users.AddUser(user)
	ctx := context.Background()

	old := &domain.Ride{
		UserID:      user.ID,
		Destination: domain.Location{Lat: 1.0, Lng: 1.0},
		Status:      domain.RideStatusCompleted,
		Fare:        15.00,
		CreatedAt:   time.Now().Add(-time.Hour),
	}
	recent := &domain.Ride{
		UserID:      user.ID,
		Destination: domain.Location{Lat: 2.0, Lng: 2.0},
		Status:      domain.RideStatusRequested,
		Fare:        30.00,
		CreatedAt:   time.Now(),
	}
	f.rides.Create(ctx, old)
	f.rides.Create(ctx, recent)

	reply := f.dispatcher.Dispatch(ctx, text(testPhone, "ride history"))
	lines := strings.Split(reply, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 history lines, got %d: %q", len(lines), reply)
	}
	if !strings.Contains(lines[0], "$30.00") {
		t.Errorf("expected newest ride first, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "$15.00") {
		t.Errorf("expected oldest ride last, got %q", lines[1])
	}
}

func TestDispatch_RideHistoryEmpty(t *testing.T) {
	t.Parallel()

	f := newDispatcherFixture()
	f.users.AddUser(registeredUser(testPhone))

	reply := f.dispatcher.Dispatch(context.Background(), text(testPhone, "ride history"))
	if reply != "No ride history available." {
		t.Errorf("expected empty history message, got %q", reply)
	}
}

func TestDispatch_FeedbackCreated(t *testing.T) {
	t.Parallel()

	f := newDispatcherFixture()
	f.users.AddUser(registeredUser(testPhone))

	reply := f.dispatcher.Dispatch(context.Background(), text(testPhone, "feedback 7 5 great ride"))
	if !strings.Contains(reply, "Thank you for your feedback") {
		t.Errorf("expected feedback thanks, got %q", reply)
	}

	entries := f.feedback.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 feedback entry, got %d", len(entries))
	}
	if entries[0].RideID != 7 || entries[0].Rating != 5 || entries[0].Comments != "great ride" {
		t.Errorf("unexpected feedback entry: %+v", entries[0])
	}
}

func TestDispatch_FeedbackUsageError(t *testing.T) {
	t.Parallel()

	f := newDispatcherFixture()
	f.users.AddUser(registeredUser(testPhone))

	reply := f.dispatcher.Dispatch(context.Background(), text(testPhone, "feedback 7"))
	if !strings.Contains(reply, "feedback <ride_id> <rating> <comments>") {
		t.Errorf("expected usage message, got %q", reply)
	}
	if f.feedback.CreateCallCount != 0 {
		t.Error("expected no feedback created for malformed input")
	}
}

func TestDispatch_RideRequestFlowTakesPrecedenceOverCommands(t *testing.T) {
	t.Parallel()

	f := newDispatcherFixture()
	f.users.AddUser(registeredUser(testPhone))
	ctx := context.Background()

	f.dispatcher.Dispatch(ctx, text(testPhone, "request ride"))

	// Mid-flow, command words are flow input, not commands.
	reply := f.dispatcher.Dispatch(ctx, text(testPhone, "view profile"))
	if !strings.Contains(reply, "Invalid location") {
		t.Errorf("expected flow to consume the message, got %q", reply)
	}
}

// ──────────────────────────────────────────────
// 7. SESSION ISOLATION
// ──────────────────────────────────────────────

func TestDispatch_ConcurrentIdentitiesDoNotShareState(t *testing.T) {
	t.Parallel()

	f := newDispatcherFixture()
	phoneA := "+15550000001"
	phoneB := "+15550000002"
	f.users.AddUser(registeredUser(phoneA))
	f.users.AddUser(registeredUser(phoneB))
	ctx := context.Background()

	var wg sync.WaitGroup
	run := func(phone string, lat, lng float64) {
		defer wg.Done()
		f.dispatcher.Dispatch(ctx, text(phone, "request ride"))
		f.dispatcher.Dispatch(ctx, location(phone, lat, lng))
		f.dispatcher.Dispatch(ctx, location(phone, lat+1, lng+1))
	}

	wg.Add(2)
	go run(phoneA, 10.0, 20.0)
	go run(phoneB, 30.0, 40.0)
	wg.Wait()

	if f.rides.CountRides() != 2 {
		t.Fatalf("expected 2 rides, got %d", f.rides.CountRides())
	}

	ridesA, _ := f.rides.ListByUser(ctx, "user-"+phoneA)
	ridesB, _ := f.rides.ListByUser(ctx, "user-"+phoneB)
	if len(ridesA) != 1 || len(ridesB) != 1 {
		t.Fatalf("expected one ride per identity, got %d and %d", len(ridesA), len(ridesB))
	}

	if ridesA[0].Pickup != (domain.Location{Lat: 10.0, Lng: 20.0}) {
		t.Errorf("identity A pickup corrupted: %+v", ridesA[0].Pickup)
	}
	if ridesB[0].Pickup != (domain.Location{Lat: 30.0, Lng: 40.0}) {
		t.Errorf("identity B pickup corrupted: %+v", ridesB[0].Pickup)
	}

	// Both flows completed and cleared their sessions.
	for _, phone := range []string{phoneA, phoneB} {
		sess, err := f.sessions.Get(ctx, phone)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sess.Flow != domain.FlowNone {
			t.Errorf("identity %s: expected flow cleared, got %s", phone, sess.Flow)
		}
	}
}

func TestDispatch_OverlappingEventsSameIdentitySerialized(t *testing.T) {
	t.Parallel()

	f := newDispatcherFixture()
	f.users.AddUser(registeredUser(testPhone))
	ctx := context.Background()

	f.dispatcher.Dispatch(ctx, text(testPhone, "request ride"))

	// Two location shares racing each other: serialization means one is
	// consumed as the pickup and the other as the destination, whichever
	// order they land in. The result is exactly one booked ride.
	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			f.dispatcher.Dispatch(ctx, location(testPhone, 5.0, 6.0))
		}()
	}
	wg.Wait()

	if f.rides.CountRides() != 1 {
		t.Fatalf("expected exactly 1 ride, got %d", f.rides.CountRides())
	}

	sess, err := f.sessions.Get(ctx, testPhone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Flow != domain.FlowNone {
		t.Errorf("expected flow cleared after booking, got %s", sess.Flow)
	}
}
