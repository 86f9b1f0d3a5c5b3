package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/georgeey123/ride-hailing-bot/internal/domain"
	"github.com/georgeey123/ride-hailing-bot/internal/repository"
	"github.com/georgeey123/ride-hailing-bot/internal/service"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User // keyed by phone

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
	GetError    error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.Phone] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.Phone] = user
	return nil
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[phone]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *user
	return &copy, nil
}

// GetUser returns a user for test assertions.
func (m *MockUserRepository) GetUser(phone string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[phone]
}

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository. It records
// the full status history per ride so tests can assert on ordering.
type MockRideRepository struct {
	mu        sync.RWMutex
	rides     map[int64]*domain.Ride
	statusLog map[int64][]domain.RideStatus
	nextID    int64

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides:     make(map[int64]*domain.Ride),
		statusLog: make(map[int64][]domain.RideStatus),
	}
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	ride.ID = m.nextID
	if ride.CreatedAt.IsZero() {
		ride.CreatedAt = time.Now()
	}
	copy := *ride
	m.rides[ride.ID] = &copy
	m.statusLog[ride.ID] = append(m.statusLog[ride.ID], ride.Status)
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id int64) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) UpdateStatus(ctx context.Context, id int64, status domain.RideStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[id]
	if !ok {
		return repository.ErrNotFound
	}
	ride.Status = status
	m.statusLog[id] = append(m.statusLog[id], status)
	return nil
}

func (m *MockRideRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rides []*domain.Ride
	for _, ride := range m.rides {
		if ride.UserID == userID {
			copy := *ride
			rides = append(rides, &copy)
		}
	}
	// Newest first, matching the store contract.
	sort.Slice(rides, func(i, j int) bool {
		if rides[i].CreatedAt.Equal(rides[j].CreatedAt) {
			return rides[i].ID > rides[j].ID
		}
		return rides[i].CreatedAt.After(rides[j].CreatedAt)
	})
	return rides, nil
}

// CountRides returns the number of stored rides.
func (m *MockRideRepository) CountRides() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rides)
}

// GetRide returns a ride for test assertions.
func (m *MockRideRepository) GetRide(id int64) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

// StatusHistory returns the recorded status sequence for a ride.
func (m *MockRideRepository) StatusHistory(id int64) []domain.RideStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	history := make([]domain.RideStatus, len(m.statusLog[id]))
	copy(history, m.statusLog[id])
	return history
}

// ──────────────────────────────────────────────
// MOCK FEEDBACK REPOSITORY
// ──────────────────────────────────────────────

// MockFeedbackRepository is a mock implementation of FeedbackRepository.
type MockFeedbackRepository struct {
	mu      sync.RWMutex
	entries []*domain.Feedback

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockFeedbackRepository creates a new mock feedback repository.
func NewMockFeedbackRepository() *MockFeedbackRepository {
	return &MockFeedbackRepository{}
}

func (m *MockFeedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *feedback
	m.entries = append(m.entries, &copy)
	return nil
}

// Entries returns the stored feedback for test assertions.
func (m *MockFeedbackRepository) Entries() []*domain.Feedback {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]*domain.Feedback, len(m.entries))
	copy(entries, m.entries)
	return entries
}

// ──────────────────────────────────────────────
// MOCK MESSENGER
// ──────────────────────────────────────────────

// SentMessage is one outbound message captured by the mock messenger.
type SentMessage struct {
	To   string
	Body string
}

// MockMessenger is a mock implementation of transport.Messenger.
type MockMessenger struct {
	mu   sync.RWMutex
	sent []SentMessage

	// Error injection
	SendError error
}

// NewMockMessenger creates a new mock messenger.
func NewMockMessenger() *MockMessenger {
	return &MockMessenger{}
}

func (m *MockMessenger) Send(ctx context.Context, to, body string) error {
	if m.SendError != nil {
		return m.SendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMessage{To: to, Body: body})
	return nil
}

// Sent returns the captured outbound messages.
func (m *MockMessenger) Sent() []SentMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sent := make([]SentMessage, len(m.sent))
	copy(sent, m.sent)
	return sent
}

// ──────────────────────────────────────────────
// MOCK ASSIGNER
// ──────────────────────────────────────────────

// MockAssigner returns a fixed assignment.
type MockAssigner struct {
	Assignment service.Assignment
}

// NewMockAssigner creates a mock assigner with a deterministic assignment.
func NewMockAssigner() *MockAssigner {
	return &MockAssigner{
		Assignment: service.Assignment{
			DriverName: "Alice",
			CarDetails: "Toyota Prius - XYZ 1234",
			Fare:       23.50,
			ETAMinutes: 7,
		},
	}
}

func (m *MockAssigner) Assign() service.Assignment {
	return m.Assignment
}

// ──────────────────────────────────────────────
// MOCK DEDUP STORE
// ──────────────────────────────────────────────

// MockDedupStore is an in-memory implementation of the delivery
// deduplication claim.
type MockDedupStore struct {
	mu   sync.Mutex
	seen map[string]bool

	// Counters for verification
	ClaimCallCount int32

	// Error injection
	ClaimError error
}

// NewMockDedupStore creates a new mock dedup store.
func NewMockDedupStore() *MockDedupStore {
	return &MockDedupStore{seen: make(map[string]bool)}
}

func (m *MockDedupStore) ClaimMessageSID(ctx context.Context, sid string) (bool, error) {
	atomic.AddInt32(&m.ClaimCallCount, 1)
	if m.ClaimError != nil {
		return false, m.ClaimError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[sid] {
		return false, nil
	}
	m.seen[sid] = true
	return true, nil
}

// ──────────────────────────────────────────────
// MOCK SIMULATOR
// ──────────────────────────────────────────────

// MockSimulator records simulation starts without scheduling anything.
type MockSimulator struct {
	mu     sync.RWMutex
	starts map[int64]int

	// Error injection
	StartError error
}

// NewMockSimulator creates a new mock simulator.
func NewMockSimulator() *MockSimulator {
	return &MockSimulator{starts: make(map[int64]int)}
}

func (m *MockSimulator) Start(rideID int64, recipient string, fare float64) error {
	if m.StartError != nil {
		return m.StartError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts[rideID]++
	return nil
}

// StartCount returns how many times a simulation was started for a ride.
func (m *MockSimulator) StartCount(rideID int64) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.starts[rideID]
}

// TotalStarts returns the total number of simulation starts.
func (m *MockSimulator) TotalStarts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, count := range m.starts {
		total += count
	}
	return total
}
