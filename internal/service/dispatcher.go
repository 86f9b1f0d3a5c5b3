package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/georgeey123/ride-hailing-bot/internal/domain"
	"github.com/georgeey123/ride-hailing-bot/internal/repository"
	"github.com/georgeey123/ride-hailing-bot/internal/session"
	"github.com/georgeey123/ride-hailing-bot/internal/transport"
)

const (
	msgHelp = "Hello There!\nPlease use these commands to access the bot:\n 'request ride', 'view profile', 'ride history', or 'feedback <ride_id> <rating> <comments>'."

	msgFeedbackUsage  = "Invalid input. Please provide feedback in the format: feedback <ride_id> <rating> <comments>"
	msgFeedbackThanks = "Thank you for your feedback!"
	msgFeedbackFailed = "Sorry, we could not save your feedback. Please try again."
	msgNoHistory      = "No ride history available."
	msgGenericFailure = "Sorry, something went wrong. Please try again."
)

// Dispatcher routes each inbound event to the right flow or command handler
// and serializes events per identity, so two overlapping messages from the
// same user cannot corrupt flow state.
type Dispatcher struct {
	users    repository.UserRepository
	rides    repository.RideRepository
	feedback repository.FeedbackRepository
	sessions session.Store
	conv     *ConversationService

	mu    sync.Mutex
	locks map[string]*identityLock
}

// identityLock serializes events for one identity. refs counts the holders
// and waiters so the entry can be evicted once nobody needs it; sessions
// expire via TTL, the lock map must not outgrow them.
type identityLock struct {
	mu   sync.Mutex
	refs int
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(
	users repository.UserRepository,
	rides repository.RideRepository,
	feedback repository.FeedbackRepository,
	sessions session.Store,
	conv *ConversationService,
) *Dispatcher {
	return &Dispatcher{
		users:    users,
		rides:    rides,
		feedback: feedback,
		sessions: sessions,
		conv:     conv,
		locks:    make(map[string]*identityLock),
	}
}

// Dispatch processes one inbound event to completion and returns the reply
// to send back to the sender. Failures never escape as errors; the caller
// always gets a user-facing message.
func (d *Dispatcher) Dispatch(ctx context.Context, msg transport.Message) string {
	lock := d.acquireIdentity(msg.From)
	defer d.releaseIdentity(msg.From, lock)

	user, err := d.users.GetByPhone(ctx, msg.From)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return d.reply(d.conv.HandleRegistration(ctx, msg))
		}
		log.Printf("[DISPATCH] failed to load user %s: %v", msg.From, err)
		return msgGenericFailure
	}

	sess, err := d.sessions.Get(ctx, msg.From)
	if err != nil {
		log.Printf("[DISPATCH] failed to load session %s: %v", msg.From, err)
		return msgGenericFailure
	}
	if sess != nil && sess.Flow == domain.FlowRideRequest {
		return d.reply(d.conv.HandleRideRequest(ctx, msg))
	}

	cmd := ParseCommand(msg.Body)
	switch cmd.Kind {
	case CommandRequestRide:
		return d.reply(d.conv.HandleRideRequest(ctx, msg))
	case CommandViewProfile:
		return formatProfile(user)
	case CommandRideHistory:
		return d.rideHistory(ctx, user)
	case CommandFeedback:
		return d.submitFeedback(ctx, cmd)
	case CommandFeedbackUsage:
		return msgFeedbackUsage
	default:
		return msgHelp
	}
}

// reply converts a conversation-engine result into an outbound message,
// mapping session-store failures to a generic one.
func (d *Dispatcher) reply(text string, err error) string {
	if err != nil {
		log.Printf("[DISPATCH] session store error: %v", err)
		return msgGenericFailure
	}
	return text
}

// acquireIdentity takes the per-identity lock, registering as a holder so
// the entry survives until releaseIdentity.
func (d *Dispatcher) acquireIdentity(phone string) *identityLock {
	d.mu.Lock()
	lock, ok := d.locks[phone]
	if !ok {
		lock = &identityLock{}
		d.locks[phone] = lock
	}
	lock.refs++
	d.mu.Unlock()

	lock.mu.Lock()
	return lock
}

// releaseIdentity unlocks and evicts the entry once the last holder is gone.
func (d *Dispatcher) releaseIdentity(phone string, lock *identityLock) {
	lock.mu.Unlock()

	d.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(d.locks, phone)
	}
	d.mu.Unlock()
}

// rideHistory renders the user's rides, newest first.
func (d *Dispatcher) rideHistory(ctx context.Context, user *domain.User) string {
	rides, err := d.rides.ListByUser(ctx, user.ID)
	if err != nil {
		log.Printf("[DISPATCH] failed to list rides for %s: %v", user.Phone, err)
		return msgGenericFailure
	}
	if len(rides) == 0 {
		return msgNoHistory
	}

	lines := make([]string, 0, len(rides))
	for _, ride := range rides {
		lines = append(lines, fmt.Sprintf(
			"Ride on %s to %.5f,%.5f - Fare: $%.2f, Status: %s",
			ride.CreatedAt.Format("2006-01-02 15:04"),
			ride.Destination.Lat, ride.Destination.Lng,
			ride.Fare, ride.Status,
		))
	}
	return strings.Join(lines, "\n")
}

// submitFeedback creates a feedback record for a parsed feedback command.
func (d *Dispatcher) submitFeedback(ctx context.Context, cmd Command) string {
	entry := &domain.Feedback{
		RideID:    cmd.RideID,
		Rating:    cmd.Rating,
		Comments:  cmd.Comment,
		CreatedAt: time.Now(),
	}
	if err := d.feedback.Create(ctx, entry); err != nil {
		log.Printf("[DISPATCH] failed to create feedback for ride %d: %v", cmd.RideID, err)
		return msgFeedbackFailed
	}
	return msgFeedbackThanks
}

// formatProfile is the read-only render of a user's registration fields.
func formatProfile(user *domain.User) string {
	return fmt.Sprintf("Name: %s\nRole: %s\nEmergency Contact: %s",
		user.FullName, user.Role, user.EmergencyContact)
}
