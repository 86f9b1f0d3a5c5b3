package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/georgeey123/ride-hailing-bot/internal/domain"
	"github.com/georgeey123/ride-hailing-bot/internal/repository"
	"github.com/georgeey123/ride-hailing-bot/internal/session"
	"github.com/georgeey123/ride-hailing-bot/internal/transport"
)

// RideSimulator schedules the timed status progression for a created ride.
// This interface allows for testing with mock implementations.
type RideSimulator interface {
	Start(rideID int64, recipient string, fare float64) error
}

// Ensure Simulator implements RideSimulator.
var _ RideSimulator = (*Simulator)(nil)

// Conversation prompts. Validation failures re-prompt; they are never
// surfaced as system failures.
const (
	msgAskName      = "Hello! To register, please provide your full name."
	msgAskRole      = "Thanks! Are you a driver or a passenger?"
	msgRoleRetry    = "Please respond with 'driver' or 'passenger'."
	msgAskContact   = "Great! Please provide an emergency contact number."
	msgInvalidPhone = "Invalid phone number. Please provide a valid emergency contact number in the format +<country_code><number>."
	msgRegFailed    = "Sorry, there was an error with your registration. Please try again."

	msgSharePickup        = "Please share your pickup location using WhatsApp's location sharing feature."
	msgShareDestination   = "Thank you! Now, please share your destination location using WhatsApp's location sharing feature."
	msgInvalidPickup      = "Invalid location. Please share your pickup location using WhatsApp's location sharing feature."
	msgInvalidDestination = "Invalid location. Please share your destination location using WhatsApp's location sharing feature."
	msgRideFailed         = "Sorry, we could not book your ride right now. Please share your destination location again."
)

// ConversationService drives the per-identity conversation state machines:
// the registration flow and the ride-request flow. One inbound event is one
// state-machine step; the caller serializes events per identity.
type ConversationService struct {
	users     repository.UserRepository
	rides     repository.RideRepository
	sessions  session.Store
	assigner  Assigner
	simulator RideSimulator
}

// NewConversationService creates a new ConversationService.
func NewConversationService(
	users repository.UserRepository,
	rides repository.RideRepository,
	sessions session.Store,
	assigner Assigner,
	simulator RideSimulator,
) *ConversationService {
	return &ConversationService{
		users:     users,
		rides:     rides,
		sessions:  sessions,
		assigner:  assigner,
		simulator: simulator,
	}
}

// HandleRegistration advances the registration flow one step and returns the
// reply to send. The returned error covers session-store failures only.
func (s *ConversationService) HandleRegistration(ctx context.Context, msg transport.Message) (string, error) {
	sess, err := s.sessions.Get(ctx, msg.From)
	if err != nil {
		return "", err
	}

	if sess == nil || sess.Flow != domain.FlowRegistration {
		sess = &domain.Session{
			Phone: msg.From,
			Flow:  domain.FlowRegistration,
			Step:  domain.StepAskName,
		}
		if err := s.sessions.Save(ctx, sess); err != nil {
			return "", err
		}
		return msgAskName, nil
	}

	text := strings.TrimSpace(msg.Body)

	switch sess.Step {
	case domain.StepAskName:
		if text == "" {
			return msgAskName, nil
		}
		sess.FullName = text
		sess.Step = domain.StepAskRole
		if err := s.sessions.Save(ctx, sess); err != nil {
			return "", err
		}
		return msgAskRole, nil

	case domain.StepAskRole:
		role, ok := domain.ParseRole(text)
		if !ok {
			return msgRoleRetry, nil
		}
		sess.Role = role
		sess.Step = domain.StepAskEmergencyContact
		if err := s.sessions.Save(ctx, sess); err != nil {
			return "", err
		}
		return msgAskContact, nil

	case domain.StepAskEmergencyContact:
		if !IsValidPhone(text) {
			return msgInvalidPhone, nil
		}
		return s.completeRegistration(ctx, sess, text)

	default:
		// Unknown step, restart the flow.
		sess.ResetFlow()
		sess.Flow = domain.FlowRegistration
		sess.Step = domain.StepAskName
		if err := s.sessions.Save(ctx, sess); err != nil {
			return "", err
		}
		return msgAskName, nil
	}
}

// completeRegistration creates the user record and clears the flow. A store
// failure is surfaced to the user once and not retried.
func (s *ConversationService) completeRegistration(ctx context.Context, sess *domain.Session, contact string) (string, error) {
	user := &domain.User{
		ID:               uuid.New().String(),
		Phone:            sess.Phone,
		FullName:         sess.FullName,
		Role:             sess.Role,
		EmergencyContact: contact,
		CreatedAt:        time.Now(),
	}

	sess.ResetFlow()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return "", err
	}

	if err := s.users.Create(ctx, user); err != nil {
		log.Printf("[REGISTRATION] failed to create user %s: %v", user.Phone, err)
		return msgRegFailed, nil
	}

	return fmt.Sprintf("Thank you, %s! You are now registered as a %s.", user.FullName, user.Role), nil
}

// HandleRideRequest advances the ride-request flow one step and returns the
// reply to send. The returned error covers session-store failures only.
func (s *ConversationService) HandleRideRequest(ctx context.Context, msg transport.Message) (string, error) {
	sess, err := s.sessions.Get(ctx, msg.From)
	if err != nil {
		return "", err
	}

	if sess == nil || sess.Flow != domain.FlowRideRequest {
		if sess == nil {
			sess = &domain.Session{Phone: msg.From}
		}
		sess.ResetFlow()
		sess.Flow = domain.FlowRideRequest
		sess.Step = domain.StepAwaitingPickup
		if err := s.sessions.Save(ctx, sess); err != nil {
			return "", err
		}
		return msgSharePickup, nil
	}

	switch sess.Step {
	case domain.StepAwaitingPickup:
		if !msg.HasLocation() {
			return msgInvalidPickup, nil
		}
		sess.Pickup = &domain.Location{Lat: *msg.Latitude, Lng: *msg.Longitude}
		sess.Step = domain.StepAwaitingDestination
		if err := s.sessions.Save(ctx, sess); err != nil {
			return "", err
		}
		return msgShareDestination, nil

	case domain.StepAwaitingDestination:
		// A stored session can lose its pickup (manual edit, schema
		// drift); restart rather than booking from half a route.
		if sess.Pickup == nil {
			sess.ResetFlow()
			sess.Flow = domain.FlowRideRequest
			sess.Step = domain.StepAwaitingPickup
			if err := s.sessions.Save(ctx, sess); err != nil {
				return "", err
			}
			return msgSharePickup, nil
		}
		if !msg.HasLocation() {
			return msgInvalidDestination, nil
		}
		destination := domain.Location{Lat: *msg.Latitude, Lng: *msg.Longitude}
		return s.bookRide(ctx, sess, destination)

	default:
		// Unknown step, restart the flow.
		sess.ResetFlow()
		sess.Flow = domain.FlowRideRequest
		sess.Step = domain.StepAwaitingPickup
		if err := s.sessions.Save(ctx, sess); err != nil {
			return "", err
		}
		return msgSharePickup, nil
	}
}

// bookRide assigns a driver, creates the ride and starts its lifecycle
// simulation. On a store failure the session stays in AwaitingDestination so
// the user can retry by resharing the destination.
func (s *ConversationService) bookRide(ctx context.Context, sess *domain.Session, destination domain.Location) (string, error) {
	assignment := s.assigner.Assign()

	sess.Destination = &destination
	sess.DriverName = assignment.DriverName
	sess.CarDetails = assignment.CarDetails
	sess.Fare = assignment.Fare
	sess.ETAMinutes = assignment.ETAMinutes
	if err := s.sessions.Save(ctx, sess); err != nil {
		return "", err
	}

	// The flow is only reachable for registered users per dispatcher
	// routing, so a missing record here is a store failure.
	user, err := s.users.GetByPhone(ctx, sess.Phone)
	if err != nil {
		log.Printf("[RIDE_REQUEST] failed to load user %s: %v", sess.Phone, err)
		return msgRideFailed, nil
	}

	ride := &domain.Ride{
		UserID:          user.ID,
		Pickup:          *sess.Pickup,
		Destination:     destination,
		DriverName:      assignment.DriverName,
		CarDetails:      assignment.CarDetails,
		Status:          domain.RideStatusRequested,
		Fare:            assignment.Fare,
		DurationMinutes: assignment.ETAMinutes,
		CreatedAt:       time.Now(),
	}

	if err := s.rides.Create(ctx, ride); err != nil {
		log.Printf("[RIDE_REQUEST] failed to create ride for %s: %v", sess.Phone, err)
		return msgRideFailed, nil
	}

	// Completing the flow discards the scratch; the booked ride id stays on
	// the idle session.
	sess.ResetFlow()
	sess.RideID = ride.ID
	if err := s.sessions.Save(ctx, sess); err != nil {
		return "", err
	}

	if err := s.simulator.Start(ride.ID, sess.Phone, ride.Fare); err != nil {
		log.Printf("[RIDE_REQUEST] failed to start simulation for ride %d: %v", ride.ID, err)
	}

	return fmt.Sprintf(
		"Your driver %s is on the way in a %s. Estimated fare is $%.2f. Arrival time: %d minutes.",
		assignment.DriverName, assignment.CarDetails, assignment.Fare, assignment.ETAMinutes,
	), nil
}
