package repository

import (
	"context"

	"github.com/georgeey123/ride-hailing-bot/internal/domain"
)

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Create persists a new ride and fills in the store-assigned ID and
	// creation timestamp.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id int64) (*domain.Ride, error)

	// UpdateStatus sets the status of an existing ride.
	UpdateStatus(ctx context.Context, id int64, status domain.RideStatus) error

	// ListByUser retrieves all rides for a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Ride, error)
}
