package repository

import (
	"context"

	"github.com/georgeey123/ride-hailing-bot/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByPhone retrieves a user by phone identity.
	// Returns ErrNotFound if the identity is not registered.
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
}
