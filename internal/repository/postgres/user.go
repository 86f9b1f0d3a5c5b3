package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/georgeey123/ride-hailing-bot/internal/domain"
	"github.com/georgeey123/ride-hailing-bot/internal/repository"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, phone_number, full_name, role, emergency_contact, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.q.ExecContext(ctx, query,
		user.ID,
		user.Phone,
		user.FullName,
		user.Role,
		user.EmergencyContact,
		user.CreatedAt,
	)
	return err
}

// GetByPhone retrieves a user by phone identity.
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	query := `
		SELECT id, phone_number, full_name, role, emergency_contact, created_at
		FROM users WHERE phone_number = $1
	`

	var user domain.User
	err := r.q.QueryRowContext(ctx, query, phone).Scan(
		&user.ID,
		&user.Phone,
		&user.FullName,
		&user.Role,
		&user.EmergencyContact,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
