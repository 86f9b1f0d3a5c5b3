package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/georgeey123/ride-hailing-bot/internal/domain"
	"github.com/georgeey123/ride-hailing-bot/internal/repository"
)

// RideRepository implements repository.RideRepository using PostgreSQL.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new RideRepository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// Create persists a new ride. The store assigns the ride ID; it is written
// back into the passed ride along with the creation timestamp.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (user_id, pickup_lat, pickup_lng, destination_lat, destination_lng, driver_name, car_details, status, fare, duration_minutes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	status := ride.Status
	if status == "" {
		status = domain.RideStatusRequested
	}

	return r.q.QueryRowContext(ctx, query,
		ride.UserID,
		ride.Pickup.Lat,
		ride.Pickup.Lng,
		ride.Destination.Lat,
		ride.Destination.Lng,
		ride.DriverName,
		ride.CarDetails,
		status,
		ride.Fare,
		ride.DurationMinutes,
		ride.CreatedAt,
	).Scan(&ride.ID, &ride.CreatedAt)
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id int64) (*domain.Ride, error) {
	query := `
		SELECT id, user_id, pickup_lat, pickup_lng, destination_lat, destination_lng, driver_name, car_details, status, fare, duration_minutes, created_at
		FROM rides WHERE id = $1
	`

	var ride domain.Ride
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&ride.ID,
		&ride.UserID,
		&ride.Pickup.Lat,
		&ride.Pickup.Lng,
		&ride.Destination.Lat,
		&ride.Destination.Lng,
		&ride.DriverName,
		&ride.CarDetails,
		&ride.Status,
		&ride.Fare,
		&ride.DurationMinutes,
		&ride.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &ride, nil
}

// UpdateStatus sets the status of an existing ride.
func (r *RideRepository) UpdateStatus(ctx context.Context, id int64, status domain.RideStatus) error {
	query := `UPDATE rides SET status = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListByUser retrieves all rides for a user, newest first.
func (r *RideRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Ride, error) {
	query := `
		SELECT id, user_id, pickup_lat, pickup_lng, destination_lat, destination_lng, driver_name, car_details, status, fare, duration_minutes, created_at
		FROM rides WHERE user_id = $1 ORDER BY created_at DESC, id DESC
	`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		var ride domain.Ride
		if err := rows.Scan(
			&ride.ID,
			&ride.UserID,
			&ride.Pickup.Lat,
			&ride.Pickup.Lng,
			&ride.Destination.Lat,
			&ride.Destination.Lng,
			&ride.DriverName,
			&ride.CarDetails,
			&ride.Status,
			&ride.Fare,
			&ride.DurationMinutes,
			&ride.CreatedAt,
		); err != nil {
			return nil, err
		}
		rides = append(rides, &ride)
	}
	return rides, rows.Err()
}
