package postgres

import (
	"context"
	"database/sql"

	"github.com/georgeey123/ride-hailing-bot/internal/domain"
)

// FeedbackRepository implements repository.FeedbackRepository using PostgreSQL.
type FeedbackRepository struct {
	q Querier
}

// NewFeedbackRepository creates a new FeedbackRepository.
func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{q: db}
}

// Create persists a new feedback entry. Ride existence is enforced by the
// foreign key, not by this layer.
func (r *FeedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	query := `
		INSERT INTO feedback (ride_id, rating, comments, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.q.QueryRowContext(ctx, query,
		feedback.RideID,
		feedback.Rating,
		feedback.Comments,
		feedback.CreatedAt,
	).Scan(&feedback.ID, &feedback.CreatedAt)
}
