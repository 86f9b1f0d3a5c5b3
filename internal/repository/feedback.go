package repository

import (
	"context"

	"github.com/georgeey123/ride-hailing-bot/internal/domain"
)

// FeedbackRepository defines the persistence operations for feedback.
type FeedbackRepository interface {
	// Create persists a new feedback entry.
	Create(ctx context.Context, feedback *domain.Feedback) error
}
