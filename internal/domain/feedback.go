package domain

import "time"

// Feedback is a rating a user submitted for a past ride. Insert-only.
type Feedback struct {
	ID        int64
	RideID    int64
	Rating    int
	Comments  string
	CreatedAt time.Time
}
