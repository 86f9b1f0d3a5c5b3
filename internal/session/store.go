// Package session holds the per-identity conversation state that the
// conversation engine reads and writes between inbound events. State is
// keyed by the sender's phone identity and may be volatile or durable; the
// engine only depends on the Store interface.
package session

import (
	"context"

	"github.com/georgeey123/ride-hailing-bot/internal/domain"
)

// Store defines the session persistence operations.
type Store interface {
	// Get retrieves the session for an identity. A missing session is not
	// an error: it returns (nil, nil).
	Get(ctx context.Context, phone string) (*domain.Session, error)

	// Save stores a session, overwriting any previous one for the identity.
	Save(ctx context.Context, session *domain.Session) error

	// Clear removes the session for an identity.
	Clear(ctx context.Context, phone string) error
}
