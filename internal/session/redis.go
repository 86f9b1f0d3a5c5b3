package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/georgeey123/ride-hailing-bot/internal/domain"
)

const sessionKeyPrefix = "session:"

// DefaultTTL bounds how long an abandoned flow survives before the
// conversation falls back to the command dispatcher.
const DefaultTTL = 30 * time.Minute

// RedisStore is a Redis-backed session store. Sessions survive process
// restarts but expire after the configured TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a new RedisStore. A non-positive ttl falls back to
// DefaultTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Get retrieves the session for an identity.
func (s *RedisStore) Get(ctx context.Context, phone string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+phone).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // no session yet
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Save stores a session, refreshing its TTL.
func (s *RedisStore) Save(ctx context.Context, session *domain.Session) error {
	session.UpdatedAt = time.Now()

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+session.Phone, data, s.ttl).Err()
}

// Clear removes the session for an identity.
func (s *RedisStore) Clear(ctx context.Context, phone string) error {
	return s.client.Del(ctx, sessionKeyPrefix+phone).Err()
}

var _ Store = (*RedisStore)(nil)
