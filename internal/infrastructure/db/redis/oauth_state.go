package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultStateTTL bounds how long a user may sit on the consent screen.
const DefaultStateTTL = 10 * time.Minute

// StateStore keeps single-use OAuth state nonces.
// Key format: oauth:state:<uuid>
type StateStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStateStore(client *redis.Client, ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	return &StateStore{client: client, ttl: ttl}
}

// Issue stores a fresh random state.
func (s *StateStore) Issue(ctx context.Context) (string, error) {
	state := uuid.NewString()
	ok, err := s.client.SetNX(ctx, stateKey(state), "1", s.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("store oauth state: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("store oauth state: collision on %s", state)
	}
	return state, nil
}

// Consume deletes state and reports whether it was outstanding. Only one
// caller can observe a successful delete, so a state is usable once.
func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	if _, err := uuid.Parse(state); err != nil {
		return false, nil
	}
	n, err := s.client.Del(ctx, stateKey(state)).Result()
	if err != nil {
		return false, fmt.Errorf("consume oauth state: %w", err)
	}
	return n == 1, nil
}

func stateKey(state string) string {
	return "oauth:state:" + state
}
