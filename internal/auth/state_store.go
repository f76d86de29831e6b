package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/cache"
)

const (
	oauthStateKeyPrefix = "oauth_state:"
	oauthStateTTL       = 10 * time.Minute
)

// StateStoreInterface defines the interface for OAuth state storage.
type StateStoreInterface interface {
	Issue(ctx context.Context) (string, error)
	Consume(ctx context.Context, state string) (bool, error)
}

// StateStore hands out one-shot state tokens for the OAuth redirect handshake,
// backed by Redis with a short TTL.
type StateStore struct {
	cache *cache.Client
}

// Ensure StateStore implements StateStoreInterface
var _ StateStoreInterface = (*StateStore)(nil)

// NewStateStore creates a new OAuth state store.
func NewStateStore(cache *cache.Client) *StateStore {
	return &StateStore{cache: cache}
}

// Issue creates a new state token valid for one callback within the TTL.
func (s *StateStore) Issue(ctx context.Context) (string, error) {
	state := uuid.New().String()
	if err := s.cache.Set(ctx, oauthStateKeyPrefix+state, []byte("1"), oauthStateTTL); err != nil {
		return "", err
	}
	return state, nil
}

// Consume checks and invalidates a state token. A token can be consumed at
// most once.
func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	data, err := s.cache.GetDel(ctx, oauthStateKeyPrefix+state)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}
