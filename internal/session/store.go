package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"neurochat/internal/cache"
)

const stateKeyPrefix = "session:"

var (
	// ErrNotFound is returned when no state is stored for the id, usually
	// because its TTL ran out.
	ErrNotFound = errors.New("session state not found")
	// ErrCorrupt is returned when a stored state cannot be decoded.
	ErrCorrupt = errors.New("session state corrupt")
)

// Store persists session state.
type Store interface {
	// Load returns the state for id, ErrNotFound when none is stored and
	// ErrCorrupt when the payload cannot be decoded. Other errors mean the
	// backend failed.
	Load(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, st *State) error
	Destroy(ctx context.Context, id string) error
}

// RedisStore keeps JSON-encoded state in Redis with a sliding TTL. Unlike the
// user cache it reports Redis failures, since Redis holds the only copy.
type RedisStore struct {
	cache *cache.Client
	ttl   time.Duration
}

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store whose entries expire ttl after the last save.
func NewRedisStore(cache *cache.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: cache, ttl: ttl}
}

// Load reads state from Redis.
func (s *RedisStore) Load(ctx context.Context, id string) (*State, error) {
	data, err := s.cache.GetStrict(ctx, stateKeyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		return nil, ErrNotFound
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	st.id = id
	st.upgrade()
	return &st, nil
}

// Save writes state to Redis and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, st *State) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.cache.SetStrict(ctx, stateKeyPrefix+st.id, payload, s.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	st.dirty = false
	return nil
}

// Destroy removes state from Redis.
func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	if err := s.cache.DeleteStrict(ctx, stateKeyPrefix+id); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
