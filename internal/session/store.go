package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL is the fixed session marker lifetime.
const TTL = time.Hour

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func markerKey(userID string) string {
	return "session:" + userID
}

// Establish writes the marker with the fixed expiry. Logging in again
// simply resets the clock.
func (s *Store) Establish(ctx context.Context, userID string) error {
	return s.rdb.Set(ctx, markerKey(userID), "1", TTL).Err()
}

// Active reports whether a live marker exists for the user.
func (s *Store) Active(ctx context.Context, userID string) (bool, error) {
	err := s.rdb.Get(ctx, markerKey(userID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("session lookup: %w", err)
	}
	return true, nil
}

// Clear removes the marker. Idempotent: clearing an absent marker is
// not an error. Because every protected request checks the marker,
// clearing it also invalidates outstanding tokens.
func (s *Store) Clear(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, markerKey(userID)).Err()
}
