package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fortuna/quadra/internal/match"
)

// DefaultSnapshotTTL bounds how long an abandoned session survives.
const DefaultSnapshotTTL = 12 * time.Hour

const sessionKeyPrefix = "quadra:session:"

// SessionKey is the Redis key of a session snapshot.
func SessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// SessionStore keeps session snapshots in Redis so a restarted service can
// pick up matches in progress.
type SessionStore struct {
	cache *RedisCache
	ttl   time.Duration
}

// NewSessionStore creates a snapshot store. A non-positive ttl uses DefaultSnapshotTTL.
func NewSessionStore(cache *RedisCache, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &SessionStore{cache: cache, ttl: ttl}
}

// Save overwrites the snapshot and refreshes its TTL.
func (s *SessionStore) Save(ctx context.Context, sessionID string, st match.State) error {
	data, err := encodeState(st)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, SessionKey(sessionID), data, s.ttl)
}

// Load returns the snapshot, reporting false when none is stored.
func (s *SessionStore) Load(ctx context.Context, sessionID string) (match.State, bool, error) {
	data, err := s.cache.Get(ctx, SessionKey(sessionID))
	if errors.Is(err, ErrMiss) {
		return match.State{}, false, nil
	}
	if err != nil {
		return match.State{}, false, fmt.Errorf("loading snapshot %s: %w", sessionID, err)
	}
	st, err := decodeState(data)
	if err != nil {
		return match.State{}, false, fmt.Errorf("decoding snapshot %s: %w", sessionID, err)
	}
	return st, true, nil
}

// Delete drops the snapshot.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, SessionKey(sessionID))
}

func encodeState(st match.State) ([]byte, error) {
	return json.Marshal(st)
}

func decodeState(data []byte) (match.State, error) {
	var st match.State
	err := json.Unmarshal(data, &st)
	return st, err
}
