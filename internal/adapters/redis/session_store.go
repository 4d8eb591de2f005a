// Package redis provides the Redis-backed session store.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/pennmutual/chatquote-ui-api/internal/domain/auth"
	"github.com/pennmutual/chatquote-ui-api/internal/ports"
)

// DefaultTTL is the idle lifetime of a session record. Every Save resets it.
const DefaultTTL = 30 * time.Minute

// SessionStore persists session records in Redis with a fixed TTL.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ ports.SessionStore = (*SessionStore)(nil)

// Options configures a SessionStore beyond its defaults.
type Options struct {
	Prefix string        // default "session:"
	TTL    time.Duration // default DefaultTTL
}

// NewSessionStore creates a Redis-backed session store.
func NewSessionStore(client redis.UniversalClient, opts Options) *SessionStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "session:"
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SessionStore{client: client, prefix: prefix, ttl: ttl}
}

// Save writes the session record under the given ID, resetting its TTL.
func (s *SessionStore) Save(ctx context.Context, id string, rec domainauth.SessionRecord) error {
	if id == "" {
		return errors.New("session ID cannot be empty")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.client.Set(ctx, s.prefix+id, data, s.ttl).Err()
}

// Get retrieves the session record for the given ID.
func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.SessionRecord, error) {
	if id == "" {
		return domainauth.SessionRecord{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.SessionRecord{}, ErrNotFound
		}
		return domainauth.SessionRecord{}, fmt.Errorf("redis get: %w", err)
	}

	var rec domainauth.SessionRecord
	if unmarshalErr := json.Unmarshal([]byte(data), &rec); unmarshalErr != nil {
		return domainauth.SessionRecord{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}
	return rec, nil
}

// Delete removes the session record for the given ID.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil // Nothing to delete
	}
	return s.client.Del(ctx, s.prefix+id).Err()
}

// ErrNotFound is returned when a session is not found.
type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

var ErrNotFound error = notFoundError{}
