package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/nagacare/health-admin-api/internal/application/session"
	"github.com/nagacare/health-admin-api/internal/domain/entity"
)

const sessionKeyPrefix = "nagacare:session:"

var _ session.Store = (*SessionStore)(nil)

type cmdable interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) *goredis.StatusCmd
	Get(ctx context.Context, key string) *goredis.StringCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// SessionStore keeps session records as JSON under nagacare:session:<id> with a TTL
// matching the session's lifetime.
type SessionStore struct {
	rdb cmdable
}

// NewSessionStore builds the store over a go-redis client.
func NewSessionStore(rdb *goredis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// SessionKey returns the Redis key for a session id.
func SessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Save writes s with ttl.
func (s *SessionStore) Save(ctx context.Context, sess *entity.Session, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("session ttl must be positive")
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.rdb.Set(ctx, SessionKey(sess.ID), payload, ttl).Err()
}

// Get returns nil, nil for a missing or expired key.
func (s *SessionStore) Get(ctx context.Context, id string) (*entity.Session, error) {
	raw, err := s.rdb.Get(ctx, SessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var sess entity.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Delete removes the session key.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, SessionKey(id)).Err()
}
