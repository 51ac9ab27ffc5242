package redisstore

import (
	"context"
	"errors"
	"time"

	"captioncraft/internal/domain/session"
	"captioncraft/internal/infrastructure/cache"

	"github.com/google/uuid"
)

const sessionKeyPrefix = "session:"

type sessionKV interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type SessionStore struct {
	kv  sessionKV
	now func() time.Time
}

func NewSessionStore(store sessionKV) *SessionStore {
	return &SessionStore{kv: store, now: time.Now}
}

func sessionKey(id uuid.UUID) string {
	return sessionKeyPrefix + id.String()
}

func (s *SessionStore) Open(ctx context.Context, sess session.Session) error {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	return s.kv.SetJSON(ctx, sessionKey(sess.ID), sess, ttl)
}

func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (session.Session, error) {
	var sess session.Session
	ok, err := s.kv.GetJSON(ctx, sessionKey(id), &sess)
	if err != nil {
		if errors.Is(err, cache.ErrStorageCorrupt) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, err
	}
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	return sess, nil
}

func (s *SessionStore) Close(ctx context.Context, id uuid.UUID) error {
	return s.kv.Delete(ctx, sessionKey(id))
}

var _ session.Store = (*SessionStore)(nil)
