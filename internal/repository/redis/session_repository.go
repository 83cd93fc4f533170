package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"hr-assistant-be/pkg/store"
)

const keyPrefix = "hr-assistant:session:"

// SessionRepository persists conversation threads in Redis so they survive
// process restarts. Threads idle longer than TTL are evicted.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (r *SessionRepository) Get(ctx context.Context, threadID string) (*store.Session, error) {
	data, err := r.client.Get(ctx, keyPrefix+threadID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var session store.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", threadID, err)
	}
	return &session, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.ThreadID, err)
	}
	if err := r.client.Set(ctx, keyPrefix+session.ThreadID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, threadID string) error {
	if err := r.client.Del(ctx, keyPrefix+threadID).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}
