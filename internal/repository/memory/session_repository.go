package memory

import (
	"context"

	"github.com/patrickmn/go-cache"

	"hr-assistant-be/pkg/store"
)

// SessionRepository keeps conversation threads in process memory.
// Sessions never expire on their own; an explicit reset removes them.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *SessionRepository) Get(_ context.Context, threadID string) (*store.Session, error) {
	if x, found := r.cache.Get(threadID); found {
		return x.(*store.Session), nil
	}
	return nil, nil
}

func (r *SessionRepository) Save(_ context.Context, session *store.Session) error {
	r.cache.Set(session.ThreadID, session, cache.NoExpiration)
	return nil
}

func (r *SessionRepository) Delete(_ context.Context, threadID string) error {
	r.cache.Delete(threadID)
	return nil
}
