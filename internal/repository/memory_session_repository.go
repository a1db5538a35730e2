package repository

import (
	"context"
	"sync"
	"time"

	"github.com/memberhub/memberhub/internal/models"
)

// MemorySessionRepository keeps sessions in process memory. Used by tests and
// single-instance development setups.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]models.SignupSession
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]models.SignupSession)}
}

func (r *MemorySessionRepository) Save(_ context.Context, session *models.SignupSession) error {
	if session.Expired(time.Now()) {
		return models.ErrSessionNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = *session
	return nil
}

func (r *MemorySessionRepository) Get(_ context.Context, id string) (*models.SignupSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	if session.Expired(time.Now()) {
		delete(r.sessions, id)
		return nil, models.ErrSessionNotFound
	}
	return &session, nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *MemorySessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
