package memory_repo

import (
	"context"
	"sync"

	"minigames_backend/internal/model"
	"minigames_backend/internal/repository"
)

type sessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]model.EliminationSession
	active   map[string]string // accountID -> sessionID
}

func NewSessionRepository() repository.SessionRepository {
	return &sessionRepo{
		sessions: make(map[string]model.EliminationSession),
		active:   make(map[string]string),
	}
}

func (r *sessionRepo) Create(_ context.Context, s *model.EliminationSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.active[s.AccountID]; ok {
		return model.ErrSessionInUse
	}
	r.active[s.AccountID] = s.ID
	r.sessions[s.ID] = *s
	return nil
}

func (r *sessionRepo) Get(_ context.Context, id string) (*model.EliminationSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return &s, nil
}

func (r *sessionRepo) Update(_ context.Context, s *model.EliminationSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.ID]; !ok {
		return model.ErrSessionNotFound
	}
	r.sessions[s.ID] = *s
	return nil
}

func (r *sessionRepo) Delete(_ context.Context, s *model.EliminationSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, s.ID)
	if r.active[s.AccountID] == s.ID {
		delete(r.active, s.AccountID)
	}
	return nil
}

func (r *sessionRepo) ActiveByAccount(_ context.Context, accountID string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.active[accountID]
	return id, ok, nil
}
