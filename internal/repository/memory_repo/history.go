package memory_repo

import (
	"context"
	"fmt"
	"sync"

	"minigames_backend/internal/model"
	"minigames_backend/internal/repository"
)

type historyRepo struct {
	mu      sync.RWMutex
	entries map[string][]model.HistoryEntry
	ids     map[string]struct{}
}

func NewHistoryRepository() repository.HistoryRepository {
	return &historyRepo{
		entries: make(map[string][]model.HistoryEntry),
		ids:     make(map[string]struct{}),
	}
}

func (r *historyRepo) Append(_ context.Context, entry *model.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Как первичный ключ в game_history
	if _, ok := r.ids[entry.ID]; ok {
		return fmt.Errorf("history entry %s already recorded: %w", entry.ID, model.ErrInvariantViolation)
	}
	r.ids[entry.ID] = struct{}{}

	r.entries[entry.AccountID] = append(r.entries[entry.AccountID], *entry)
	return nil
}

func (r *historyRepo) List(_ context.Context, accountID string) ([]model.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.entries[accountID]
	out := make([]model.HistoryEntry, len(src))
	copy(out, src)
	return out, nil
}

func (r *historyRepo) Clear(_ context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, accountID)
	return nil
}
