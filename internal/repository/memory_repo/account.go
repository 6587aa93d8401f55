package memory_repo

import (
	"context"
	"sync"
	"time"

	"minigames_backend/internal/model"
	"minigames_backend/internal/repository"
)

type accountRepo struct {
	mu       sync.RWMutex
	accounts map[string]*model.Account
}

func NewAccountRepository() repository.AccountRepository {
	return &accountRepo{
		accounts: make(map[string]*model.Account),
	}
}

func (r *accountRepo) CreateAccount(_ context.Context, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.ID]; ok {
		return model.ErrAccountExists
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}

	cp := *account
	r.accounts[account.ID] = &cp
	return nil
}

func (r *accountRepo) GetBalance(_ context.Context, id string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.accounts[id]
	if !ok {
		return 0, model.ErrAccountNotFound
	}
	return acc.Balance, nil
}

func (r *accountRepo) AddBalance(_ context.Context, id string, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[id]
	if !ok {
		return 0, model.ErrAccountNotFound
	}
	if acc.Balance+delta < 0 {
		return acc.Balance, model.ErrInsufficientFunds
	}

	acc.Balance += delta
	return acc.Balance, nil
}
