package repository

import (
	"context"

	"minigames_backend/internal/model"
)

type AccountRepository interface {
	CreateAccount(ctx context.Context, account *model.Account) error
	GetBalance(ctx context.Context, id string) (int64, error)
	// AddBalance атомарно прибавляет delta к балансу и возвращает новый баланс.
	// Если баланс стал бы отрицательным - model.ErrInsufficientFunds, баланс не меняется
	AddBalance(ctx context.Context, id string, delta int64) (int64, error)
}

type HistoryRepository interface {
	Append(ctx context.Context, entry *model.HistoryEntry) error
	// List возвращает историю в порядке вставки, старые первыми
	List(ctx context.Context, accountID string) ([]model.HistoryEntry, error)
	Clear(ctx context.Context, accountID string) error
}

// SessionRepository хранит активные дуэли. На аккаунт не больше одной
type SessionRepository interface {
	// Create сохраняет новую сессию, model.ErrSessionInUse если у аккаунта уже есть активная
	Create(ctx context.Context, session *model.EliminationSession) error
	Get(ctx context.Context, id string) (*model.EliminationSession, error)
	Update(ctx context.Context, session *model.EliminationSession) error
	// Delete удаляет сессию и освобождает аккаунт
	Delete(ctx context.Context, session *model.EliminationSession) error
	ActiveByAccount(ctx context.Context, accountID string) (sessionID string, ok bool, err error)
}

// StatsRepository - статистика RTP по играм
type StatsRepository interface {
	Record(game model.GameKind, stake, payout int64)
	Snapshot() []model.GameStats
}
