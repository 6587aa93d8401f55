package service

import (
	"context"

	"minigames_backend/internal/model"
)

type LedgerService interface {
	OpenAccount(ctx context.Context, accountID string, initialBalance int64) (*model.Account, error)
	Debit(ctx context.Context, accountID string, amount int64) (int64, error)
	Credit(ctx context.Context, accountID string, amount int64) (int64, error)
	// Settle - точка фиксации раунда: одна дельта баланса и запись истории в одной транзакции
	Settle(ctx context.Context, accountID string, debit, credit int64, entry model.HistoryEntry) (*model.HistoryEntry, error)
	RecordHistory(ctx context.Context, accountID string, entry model.HistoryEntry) error
	GetBalance(ctx context.Context, accountID string) (int64, error)
	GetHistory(ctx context.Context, accountID string) ([]model.HistoryEntry, error)
	ClearHistory(ctx context.Context, accountID string) error
}

type GameSessionService interface {
	StartElimination(ctx context.Context, accountID string, stake int64, opponentID string) (*model.EliminationSession, error)
	SpinBarrel(ctx context.Context, sessionID string) (*model.EliminationSession, error)
	PullTrigger(ctx context.Context, sessionID string) (*model.EliminationResult, error)
	QuitElimination(ctx context.Context, sessionID string) error
	GetElimination(ctx context.Context, sessionID string) (*model.EliminationSession, error)

	SpinWheel(ctx context.Context, accountID string, stake int64) (*model.WheelResult, error)
	Segments() []model.Segment
	Stats() []model.GameStats
}
