package ledger

import (
	"context"
	"fmt"
	"time"

	"minigames_backend/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Settle - фиксация раунда. Ставка и выигрыш применяются одной дельтой,
// запись истории добавляется в той же транзакции
func (s *serv) Settle(ctx context.Context, accountID string, debit, credit int64, entry model.HistoryEntry) (*model.HistoryEntry, error) {
	if debit < 0 || credit < 0 {
		return nil, fmt.Errorf("settle debit %d credit %d: %w", debit, credit, model.ErrInvalidAmount)
	}

	prepareEntry(accountID, &entry)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Проверяем, хватает ли денег на ставку
		balance, err := s.accountRepo.GetBalance(txCtx, accountID)
		if err != nil {
			return err
		}
		if balance < debit {
			return fmt.Errorf("settle debit %d with balance %d: %w", debit, balance, model.ErrInsufficientFunds)
		}

		newBalance, err := s.accountRepo.AddBalance(txCtx, accountID, credit-debit)
		if err != nil {
			return err
		}
		if err := s.checkBalance(accountID, newBalance); err != nil {
			return err
		}

		entry.BalanceAfter = newBalance
		return s.historyRepo.Append(txCtx, &entry)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("round settled",
		zap.String("account_id", accountID),
		zap.String("game", entry.Game),
		zap.Int64("debit", debit),
		zap.Int64("credit", credit),
		zap.Int64("balance", entry.BalanceAfter),
	)

	return &entry, nil
}

// RecordHistory - добавить запись в историю аккаунта
func (s *serv) RecordHistory(ctx context.Context, accountID string, entry model.HistoryEntry) error {
	prepareEntry(accountID, &entry)

	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.historyRepo.Append(txCtx, &entry)
	})
}

// GetHistory - история в порядке вставки, старые первыми
func (s *serv) GetHistory(ctx context.Context, accountID string) ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Несуществующий аккаунт - ошибка, а не пустая история
		if _, err := s.accountRepo.GetBalance(txCtx, accountID); err != nil {
			return err
		}

		var err error
		entries, err = s.historyRepo.List(txCtx, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// ClearHistory - явная очистка истории по отдельному запросу
func (s *serv) ClearHistory(ctx context.Context, accountID string) error {
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.accountRepo.GetBalance(txCtx, accountID); err != nil {
			return err
		}
		return s.historyRepo.Clear(txCtx, accountID)
	})
	if err != nil {
		return err
	}

	s.log.Info("history cleared", zap.String("account_id", accountID))
	return nil
}

func prepareEntry(accountID string, entry *model.HistoryEntry) {
	entry.AccountID = accountID
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
}
