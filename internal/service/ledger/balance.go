package ledger

import (
	"context"
	"fmt"
	"time"

	"minigames_backend/internal/model"

	"go.uber.org/zap"
)

// OpenAccount - заводит аккаунт с начальным балансом
func (s *serv) OpenAccount(ctx context.Context, accountID string, initialBalance int64) (*model.Account, error) {
	if accountID == "" {
		return nil, fmt.Errorf("empty account id: %w", model.ErrInvalidAmount)
	}
	if initialBalance < 0 {
		return nil, fmt.Errorf("initial balance %d: %w", initialBalance, model.ErrInvalidAmount)
	}

	acc := &model.Account{
		ID:        accountID,
		Balance:   initialBalance,
		CreatedAt: time.Now(),
	}
	if err := s.accountRepo.CreateAccount(ctx, acc); err != nil {
		return nil, err
	}

	s.log.Info("account opened", zap.String("account_id", accountID), zap.Int64("balance", initialBalance))
	return acc, nil
}

// Debit - списание. Сумма должна быть положительной и не больше баланса
func (s *serv) Debit(ctx context.Context, accountID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("debit %d: %w", amount, model.ErrInvalidAmount)
	}

	var balance int64
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		newBalance, err := s.accountRepo.AddBalance(txCtx, accountID, -amount)
		if err != nil {
			return err
		}
		if err := s.checkBalance(accountID, newBalance); err != nil {
			return err
		}
		balance = newBalance
		return nil
	})
	if err != nil {
		return 0, err
	}

	return balance, nil
}

// Credit - начисление. Ноль допустим и баланс не меняет
func (s *serv) Credit(ctx context.Context, accountID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("credit %d: %w", amount, model.ErrInvalidAmount)
	}

	var balance int64
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		newBalance, err := s.accountRepo.AddBalance(txCtx, accountID, amount)
		if err != nil {
			return err
		}
		balance = newBalance
		return nil
	})
	if err != nil {
		return 0, err
	}

	return balance, nil
}

// GetBalance - только чтение
func (s *serv) GetBalance(ctx context.Context, accountID string) (int64, error) {
	var balance int64
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		balance, err = s.accountRepo.GetBalance(txCtx, accountID)
		return err
	})
	return balance, err
}

// checkBalance - отрицательный баланс после операции это баг, а не ошибка пользователя
func (s *serv) checkBalance(accountID string, balance int64) error {
	if balance >= 0 {
		return nil
	}

	s.metrics.InvariantViolation()
	s.log.Error("negative balance detected",
		zap.String("account_id", accountID),
		zap.Int64("balance", balance),
	)
	return fmt.Errorf("account %s balance %d: %w", accountID, balance, model.ErrInvariantViolation)
}
