package session

import (
	"context"
	"fmt"

	"minigames_backend/internal/model"

	"go.uber.org/zap"
)

// SpinWheel Крутить колесо. Ставка и выигрыш применяются одной дельтой
func (s *serv) SpinWheel(ctx context.Context, accountID string, stake int64) (*model.WheelResult, error) {
	unlock := s.locker.Lock(accountID)
	defer unlock()

	// Пока идёт дуэль, колесо недоступно
	if _, ok, err := s.sessions.ActiveByAccount(ctx, accountID); err != nil {
		return nil, err
	} else if ok {
		return nil, model.ErrSessionInUse
	}

	balance, err := s.ledger.GetBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}

	spin, err := s.wheel.Spin(stake, balance)
	if err != nil {
		return nil, err
	}
	s.metrics.GameStarted(model.GameKindWheel)

	outcome := "lose"
	if spin.WinAmount > spin.Stake {
		outcome = "win"
	}

	entry, err := s.ledger.Settle(ctx, accountID, spin.Stake, spin.WinAmount, model.HistoryEntry{
		Kind:      model.GameKindWheel,
		Game:      model.GameNameWheel,
		Stake:     spin.Stake,
		Outcome:   fmt.Sprintf("Landed on %s", spin.SegmentLabel),
		WinAmount: spin.WinAmount,
	})
	if err != nil {
		s.log.Error("settle wheel spin failed",
			zap.String("account_id", accountID),
			zap.Int64("stake", stake),
			zap.Error(err),
		)
		return nil, fmt.Errorf("settle wheel spin: %w", err)
	}

	s.log.Info("wheel spun",
		zap.String("account_id", accountID),
		zap.Int64("stake", spin.Stake),
		zap.String("segment", spin.SegmentLabel),
		zap.Int64("win_amount", spin.WinAmount),
	)
	s.afterResolve(ctx, entry.ID, outcome, entry)

	return &model.WheelResult{
		Spin:    spin,
		Balance: entry.BalanceAfter,
		Entry:   *entry,
	}, nil
}
