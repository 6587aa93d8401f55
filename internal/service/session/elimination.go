package session

import (
	"context"
	"errors"
	"fmt"

	"minigames_backend/internal/engine/elimination"
	"minigames_backend/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Описание исхода дуэли в истории
const (
	outcomeWon  = "won"
	outcomeLost = "lost"
)

// StartElimination Начать дуэль. Ставка списывается сразу и не возвращается при выходе
func (s *serv) StartElimination(ctx context.Context, accountID string, stake int64, opponentID string) (*model.EliminationSession, error) {
	if opponentID == "" || opponentID == accountID {
		return nil, fmt.Errorf("opponent %q: %w", opponentID, model.ErrInvalidOpponent)
	}
	if stake <= 0 {
		return nil, fmt.Errorf("stake %d: %w", stake, model.ErrInvalidStake)
	}

	unlock := s.locker.Lock(accountID)
	defer unlock()

	// Одна активная игра на аккаунт
	if _, ok, err := s.sessions.ActiveByAccount(ctx, accountID); err != nil {
		return nil, err
	} else if ok {
		return nil, model.ErrSessionInUse
	}

	// Валидация ставки относительно баланса
	balance, err := s.ledger.GetBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if stake > balance {
		return nil, fmt.Errorf("stake %d with balance %d: %w", stake, balance, model.ErrInvalidStake)
	}

	sess, err := s.elimination.NewSession(uuid.NewString(), accountID, opponentID, stake)
	if err != nil {
		return nil, err
	}
	sess.CreatedAt = s.now()
	sess.UpdatedAt = sess.CreatedAt

	// Сначала списываем ставку: сессии без списанной ставки не существует
	if _, err := s.ledger.Debit(ctx, accountID, stake); err != nil {
		if errors.Is(err, model.ErrInsufficientFunds) {
			// Ставка уже проверена под блокировкой, значит баланс поменялся в обход сессии
			s.log.Error("insufficient funds after stake validation",
				zap.String("account_id", accountID),
				zap.Int64("stake", stake),
			)
		}
		return nil, fmt.Errorf("debit stake: %w", err)
	}

	if err := s.sessions.Create(ctx, &sess); err != nil {
		s.refundStake(ctx, &sess)
		return nil, err
	}

	s.metrics.GameStarted(model.GameKindElimination)
	s.log.Info("elimination started",
		zap.String("session_id", sess.ID),
		zap.String("account_id", accountID),
		zap.String("opponent_id", opponentID),
		zap.Int64("stake", stake),
	)

	return &sess, nil
}

// SpinBarrel Прокрутить барабан
func (s *serv) SpinBarrel(ctx context.Context, sessionID string) (*model.EliminationSession, error) {
	var res *model.EliminationSession

	err := s.withSession(ctx, sessionID, func(sess *model.EliminationSession) error {
		next, _, err := s.elimination.Transition(*sess, elimination.ActionSpinBarrel)
		if err != nil {
			return err
		}
		next.UpdatedAt = s.now()

		if err := s.sessions.Update(ctx, &next); err != nil {
			return err
		}
		res = &next
		return nil
	})

	return res, err
}

// PullTrigger Нажать на курок. При завершении игры начисляет банк и пишет историю
func (s *serv) PullTrigger(ctx context.Context, sessionID string) (*model.EliminationResult, error) {
	var res *model.EliminationResult

	err := s.withSession(ctx, sessionID, func(sess *model.EliminationSession) error {
		// Исход уже разыгран, но не записан в леджер - дописываем без нового розыгрыша
		if sess.Phase == model.PhaseResolved && !sess.Committed {
			balance, err := s.commitElimination(ctx, sess)
			if err != nil {
				return err
			}
			res = &model.EliminationResult{Session: sess, Fired: !sess.Forced, Balance: balance}
			return nil
		}

		// Розыгрыш, который не удалось сохранить, переиспользуется, а не переигрывается
		next, eff, ok := s.pending.take(sess.ID, sess.Pulls)
		if !ok {
			var err error
			next, eff, err = s.elimination.Transition(*sess, elimination.ActionPullTrigger)
			if err != nil {
				return err
			}
		}
		next.UpdatedAt = s.now()

		// Сохраняем исход до записи в леджер
		if err := s.sessions.Update(ctx, &next); err != nil {
			s.pending.put(sess.ID, sess.Pulls, next, eff)
			s.log.Error("persist pull result", zap.String("session_id", sess.ID), zap.Error(err))
			return err
		}

		if !eff.Resolved {
			balance, err := s.ledger.GetBalance(ctx, next.AccountID)
			if err != nil {
				return err
			}
			res = &model.EliminationResult{Session: &next, Balance: balance}
			return nil
		}

		balance, err := s.commitElimination(ctx, &next)
		if err != nil {
			return err
		}
		res = &model.EliminationResult{Session: &next, Fired: eff.Fired, Balance: balance}
		return nil
	})

	return res, err
}

// QuitElimination Выйти из дуэли. Ставка не возвращается, история не пишется
func (s *serv) QuitElimination(ctx context.Context, sessionID string) error {
	return s.withSession(ctx, sessionID, func(sess *model.EliminationSession) error {
		// Игра уже разыграна - выход не должен съесть выигрыш
		if sess.Phase == model.PhaseResolved && !sess.Committed {
			_, err := s.commitElimination(ctx, sess)
			return err
		}

		if err := s.sessions.Delete(ctx, sess); err != nil {
			return err
		}
		s.pending.drop(sess.ID)

		if sess.Phase != model.PhaseResolved {
			s.log.Info("elimination forfeited",
				zap.String("session_id", sess.ID),
				zap.String("account_id", sess.AccountID),
				zap.Int64("stake", sess.Stake),
				zap.Int("chamber", sess.Chamber),
			)
		}
		return nil
	})
}

// GetElimination - состояние дуэли, только чтение
func (s *serv) GetElimination(ctx context.Context, sessionID string) (*model.EliminationSession, error) {
	return s.sessions.Get(ctx, sessionID)
}

// withSession находит аккаунт сессии, блокирует его и перечитывает сессию под блокировкой
func (s *serv) withSession(ctx context.Context, sessionID string, fn func(sess *model.EliminationSession) error) error {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	unlock := s.locker.Lock(sess.AccountID)
	defer unlock()

	sess, err = s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	return fn(sess)
}

// commitElimination - единственная точка записи результата дуэли.
// ID записи истории совпадает с ID сессии, повторная запись упрётся в первичный ключ
// game_history (в памяти - в множество ID) и вернёт ErrInvariantViolation
func (s *serv) commitElimination(ctx context.Context, sess *model.EliminationSession) (int64, error) {
	outcome := outcomeLost
	if sess.Outcome == model.OutcomeWin {
		outcome = outcomeWon
	}

	entry, err := s.ledger.Settle(ctx, sess.AccountID, 0, sess.Payout(), model.HistoryEntry{
		ID:         sess.ID,
		Kind:       model.GameKindElimination,
		Game:       model.GameNameElimination,
		Stake:      sess.Stake,
		Outcome:    outcome,
		WinAmount:  sess.Payout(),
		OpponentID: sess.OpponentID,
	})
	if err != nil {
		s.log.Error("commit elimination failed", zap.String("session_id", sess.ID), zap.Error(err))
		return 0, fmt.Errorf("commit elimination: %w", err)
	}

	sess.Committed = true
	s.pending.drop(sess.ID)
	if err := s.sessions.Delete(ctx, sess); err != nil {
		// Раунд уже записан, помечаем сессию, чтобы не начислить второй раз
		s.log.Error("delete committed session", zap.String("session_id", sess.ID), zap.Error(err))
		if err := s.sessions.Update(ctx, sess); err != nil {
			s.log.Error("mark session committed", zap.String("session_id", sess.ID), zap.Error(err))
		}
	}

	s.log.Info("elimination resolved",
		zap.String("session_id", sess.ID),
		zap.String("account_id", sess.AccountID),
		zap.String("outcome", string(sess.Outcome)),
		zap.Bool("forced", sess.Forced),
		zap.Int("pulls", sess.Pulls),
	)
	s.afterResolve(ctx, sess.ID, string(sess.Outcome), entry)

	return entry.BalanceAfter, nil
}

// refundStake возвращает ставку, если сессию не удалось создать после списания
func (s *serv) refundStake(ctx context.Context, sess *model.EliminationSession) {
	if _, err := s.ledger.Credit(ctx, sess.AccountID, sess.Stake); err != nil {
		s.metrics.InvariantViolation()
		s.log.Error("refund stake after failed session create",
			zap.String("session_id", sess.ID),
			zap.String("account_id", sess.AccountID),
			zap.Int64("stake", sess.Stake),
			zap.Error(err),
		)
	}
}
