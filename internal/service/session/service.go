package session

import (
	"context"
	"time"

	"minigames_backend/internal/engine/elimination"
	"minigames_backend/internal/engine/wheel"
	"minigames_backend/internal/metrics"
	"minigames_backend/internal/model"
	"minigames_backend/internal/producer"
	"minigames_backend/internal/repository"
	"minigames_backend/internal/service"
	"minigames_backend/pkg/contracts/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type serv struct {
	ledger      service.LedgerService
	elimination *elimination.Engine
	wheel       *wheel.Engine
	sessions    repository.SessionRepository
	stats       repository.StatsRepository
	publisher   producer.Publisher
	metrics     *metrics.Metrics
	log         *zap.Logger

	locker  *locker
	pending *pendingPulls
	now     func() time.Time
}

// NewGameSessionService связывает движки игр с леджером.
// Все изменяющие вызовы по одному аккаунту выполняются строго по очереди
func NewGameSessionService(
	ledger service.LedgerService,
	eliminationEngine *elimination.Engine,
	wheelEngine *wheel.Engine,
	sessions repository.SessionRepository,
	stats repository.StatsRepository,
	publisher producer.Publisher,
	m *metrics.Metrics,
	log *zap.Logger,
) service.GameSessionService {
	return &serv{
		ledger:      ledger,
		elimination: eliminationEngine,
		wheel:       wheelEngine,
		sessions:    sessions,
		stats:       stats,
		publisher:   publisher,
		metrics:     m,
		log:         log,
		locker:      newLocker(),
		pending:     newPendingPulls(),
		now:         time.Now,
	}
}

func (s *serv) Segments() []model.Segment {
	return s.wheel.Segments()
}

func (s *serv) Stats() []model.GameStats {
	return s.stats.Snapshot()
}

// afterResolve - статистика, метрики и событие после записи раунда в леджер.
// Ошибка публикации не откатывает раунд
func (s *serv) afterResolve(ctx context.Context, sessionID, outcome string, entry *model.HistoryEntry) {
	s.stats.Record(entry.Kind, entry.Stake, entry.WinAmount)
	s.metrics.GameResolved(entry.Kind, outcome, entry.Stake, entry.WinAmount)

	err := s.publisher.PublishGameResolved(ctx, events.GameResolved{
		EventID:      uuid.NewString(),
		AccountID:    entry.AccountID,
		SessionID:    sessionID,
		Game:         string(entry.Kind),
		Stake:        entry.Stake,
		WinAmount:    entry.WinAmount,
		Outcome:      entry.Outcome,
		BalanceAfter: entry.BalanceAfter,
	})
	if err != nil {
		s.log.Warn("publish game resolved failed",
			zap.String("account_id", entry.AccountID),
			zap.String("game", string(entry.Kind)),
			zap.Error(err),
		)
	}
}
