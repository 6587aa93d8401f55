package ledger

import (
	"minigames_backend/internal/metrics"
	"minigames_backend/internal/repository"
	"minigames_backend/internal/service"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"go.uber.org/zap"
)

type serv struct {
	accountRepo repository.AccountRepository
	historyRepo repository.HistoryRepository
	txManager   trm.Manager
	metrics     *metrics.Metrics
	log         *zap.Logger
}

// NewLedgerService Леджер - единственный, кто меняет баланс и историю
func NewLedgerService(
	accountRepo repository.AccountRepository,
	historyRepo repository.HistoryRepository,
	txManager trm.Manager,
	m *metrics.Metrics,
	log *zap.Logger,
) service.LedgerService {
	return &serv{
		accountRepo: accountRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		metrics:     m,
		log:         log,
	}
}
