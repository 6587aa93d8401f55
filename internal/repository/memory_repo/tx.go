package memory_repo

import (
	"context"
	"sync"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

type txKey struct{}

// TxManager - менеджер "транзакций" для хранилища в памяти.
// Сериализует блоки Do, вложенный Do выполняется в уже захваченном блоке.
// Отката нет: репозитории в памяти не падают на середине операции
type TxManager struct {
	mu sync.Mutex
}

func NewTxManager() *TxManager {
	return &TxManager{}
}

var _ trm.Manager = (*TxManager)(nil)

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return fn(context.WithValue(ctx, txKey{}, true))
}

func (m *TxManager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}
