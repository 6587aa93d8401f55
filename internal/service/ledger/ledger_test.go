package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"minigames_backend/internal/metrics"
	"minigames_backend/internal/model"
	"minigames_backend/internal/repository/memory_repo"
	"minigames_backend/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func newTestLedger(t *testing.T, balance int64) service.LedgerService {
	t.Helper()
	l := NewLedgerService(
		memory_repo.NewAccountRepository(),
		memory_repo.NewHistoryRepository(),
		memory_repo.NewTxManager(),
		metrics.New(prometheus.NewRegistry()),
		zap.NewNop(),
	)
	if _, err := l.OpenAccount(context.Background(), "acc", balance); err != nil {
		t.Fatalf("open account: %v", err)
	}
	return l
}

func TestOpenAccount(t *testing.T) {
	l := newTestLedger(t, 100)
	ctx := context.Background()

	if _, err := l.OpenAccount(ctx, "acc", 5); !errors.Is(err, model.ErrAccountExists) {
		t.Errorf("expected ErrAccountExists, got %v", err)
	}
	if _, err := l.OpenAccount(ctx, "neg", -1); !errors.Is(err, model.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := l.OpenAccount(ctx, "", 1); !errors.Is(err, model.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for empty id, got %v", err)
	}
}

func TestDebit(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, 100)

	cases := []struct {
		name    string
		amount  int64
		wantErr error
		wantBal int64
	}{
		{"zero amount", 0, model.ErrInvalidAmount, 100},
		{"negative amount", -10, model.ErrInvalidAmount, 100},
		{"above balance", 101, model.ErrInsufficientFunds, 100},
		{"valid", 40, nil, 60},
		{"rest of balance", 60, nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.Debit(ctx, "acc", tc.amount)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			bal, _ := l.GetBalance(ctx, "acc")
			if bal != tc.wantBal {
				t.Errorf("expected balance %d, got %d", tc.wantBal, bal)
			}
		})
	}
}

func TestCredit(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, 10)

	if _, err := l.Credit(ctx, "acc", -1); !errors.Is(err, model.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
	bal, err := l.Credit(ctx, "acc", 0)
	if err != nil || bal != 10 {
		t.Errorf("expected 10, nil; got %d, %v", bal, err)
	}
	bal, err = l.Credit(ctx, "acc", 15)
	if err != nil || bal != 25 {
		t.Errorf("expected 25, nil; got %d, %v", bal, err)
	}
	if _, err := l.Credit(ctx, "missing", 1); !errors.Is(err, model.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestSettle_NetDeltaAndHistory(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, 100)

	entry, err := l.Settle(ctx, "acc", 10, 50, model.HistoryEntry{
		Kind:      model.GameKindWheel,
		Game:      model.GameNameWheel,
		Stake:     10,
		Outcome:   "Landed on 5x",
		WinAmount: 50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.BalanceAfter != 140 {
		t.Errorf("expected balance after 140, got %d", entry.BalanceAfter)
	}
	if entry.ID == "" || entry.Timestamp.IsZero() {
		t.Errorf("expected id and timestamp to be filled, got %+v", entry)
	}

	hist, _ := l.GetHistory(ctx, "acc")
	if len(hist) != 1 || hist[0].Outcome != "Landed on 5x" || hist[0].AccountID != "acc" {
		t.Errorf("unexpected history: %+v", hist)
	}
}

func TestSettle_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, 5)

	_, err := l.Settle(ctx, "acc", 10, 100, model.HistoryEntry{})
	if !errors.Is(err, model.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	bal, _ := l.GetBalance(ctx, "acc")
	hist, _ := l.GetHistory(ctx, "acc")
	if bal != 5 || len(hist) != 0 {
		t.Errorf("expected no change, got balance %d history %d", bal, len(hist))
	}

	if _, err := l.Settle(ctx, "acc", -1, 0, model.HistoryEntry{}); !errors.Is(err, model.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestHistory_ReadsDoNotMutate(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, 100)
	_ = l.RecordHistory(ctx, "acc", model.HistoryEntry{Game: model.GameNameWheel})

	for i := 0; i < 3; i++ {
		bal, _ := l.GetBalance(ctx, "acc")
		hist, _ := l.GetHistory(ctx, "acc")
		if bal != 100 || len(hist) != 1 {
			t.Fatalf("read %d: expected 100/1, got %d/%d", i, bal, len(hist))
		}
	}
}

func TestClearHistory(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, 100)
	_ = l.RecordHistory(ctx, "acc", model.HistoryEntry{})
	_ = l.RecordHistory(ctx, "acc", model.HistoryEntry{})

	if err := l.ClearHistory(ctx, "acc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hist, _ := l.GetHistory(ctx, "acc")
	if len(hist) != 0 {
		t.Errorf("expected empty history, got %d", len(hist))
	}
	if err := l.ClearHistory(ctx, "missing"); !errors.Is(err, model.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

// Параллельные списания не уводят баланс в минус
func TestDebit_Concurrent(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, 100)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Debit(ctx, "acc", 3); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	bal, _ := l.GetBalance(ctx, "acc")
	if ok != 33 || bal != 1 {
		t.Errorf("expected 33 debits and balance 1, got %d and %d", ok, bal)
	}
}
