package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"minigames_backend/internal/engine/elimination"
	"minigames_backend/internal/engine/wheel"
	"minigames_backend/internal/metrics"
	"minigames_backend/internal/model"
	"minigames_backend/internal/producer"
	"minigames_backend/internal/repository"
	"minigames_backend/internal/repository/memory_repo"
	"minigames_backend/internal/repository/stats_repo"
	"minigames_backend/internal/service"
	"minigames_backend/internal/service/ledger"
	"minigames_backend/pkg/contracts/events"
	"minigames_backend/pkg/rng"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.GameResolved
}

func (p *recordingPublisher) PublishGameResolved(_ context.Context, e events.GameResolved) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

type fixture struct {
	svc      service.GameSessionService
	ledger   service.LedgerService
	sessions repository.SessionRepository
	pub      *recordingPublisher
}

var errStorage = errors.New("storage unavailable")

// failingLedger отказывает в списании
type failingLedger struct {
	service.LedgerService
}

func (failingLedger) Debit(context.Context, string, int64) (int64, error) {
	return 0, errStorage
}

// flakySessions - хранилище, операции которого можно ломать по одной
type flakySessions struct {
	repository.SessionRepository
	failCreate  bool
	failDelete  bool
	failUpdates int // Сколько следующих Update вернут ошибку
}

func (f *flakySessions) Create(ctx context.Context, s *model.EliminationSession) error {
	if f.failCreate {
		return errStorage
	}
	return f.SessionRepository.Create(ctx, s)
}

func (f *flakySessions) Delete(ctx context.Context, s *model.EliminationSession) error {
	if f.failDelete {
		return errStorage
	}
	return f.SessionRepository.Delete(ctx, s)
}

func (f *flakySessions) Update(ctx context.Context, s *model.EliminationSession) error {
	if f.failUpdates > 0 {
		f.failUpdates--
		return errStorage
	}
	return f.SessionRepository.Update(ctx, s)
}

func newFixture(t *testing.T, balance int64, src rng.Source) fixture {
	t.Helper()
	return newFixtureWith(t, balance, src, nil, nil)
}

// newFixtureWith позволяет подменить леджер и хранилище сессий обёртками с ошибками
func newFixtureWith(
	t *testing.T,
	balance int64,
	src rng.Source,
	wrapLedger func(service.LedgerService) service.LedgerService,
	wrapSessions func(repository.SessionRepository) repository.SessionRepository,
) fixture {
	t.Helper()

	m := metrics.New(prometheus.NewRegistry())
	l := ledger.NewLedgerService(
		memory_repo.NewAccountRepository(),
		memory_repo.NewHistoryRepository(),
		memory_repo.NewTxManager(),
		m,
		zap.NewNop(),
	)
	if _, err := l.OpenAccount(context.Background(), "acc", balance); err != nil {
		t.Fatalf("open account: %v", err)
	}

	elim, err := elimination.NewEngine(elimination.DefaultChambers, elimination.DefaultFireOdds, src)
	if err != nil {
		t.Fatalf("elimination engine: %v", err)
	}
	wh, err := wheel.NewEngine(wheel.DefaultSegments(), src)
	if err != nil {
		t.Fatalf("wheel engine: %v", err)
	}

	var gameLedger service.LedgerService = l
	if wrapLedger != nil {
		gameLedger = wrapLedger(l)
	}
	sessions := memory_repo.NewSessionRepository()
	if wrapSessions != nil {
		sessions = wrapSessions(sessions)
	}

	pub := &recordingPublisher{}
	svc := NewGameSessionService(gameLedger, elim, wh, sessions, stats_repo.NewStatsRepository(), pub, m, zap.NewNop())

	return fixture{svc: svc, ledger: l, sessions: sessions, pub: pub}
}

func (f fixture) balance(t *testing.T) int64 {
	t.Helper()
	b, err := f.ledger.GetBalance(context.Background(), "acc")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	return b
}

func (f fixture) history(t *testing.T) []model.HistoryEntry {
	t.Helper()
	h, err := f.ledger.GetHistory(context.Background(), "acc")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	return h
}

// Колесо: ставка 10, выпал сектор 5x
func TestSpinWheel_Win(t *testing.T) {
	f := newFixture(t, 100, rng.NewScripted(3))

	res, err := f.svc.SpinWheel(context.Background(), "acc", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Spin.SegmentLabel != "5x" || res.Spin.WinAmount != 50 {
		t.Errorf("expected 5x win 50, got %s win %d", res.Spin.SegmentLabel, res.Spin.WinAmount)
	}
	if res.Balance != 140 || f.balance(t) != 140 {
		t.Errorf("expected balance 140, got %d", res.Balance)
	}

	h := f.history(t)
	if len(h) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(h))
	}
	if h[0].Outcome != "Landed on 5x" || h[0].Game != model.GameNameWheel || h[0].BalanceAfter != 140 {
		t.Errorf("unexpected entry: %+v", h[0])
	}
	if len(f.pub.events) != 1 || f.pub.events[0].WinAmount != 50 {
		t.Errorf("expected one published event with win 50, got %+v", f.pub.events)
	}

	stats := f.svc.Stats()
	if len(stats) != 1 || stats[0].Rounds != 1 || stats[0].TotalPayout != 50 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestSpinWheel_InvalidStake(t *testing.T) {
	src := rng.NewScripted(3)
	f := newFixture(t, 100, src)

	for _, stake := range []int64{0, -5, 101} {
		if _, err := f.svc.SpinWheel(context.Background(), "acc", stake); !errors.Is(err, model.ErrInvalidStake) {
			t.Errorf("stake %d: expected ErrInvalidStake, got %v", stake, err)
		}
	}
	if f.balance(t) != 100 {
		t.Errorf("balance must not change, got %d", f.balance(t))
	}
	if len(f.history(t)) != 0 {
		t.Errorf("history must stay empty")
	}
	if src.Calls() != 0 {
		t.Errorf("rejected stake must not draw, got %d draws", src.Calls())
	}
}

func TestSpinWheel_UnknownAccount(t *testing.T) {
	f := newFixture(t, 100, rng.NewScripted(0))

	if _, err := f.svc.SpinWheel(context.Background(), "nobody", 10); !errors.Is(err, model.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

// Дуэль: выстрел на первом нажатии, ход игрока - победа
func TestElimination_FireOnFirstPullWins(t *testing.T) {
	f := newFixture(t, 100, rng.NewScripted(0))
	ctx := context.Background()

	sess, err := f.svc.StartElimination(ctx, "acc", 20, "bot")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if f.balance(t) != 80 {
		t.Errorf("expected balance 80 after stake, got %d", f.balance(t))
	}

	if _, err := f.svc.SpinBarrel(ctx, sess.ID); err != nil {
		t.Fatalf("spin barrel: %v", err)
	}
	res, err := f.svc.PullTrigger(ctx, sess.ID)
	if err != nil {
		t.Fatalf("pull trigger: %v", err)
	}

	if !res.Fired || res.Session.Outcome != model.OutcomeWin {
		t.Errorf("expected fired win, got fired=%v outcome=%s", res.Fired, res.Session.Outcome)
	}
	if res.Balance != 120 || f.balance(t) != 120 {
		t.Errorf("expected balance 120, got %d", res.Balance)
	}

	h := f.history(t)
	if len(h) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(h))
	}
	if h[0].ID != sess.ID || h[0].Outcome != "won" || h[0].WinAmount != 40 || h[0].OpponentID != "bot" {
		t.Errorf("unexpected entry: %+v", h[0])
	}

	// Сессия закрыта, аккаунт свободен
	if _, err := f.svc.GetElimination(ctx, sess.ID); !errors.Is(err, model.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := f.svc.PullTrigger(ctx, sess.ID); !errors.Is(err, model.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound on finished session, got %v", err)
	}
}

// Дуэль: холостой у игрока, выстрел у соперника - проигрыш
func TestElimination_OpponentFiresLoses(t *testing.T) {
	f := newFixture(t, 100, rng.NewScripted(1, 0))
	ctx := context.Background()

	sess, err := f.svc.StartElimination(ctx, "acc", 20, "bot")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	f.svc.SpinBarrel(ctx, sess.ID)
	res, err := f.svc.PullTrigger(ctx, sess.ID)
	if err != nil {
		t.Fatalf("first pull: %v", err)
	}
	if res.Fired || res.Session.Phase != model.PhaseReady || res.Session.Turn != model.TurnOpponent || res.Session.Chamber != 2 {
		t.Errorf("unexpected state after misfire: %+v", res.Session)
	}
	if res.Balance != 80 {
		t.Errorf("expected balance 80 mid-game, got %d", res.Balance)
	}
	if len(f.history(t)) != 0 {
		t.Errorf("history must be empty mid-game")
	}

	f.svc.SpinBarrel(ctx, sess.ID)
	res, err = f.svc.PullTrigger(ctx, sess.ID)
	if err != nil {
		t.Fatalf("second pull: %v", err)
	}
	if res.Session.Outcome != model.OutcomeLose || res.Balance != 80 {
		t.Errorf("expected loss with balance 80, got %s %d", res.Session.Outcome, res.Balance)
	}

	h := f.history(t)
	if len(h) != 1 || h[0].Outcome != "lost" || h[0].WinAmount != 0 {
		t.Errorf("unexpected history: %+v", h)
	}
}

// Ни одного выстрела: пятая осечка доводит барабан до последней каморы, ход был за игроком
func TestElimination_ForcedOnLastChamber(t *testing.T) {
	f := newFixture(t, 100, rng.NewScripted(1))
	ctx := context.Background()

	sess, err := f.svc.StartElimination(ctx, "acc", 10, "bot")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	var res *model.EliminationResult
	for i := 0; i < elimination.DefaultChambers-1; i++ {
		if _, err := f.svc.SpinBarrel(ctx, sess.ID); err != nil {
			t.Fatalf("spin %d: %v", i+1, err)
		}
		res, err = f.svc.PullTrigger(ctx, sess.ID)
		if err != nil {
			t.Fatalf("pull %d: %v", i+1, err)
		}
	}

	if res.Session.Phase != model.PhaseResolved || !res.Session.Forced || res.Fired {
		t.Errorf("expected forced resolution, got %+v fired=%v", res.Session, res.Fired)
	}
	if res.Session.Outcome != model.OutcomeWin || res.Balance != 110 {
		t.Errorf("expected forced win with balance 110, got %s %d", res.Session.Outcome, res.Balance)
	}
	if res.Session.Pulls != elimination.DefaultChambers-1 {
		t.Errorf("expected %d pulls, got %d", elimination.DefaultChambers-1, res.Session.Pulls)
	}
	if len(f.history(t)) != 1 {
		t.Errorf("expected exactly one history entry")
	}
	if _, err := f.svc.SpinBarrel(ctx, sess.ID); !errors.Is(err, model.ErrSessionNotFound) {
		t.Errorf("expected no sixth pull, got %v", err)
	}
}

func TestElimination_IllegalTransitions(t *testing.T) {
	f := newFixture(t, 100, rng.NewScripted(1))
	ctx := context.Background()

	sess, err := f.svc.StartElimination(ctx, "acc", 10, "bot")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := f.svc.PullTrigger(ctx, sess.ID); !errors.Is(err, model.ErrIllegalTransition) {
		t.Errorf("pull before spin: expected ErrIllegalTransition, got %v", err)
	}
	f.svc.SpinBarrel(ctx, sess.ID)
	if _, err := f.svc.SpinBarrel(ctx, sess.ID); !errors.Is(err, model.ErrIllegalTransition) {
		t.Errorf("double spin: expected ErrIllegalTransition, got %v", err)
	}
	if _, err := f.svc.SpinBarrel(ctx, "missing"); !errors.Is(err, model.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestStartElimination_Validation(t *testing.T) {
	f := newFixture(t, 100, rng.NewScripted(1))
	ctx := context.Background()

	cases := []struct {
		name     string
		stake    int64
		opponent string
		wantErr  error
	}{
		{"zero stake", 0, "bot", model.ErrInvalidStake},
		{"stake above balance", 101, "bot", model.ErrInvalidStake},
		{"no opponent", 10, "", model.ErrInvalidOpponent},
		{"self as opponent", 10, "acc", model.ErrInvalidOpponent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.StartElimination(ctx, "acc", tc.stake, tc.opponent); !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
	if f.balance(t) != 100 {
		t.Errorf("balance must not change, got %d", f.balance(t))
	}
}

func TestSessionInUse(t *testing.T) {
	f := newFixture(t, 100, rng.NewScripted(1))
	ctx := context.Background()

	if _, err := f.svc.StartElimination(ctx, "acc", 10, "bot"); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := f.svc.StartElimination(ctx, "acc", 10, "bot"); !errors.Is(err, model.ErrSessionInUse) {
		t.Errorf("second duel: expected ErrSessionInUse, got %v", err)
	}
	if _, err := f.svc.SpinWheel(ctx, "acc", 10); !errors.Is(err, model.ErrSessionInUse) {
		t.Errorf("wheel during duel: expected ErrSessionInUse, got %v", err)
	}
	if f.balance(t) != 90 {
		t.Errorf("expected balance 90, got %d", f.balance(t))
	}
}

// Выход из дуэли: ставка сгорает, истории нет, аккаунт свободен
func TestQuitElimination(t *testing.T) {
	f := newFixture(t, 100, rng.NewScripted(1))
	ctx := context.Background()

	sess, err := f.svc.StartElimination(ctx, "acc", 30, "bot")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := f.svc.QuitElimination(ctx, sess.ID); err != nil {
		t.Fatalf("quit: %v", err)
	}

	if f.balance(t) != 70 {
		t.Errorf("expected balance 70, got %d", f.balance(t))
	}
	if len(f.history(t)) != 0 {
		t.Errorf("quit must not write history")
	}
	if len(f.pub.events) != 0 {
		t.Errorf("quit must not publish events")
	}
	if _, err := f.svc.SpinWheel(ctx, "acc", 10); err != nil {
		t.Errorf("account must be free after quit, got %v", err)
	}
	if err := f.svc.QuitElimination(ctx, sess.ID); !errors.Is(err, model.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

// Ровно одна запись истории на завершённую игру, баланс сходится с историей
func TestHistoryMatchesBalance(t *testing.T) {
	src, err := rng.NewSeededSource(make([]byte, 32))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	f := newFixture(t, 1000, src)
	ctx := context.Background()

	resolved := 0
	for i := 0; i < 30; i++ {
		if _, err := f.svc.SpinWheel(ctx, "acc", 5); err != nil {
			t.Fatalf("spin %d: %v", i, err)
		}
		resolved++

		sess, err := f.svc.StartElimination(ctx, "acc", 5, "bot")
		if err != nil {
			t.Fatalf("start %d: %v", i, err)
		}
		for {
			f.svc.SpinBarrel(ctx, sess.ID)
			res, err := f.svc.PullTrigger(ctx, sess.ID)
			if err != nil {
				t.Fatalf("pull: %v", err)
			}
			if res.Session.Phase == model.PhaseResolved {
				break
			}
		}
		resolved++
	}

	h := f.history(t)
	if len(h) != resolved {
		t.Fatalf("expected %d entries, got %d", resolved, len(h))
	}

	// Дуэль: -ставка при старте, +банк при победе. Колесо: выигрыш - ставка
	want := int64(1000)
	for _, e := range h {
		want += e.WinAmount - e.Stake
		if e.BalanceAfter != want {
			t.Fatalf("entry %s: expected balance_after %d, got %d", e.ID, want, e.BalanceAfter)
		}
	}
	if f.balance(t) != want {
		t.Errorf("expected balance %d, got %d", want, f.balance(t))
	}
}

// Параллельные спины по одному аккаунту не уводят баланс в минус
func TestSpinWheel_Concurrent(t *testing.T) {
	f := newFixture(t, 100, rng.NewScripted(0))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.svc.SpinWheel(ctx, "acc", 10)
		}()
	}
	wg.Wait()

	// Сектор 0x, каждая успешная ставка сгорает
	if f.balance(t) != 0 {
		t.Errorf("expected balance 0, got %d", f.balance(t))
	}
	if len(f.history(t)) != 10 {
		t.Errorf("expected 10 entries, got %d", len(f.history(t)))
	}
}

func TestLocker(t *testing.T) {
	l := newLocker()

	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("acc")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("expected 100, got %d", counter)
	}
	if len(l.locks) != 0 {
		t.Errorf("expected no lock entries left, got %d", len(l.locks))
	}
}

// Списание не прошло: дуэль не создаётся, даже если хранилище не умеет удалять
func TestStartElimination_DebitFailsLeavesNoSession(t *testing.T) {
	sessions := &flakySessions{failDelete: true}
	f := newFixtureWith(t, 100, rng.NewScripted(0),
		func(l service.LedgerService) service.LedgerService { return failingLedger{l} },
		func(r repository.SessionRepository) repository.SessionRepository {
			sessions.SessionRepository = r
			return sessions
		},
	)
	ctx := context.Background()

	if _, err := f.svc.StartElimination(ctx, "acc", 20, "bot"); !errors.Is(err, errStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}

	if id, ok, _ := f.sessions.ActiveByAccount(ctx, "acc"); ok {
		t.Fatalf("expected no active duel, got %s", id)
	}
	if f.balance(t) != 100 {
		t.Errorf("expected balance 100, got %d", f.balance(t))
	}
	if len(f.history(t)) != 0 {
		t.Errorf("expected no history")
	}

	// Колесо доступно, значит аккаунт не занят брошенной дуэлью
	if _, err := f.svc.SpinWheel(ctx, "acc", 10); err != nil {
		t.Errorf("expected wheel to be available, got %v", err)
	}
}

// Сессию не удалось создать после списания - ставка возвращается
func TestStartElimination_CreateFailsRefundsStake(t *testing.T) {
	sessions := &flakySessions{failCreate: true}
	f := newFixtureWith(t, 100, rng.NewScripted(1), nil,
		func(r repository.SessionRepository) repository.SessionRepository {
			sessions.SessionRepository = r
			return sessions
		},
	)
	ctx := context.Background()

	if _, err := f.svc.StartElimination(ctx, "acc", 30, "bot"); !errors.Is(err, errStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if f.balance(t) != 100 {
		t.Errorf("expected stake refunded, balance 100, got %d", f.balance(t))
	}
	if _, ok, _ := f.sessions.ActiveByAccount(ctx, "acc"); ok {
		t.Errorf("expected no active duel")
	}
}

// Исход, который не удалось сохранить, при повторе не разыгрывается заново
func TestPullTrigger_RetryAfterFailedSaveReusesDraw(t *testing.T) {
	src := rng.NewScripted(0, 1, 1, 1, 1, 1)
	sessions := &flakySessions{}
	f := newFixtureWith(t, 100, src, nil,
		func(r repository.SessionRepository) repository.SessionRepository {
			sessions.SessionRepository = r
			return sessions
		},
	)
	ctx := context.Background()

	sess, err := f.svc.StartElimination(ctx, "acc", 20, "bot")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.svc.SpinBarrel(ctx, sess.ID); err != nil {
		t.Fatalf("spin barrel: %v", err)
	}

	sessions.failUpdates = 1
	if _, err := f.svc.PullTrigger(ctx, sess.ID); !errors.Is(err, errStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if src.Calls() != 1 {
		t.Fatalf("expected 1 draw, got %d", src.Calls())
	}

	// Первый розыгрыш был выстрелом в ход игрока, повтор обязан его сохранить
	res, err := f.svc.PullTrigger(ctx, sess.ID)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if src.Calls() != 1 {
		t.Errorf("retry must not draw again, got %d draws", src.Calls())
	}
	if !res.Fired || res.Session.Outcome != model.OutcomeWin || res.Balance != 120 {
		t.Errorf("expected the first draw (fired win, balance 120), got fired=%v %s %d",
			res.Fired, res.Session.Outcome, res.Balance)
	}
	if len(f.history(t)) != 1 {
		t.Errorf("expected exactly one history entry")
	}
}

// Повторный старт во время дуэли - занятая сессия, а не ошибка ставки
func TestStartElimination_ActiveSessionCheckedBeforeStake(t *testing.T) {
	f := newFixture(t, 100, rng.NewScripted(1))
	ctx := context.Background()

	if _, err := f.svc.StartElimination(ctx, "acc", 80, "bot"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.svc.StartElimination(ctx, "acc", 50, "bot"); !errors.Is(err, model.ErrSessionInUse) {
		t.Errorf("expected ErrSessionInUse, got %v", err)
	}
}

var _ producer.Publisher = (*recordingPublisher)(nil)
