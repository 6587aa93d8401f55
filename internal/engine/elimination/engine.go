package elimination

import (
	"errors"
	"fmt"

	"minigames_backend/internal/model"
	"minigames_backend/pkg/rng"
)

const (
	// Количество камор в барабане
	DefaultChambers = 6
	// Выстрел с вероятностью 1/DefaultFireOdds на каждом нажатии
	DefaultFireOdds = 6
)

// Action действие игрока
type Action string

const (
	ActionSpinBarrel  Action = "spin_barrel"
	ActionPullTrigger Action = "pull_trigger"
)

// Effects - последствия перехода, которые исполняет GameSession
type Effects struct {
	Fired    bool  // Был выстрел
	Resolved bool  // Игра закончилась этим переходом
	Credit   int64 // Сколько начислить аккаунту (банк при победе)
}

// Engine - конечный автомат дуэли. Сам состояние не хранит
type Engine struct {
	chambers int
	fireOdds int
	src      rng.Source
}

func NewEngine(chambers, fireOdds int, src rng.Source) (*Engine, error) {
	if chambers <= 0 {
		return nil, fmt.Errorf("chambers must be positive, got %d", chambers)
	}
	if fireOdds <= 0 {
		return nil, fmt.Errorf("fire odds must be positive, got %d", fireOdds)
	}
	if src == nil {
		return nil, errors.New("random source is nil")
	}

	return &Engine{
		chambers: chambers,
		fireOdds: fireOdds,
		src:      src,
	}, nil
}

// Chambers количество камор
func (e *Engine) Chambers() int {
	return e.chambers
}

// NewSession - начальное состояние дуэли. Первый ход всегда за игроком
func (e *Engine) NewSession(id, accountID, opponentID string, stake int64) (model.EliminationSession, error) {
	if stake <= 0 {
		return model.EliminationSession{}, model.ErrInvalidStake
	}

	return model.EliminationSession{
		ID:         id,
		AccountID:  accountID,
		OpponentID: opponentID,
		Stake:      stake,
		Pot:        stake * 2,
		Chamber:    1,
		Turn:       model.TurnSelf,
		Phase:      model.PhaseReady,
		Outcome:    model.OutcomeNone,
	}, nil
}

// Transition применяет действие к состоянию и возвращает новое состояние.
// Переданное состояние не меняется; при ошибке возвращается оно же
func (e *Engine) Transition(s model.EliminationSession, a Action) (model.EliminationSession, Effects, error) {
	switch a {
	case ActionSpinBarrel:
		return e.spinBarrel(s)
	case ActionPullTrigger:
		return e.pullTrigger(s)
	default:
		return s, Effects{}, fmt.Errorf("unknown action %q: %w", a, model.ErrIllegalTransition)
	}
}

// spinBarrel - только смена фазы, без розыгрыша
func (e *Engine) spinBarrel(s model.EliminationSession) (model.EliminationSession, Effects, error) {
	if s.Phase != model.PhaseReady {
		return s, Effects{}, fmt.Errorf("spin barrel in phase %s: %w", s.Phase, model.ErrIllegalTransition)
	}

	s.Phase = model.PhaseAwaitingTrigger
	return s, Effects{}, nil
}

// pullTrigger - один независимый розыгрыш с вероятностью выстрела 1/fireOdds,
// номер каморы на вероятность не влияет
func (e *Engine) pullTrigger(s model.EliminationSession) (model.EliminationSession, Effects, error) {
	if s.Phase != model.PhaseAwaitingTrigger {
		return s, Effects{}, fmt.Errorf("pull trigger in phase %s: %w", s.Phase, model.ErrIllegalTransition)
	}

	s.Pulls++
	fired := e.src.Intn(e.fireOdds) == 0

	if fired {
		// Выстрел в свой ход - победа игрока, в ход соперника - поражение
		s = resolve(s, s.Turn)
		return s, Effects{Fired: true, Resolved: true, Credit: s.Payout()}, nil
	}

	s.Chamber++

	// Осечка довела барабан до последней каморы - побеждает тот, чей был ход.
	// При шести каморах это всегда игрок после пятого нажатия
	if s.Chamber >= e.chambers {
		s = resolve(s, s.Turn)
		s.Forced = true
		return s, Effects{Resolved: true, Credit: s.Payout()}, nil
	}

	s.Turn = s.Turn.Opposite()
	s.Phase = model.PhaseReady
	return s, Effects{}, nil
}

func resolve(s model.EliminationSession, winner model.Turn) model.EliminationSession {
	s.Phase = model.PhaseResolved
	if winner == model.TurnSelf {
		s.Outcome = model.OutcomeWin
	} else {
		s.Outcome = model.OutcomeLose
	}
	return s
}
