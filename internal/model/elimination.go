package model

import "time"

// Phase состояние дуэли
type Phase string

const (
	PhaseReady           Phase = "ready"            // Ждём прокрутки барабана
	PhaseAwaitingTrigger Phase = "awaiting_trigger" // Барабан остановился, можно жать на курок
	PhaseResolved        Phase = "resolved"         // Игра окончена
)

// Turn чей сейчас ход
type Turn string

const (
	TurnSelf     Turn = "self"
	TurnOpponent Turn = "opponent"
)

// Opposite возвращает противоположный ход
func (t Turn) Opposite() Turn {
	if t == TurnSelf {
		return TurnOpponent
	}
	return TurnSelf
}

type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
)

// EliminationSession - состояние одной дуэли на шесть камор
type EliminationSession struct {
	ID         string
	AccountID  string
	OpponentID string
	Stake      int64
	Pot        int64 // 2*Stake
	Chamber    int   // 1..6, счетчик для отображения
	Turn       Turn
	Phase      Phase
	Outcome    Outcome
	Pulls      int  // Сколько раз жали на курок
	Forced     bool // Исход по правилу последней каморы
	Committed  bool // Выигрыш и история уже записаны в леджер
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Payout - сумма к начислению при завершении. Ставка уже списана при старте
func (s *EliminationSession) Payout() int64 {
	if s.Outcome == OutcomeWin {
		return s.Pot
	}
	return 0
}

// EliminationResult - ответ на нажатие курка
type EliminationResult struct {
	Session *EliminationSession
	Fired   bool
	Balance int64 // Баланс после хода (после начисления, если игра закончилась)
}
