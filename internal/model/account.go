package model

import "time"

type Account struct {
	ID        string
	Balance   int64
	CreatedAt time.Time
}

// GameKind вид игры в истории
type GameKind string

const (
	GameKindElimination GameKind = "elimination"
	GameKindWheel       GameKind = "wheel"
)

// Названия игр, которые видит игрок в истории
const (
	GameNameElimination = "Russian Roulette"
	GameNameWheel       = "Spin Wheel"
)

// HistoryEntry - неизменяемая запись о сыгранной игре
type HistoryEntry struct {
	ID           string
	AccountID    string
	Timestamp    time.Time
	Kind         GameKind
	Game         string
	Stake        int64
	Outcome      string // Свободное описание исхода ("Landed on 5x", "won", "lost")
	WinAmount    int64  // 0 при проигрыше
	BalanceAfter int64
	OpponentID   string // Только для дуэли
}

// GameStats - накопленная статистика RTP по игре
type GameStats struct {
	Game        GameKind
	Rounds      int64
	TotalStake  int64
	TotalPayout int64
	RTP         float64 // (TotalPayout/TotalStake)*100
}
