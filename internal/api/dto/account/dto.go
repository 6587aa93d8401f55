package account

import "time"

type OpenRequest struct {
	AccountID      string `json:"account_id"`
	InitialBalance *int64 `json:"initial_balance,omitempty"` // Если не задан - баланс по умолчанию
}

type DepositRequest struct {
	Amount int64 `json:"amount"` // Сумма депозита
}

type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
}

type HistoryEntry struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Game         string    `json:"game"`
	Stake        int64     `json:"stake"`
	Outcome      string    `json:"outcome"`
	WinAmount    int64     `json:"win_amount"`
	BalanceAfter int64     `json:"balance_after"`
	OpponentID   string    `json:"opponent_id,omitempty"`
}

type HistoryResponse struct {
	AccountID string         `json:"account_id"`
	Entries   []HistoryEntry `json:"entries"`
}

type GameStats struct {
	Game        string  `json:"game"`
	Rounds      int64   `json:"rounds"`
	TotalStake  int64   `json:"total_stake"`
	TotalPayout int64   `json:"total_payout"`
	RTP         float64 `json:"rtp"` // Процент возврата
}

type StatsResponse struct {
	Games []GameStats `json:"games"`
}
