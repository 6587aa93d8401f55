package elimination

import "time"

type StartRequest struct {
	AccountID  string `json:"account_id"`
	Stake      int64  `json:"stake"`       // Ставка (положительное целое, не больше баланса)
	OpponentID string `json:"opponent_id"` // Противник, не совпадает с игроком
}

type StateResponse struct {
	SessionID  string    `json:"session_id"`
	AccountID  string    `json:"account_id"`
	OpponentID string    `json:"opponent_id"`
	Stake      int64     `json:"stake"`
	Pot        int64     `json:"pot"`     // Банк = 2 * ставка
	Chamber    int       `json:"chamber"` // Текущая камора 1..6
	Turn       string    `json:"turn"`    // self | opponent
	Phase      string    `json:"phase"`   // ready | awaiting_trigger | resolved
	Outcome    string    `json:"outcome,omitempty"`
	Pulls      int       `json:"pulls"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type PullResponse struct {
	State     StateResponse `json:"state"`
	Fired     bool          `json:"fired"`      // Был выстрел на этом нажатии
	Outcome   string        `json:"outcome,omitempty"`
	WinAmount int64         `json:"win_amount"` // Начислено при завершении
	Balance   int64         `json:"balance"`    // Баланс после хода
}
