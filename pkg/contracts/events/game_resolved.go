package events

// GameResolved - событие о завершённой и записанной в леджер игре
type GameResolved struct {
	EventID      string `json:"eventId"`
	AccountID    string `json:"accountId"`
	SessionID    string `json:"sessionId,omitempty"`
	Game         string `json:"game"`
	Stake        int64  `json:"stake"`
	WinAmount    int64  `json:"winAmount"`
	Outcome      string `json:"outcome"`
	BalanceAfter int64  `json:"balanceAfter"`
	TsUnixMs     int64  `json:"tsUnixMs"`
}
