package wheel

type SpinRequest struct {
	AccountID string `json:"account_id"`
	Stake     int64  `json:"stake"` // Ставка (положительное целое, не больше баланса)
}

type SpinResponse struct {
	SegmentIndex int     `json:"segment_index"`
	SegmentLabel string  `json:"segment_label"`
	Multiplier   string  `json:"multiplier"`
	WinAmount    int64   `json:"win_amount"`
	Balance      int64   `json:"balance"` // Баланс после спина
	Angle        float64 `json:"angle"`   // Угол начала сектора для анимации
}

type Segment struct {
	Label      string `json:"label"`
	Color      string `json:"color"`
	Multiplier string `json:"multiplier"`
}

type SegmentsResponse struct {
	Segments []Segment `json:"segments"`
}
