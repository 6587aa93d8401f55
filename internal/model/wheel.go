package model

import "github.com/shopspring/decimal"

// Segment - сектор колеса
type Segment struct {
	Label      string
	Color      string // Только для клиента
	Multiplier decimal.Decimal
}

// WheelSpin - результат одного спина колеса, живёт в пределах вызова
type WheelSpin struct {
	Stake        int64
	SegmentIndex int
	SegmentLabel string
	Multiplier   decimal.Decimal
	WinAmount    int64
	Angle        float64 // Угол начала сектора, выводится из индекса после розыгрыша
}

// WheelResult - то, что получает клиент после спина
type WheelResult struct {
	Spin    WheelSpin
	Balance int64
	Entry   HistoryEntry
}
