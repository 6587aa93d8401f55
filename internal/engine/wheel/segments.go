package wheel

import (
	"minigames_backend/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultSegments - секторы по часовой стрелке начиная сверху:
// четыре нулевых чередуются с убывающими множителями
func DefaultSegments() []model.Segment {
	return []model.Segment{
		{Label: "0x", Color: "#FF99C8", Multiplier: decimal.Zero},
		{Label: "10x", Color: "#9B5DE5", Multiplier: decimal.NewFromInt(10)},
		{Label: "0x", Color: "#D4A5A5", Multiplier: decimal.Zero},
		{Label: "5x", Color: "#FFEEAD", Multiplier: decimal.NewFromInt(5)},
		{Label: "0x", Color: "#96CEB4", Multiplier: decimal.Zero},
		{Label: "3x", Color: "#45B7D1", Multiplier: decimal.NewFromInt(3)},
		{Label: "0x", Color: "#4ECDC4", Multiplier: decimal.Zero},
		{Label: "2x", Color: "#FF6B6B", Multiplier: decimal.NewFromInt(2)},
	}
}
