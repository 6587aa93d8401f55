package wheel

import (
	"errors"
	"fmt"

	"minigames_backend/internal/model"
	"minigames_backend/pkg/rng"

	"github.com/shopspring/decimal"
)

// Engine - колесо с фиксированным набором секторов
type Engine struct {
	segments []model.Segment
	src      rng.Source
}

func NewEngine(segments []model.Segment, src rng.Source) (*Engine, error) {
	if len(segments) == 0 {
		return nil, errors.New("wheel must have at least one segment")
	}
	if src == nil {
		return nil, errors.New("random source is nil")
	}
	for i, seg := range segments {
		if seg.Multiplier.IsNegative() {
			return nil, fmt.Errorf("segment %d (%s): negative multiplier %s", i, seg.Label, seg.Multiplier)
		}
	}

	cp := make([]model.Segment, len(segments))
	copy(cp, segments)

	return &Engine{segments: cp, src: src}, nil
}

// Segments возвращает копию таблицы секторов
func (e *Engine) Segments() []model.Segment {
	cp := make([]model.Segment, len(e.segments))
	copy(cp, e.segments)
	return cp
}

// Spin - один спин. Исход определяется розыгрышем индекса,
// угол для анимации считается уже из выпавшего индекса
func (e *Engine) Spin(stake, balance int64) (model.WheelSpin, error) {
	// Валидация ставки
	if stake <= 0 || stake > balance {
		return model.WheelSpin{}, fmt.Errorf("stake %d with balance %d: %w", stake, balance, model.ErrInvalidStake)
	}

	idx := e.src.Intn(len(e.segments))
	seg := e.segments[idx]

	return model.WheelSpin{
		Stake:        stake,
		SegmentIndex: idx,
		SegmentLabel: seg.Label,
		Multiplier:   seg.Multiplier,
		WinAmount:    WinAmount(stake, seg.Multiplier),
		Angle:        e.Angle(idx),
	}, nil
}

// Angle - угол начала сектора в градусах
func (e *Engine) Angle(idx int) float64 {
	return float64(idx) * 360 / float64(len(e.segments))
}

// WinAmount = floor(stake * multiplier)
func WinAmount(stake int64, multiplier decimal.Decimal) int64 {
	return decimal.NewFromInt(stake).Mul(multiplier).Floor().IntPart()
}

// NetDelta - изменение баланса за спин одним шагом
func NetDelta(spin model.WheelSpin) int64 {
	return spin.WinAmount - spin.Stake
}
