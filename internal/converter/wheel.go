package converter

import (
	dto "minigames_backend/internal/api/dto/wheel"
	"minigames_backend/internal/model"
)

func ToWheelSpinResponse(res model.WheelResult) dto.SpinResponse {
	return dto.SpinResponse{
		SegmentIndex: res.Spin.SegmentIndex,
		SegmentLabel: res.Spin.SegmentLabel,
		Multiplier:   res.Spin.Multiplier.String(),
		WinAmount:    res.Spin.WinAmount,
		Balance:      res.Balance,
		Angle:        res.Spin.Angle,
	}
}

func ToSegmentsResponse(segments []model.Segment) dto.SegmentsResponse {
	out := make([]dto.Segment, 0, len(segments))
	for _, s := range segments {
		out = append(out, dto.Segment{
			Label:      s.Label,
			Color:      s.Color,
			Multiplier: s.Multiplier.String(),
		})
	}
	return dto.SegmentsResponse{Segments: out}
}
