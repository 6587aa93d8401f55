package converter

import (
	dto "minigames_backend/internal/api/dto/account"
	"minigames_backend/internal/model"
)

func ToHistoryResponse(accountID string, entries []model.HistoryEntry) dto.HistoryResponse {
	out := make([]dto.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.HistoryEntry{
			ID:           e.ID,
			Timestamp:    e.Timestamp,
			Game:         e.Game,
			Stake:        e.Stake,
			Outcome:      e.Outcome,
			WinAmount:    e.WinAmount,
			BalanceAfter: e.BalanceAfter,
			OpponentID:   e.OpponentID,
		})
	}
	return dto.HistoryResponse{AccountID: accountID, Entries: out}
}

func ToStatsResponse(stats []model.GameStats) dto.StatsResponse {
	out := make([]dto.GameStats, 0, len(stats))
	for _, s := range stats {
		out = append(out, dto.GameStats{
			Game:        string(s.Game),
			Rounds:      s.Rounds,
			TotalStake:  s.TotalStake,
			TotalPayout: s.TotalPayout,
			RTP:         s.RTP,
		})
	}
	return dto.StatsResponse{Games: out}
}
