package converter

import (
	dto "minigames_backend/internal/api/dto/elimination"
	"minigames_backend/internal/model"
)

func ToEliminationState(s model.EliminationSession) dto.StateResponse {
	return dto.StateResponse{
		SessionID:  s.ID,
		AccountID:  s.AccountID,
		OpponentID: s.OpponentID,
		Stake:      s.Stake,
		Pot:        s.Pot,
		Chamber:    s.Chamber,
		Turn:       string(s.Turn),
		Phase:      string(s.Phase),
		Outcome:    string(s.Outcome),
		Pulls:      s.Pulls,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func ToPullResponse(res model.EliminationResult) dto.PullResponse {
	return dto.PullResponse{
		State:     ToEliminationState(*res.Session),
		Fired:     res.Fired,
		Outcome:   string(res.Session.Outcome),
		WinAmount: res.Session.Payout(),
		Balance:   res.Balance,
	}
}
