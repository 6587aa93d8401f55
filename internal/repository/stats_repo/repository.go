package stats_repo

import (
	"sort"
	"sync"

	"minigames_backend/internal/model"
	"minigames_backend/internal/repository"
)

// state накопленные суммы по одной игре
type state struct {
	rounds      int64
	totalStake  int64
	totalPayout int64
}

type repo struct {
	mu    sync.Mutex
	games map[model.GameKind]*state
}

func NewStatsRepository() repository.StatsRepository {
	return &repo{
		games: make(map[model.GameKind]*state),
	}
}

// Record - учитывает один завершённый раунд
func (r *repo) Record(game model.GameKind, stake, payout int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.games[game]
	if !ok {
		st = &state{}
		r.games[game] = st
	}
	st.rounds++
	st.totalStake += stake
	st.totalPayout += payout
}

// Snapshot - копия статистики, отсортированная по названию игры
func (r *repo) Snapshot() []model.GameStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.GameStats, 0, len(r.games))
	for game, st := range r.games {
		out = append(out, model.GameStats{
			Game:        game,
			Rounds:      st.rounds,
			TotalStake:  st.totalStake,
			TotalPayout: st.totalPayout,
			RTP:         rtp(st.totalStake, st.totalPayout),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Game < out[j].Game })

	return out
}

// rtp RTP = (TotalPayout/TotalStake)*100
func rtp(stake, payout int64) float64 {
	if stake == 0 {
		return 0
	}
	return float64(payout) / float64(stake) * 100
}
