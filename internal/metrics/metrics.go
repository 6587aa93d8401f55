package metrics

import (
	"minigames_backend/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics - счётчики игр и леджера
type Metrics struct {
	gamesStarted        *prometheus.CounterVec
	gamesResolved       *prometheus.CounterVec
	stakeTotal          *prometheus.CounterVec
	payoutTotal         *prometheus.CounterVec
	invariantViolations prometheus.Counter
}

// New регистрирует метрики в reg. В тестах передаётся prometheus.NewRegistry()
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		gamesStarted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "minigames_games_started_total",
			Help: "Games started, by game kind.",
		}, []string{"game"}),
		gamesResolved: f.NewCounterVec(prometheus.CounterOpts{
			Name: "minigames_games_resolved_total",
			Help: "Games resolved and committed to the ledger, by game kind and outcome.",
		}, []string{"game", "outcome"}),
		stakeTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "minigames_stake_total",
			Help: "Sum of stakes of resolved games.",
		}, []string{"game"}),
		payoutTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "minigames_payout_total",
			Help: "Sum of payouts of resolved games.",
		}, []string{"game"}),
		invariantViolations: f.NewCounter(prometheus.CounterOpts{
			Name: "minigames_ledger_invariant_violations_total",
			Help: "Detected balance invariant violations.",
		}),
	}
}

func (m *Metrics) GameStarted(game model.GameKind) {
	m.gamesStarted.WithLabelValues(string(game)).Inc()
}

// GameResolved - раунд записан в леджер
func (m *Metrics) GameResolved(game model.GameKind, outcome string, stake, payout int64) {
	m.gamesResolved.WithLabelValues(string(game), outcome).Inc()
	m.stakeTotal.WithLabelValues(string(game)).Add(float64(stake))
	m.payoutTotal.WithLabelValues(string(game)).Add(float64(payout))
}

func (m *Metrics) InvariantViolation() {
	m.invariantViolations.Inc()
}
