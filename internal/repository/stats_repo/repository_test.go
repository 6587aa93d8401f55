package stats_repo

import (
	"testing"

	"minigames_backend/internal/model"
)

func TestStats_RecordAndSnapshot(t *testing.T) {
	r := NewStatsRepository()

	if got := r.Snapshot(); len(got) != 0 {
		t.Fatalf("expected empty snapshot, got %d entries", len(got))
	}

	r.Record(model.GameKindWheel, 10, 50)
	r.Record(model.GameKindWheel, 10, 0)
	r.Record(model.GameKindElimination, 20, 40)

	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 games, got %d", len(snap))
	}

	// Сортировка по названию: elimination < wheel
	elim, wheel := snap[0], snap[1]
	if elim.Game != model.GameKindElimination || wheel.Game != model.GameKindWheel {
		t.Fatalf("unexpected order: %s, %s", elim.Game, wheel.Game)
	}
	if wheel.Rounds != 2 || wheel.TotalStake != 20 || wheel.TotalPayout != 50 {
		t.Errorf("unexpected wheel stats: %+v", wheel)
	}
	if wheel.RTP != 250 {
		t.Errorf("expected wheel RTP 250, got %v", wheel.RTP)
	}
	if elim.RTP != 200 {
		t.Errorf("expected elimination RTP 200, got %v", elim.RTP)
	}
}
