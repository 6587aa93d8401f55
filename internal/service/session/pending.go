package session

import (
	"sync"

	"minigames_backend/internal/engine/elimination"
	"minigames_backend/internal/model"
)

// pendingPull - разыгранное нажатие, которое не удалось сохранить
type pendingPull struct {
	basePulls int // Pulls сессии до нажатия
	next      model.EliminationSession
	eff       elimination.Effects
}

// pendingPulls держит такие нажатия до повтора, чтобы повтор не разыгрывал исход заново
type pendingPulls struct {
	mu    sync.Mutex
	pulls map[string]pendingPull
}

func newPendingPulls() *pendingPulls {
	return &pendingPulls{pulls: make(map[string]pendingPull)}
}

func (p *pendingPulls) put(sessionID string, basePulls int, next model.EliminationSession, eff elimination.Effects) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pulls[sessionID] = pendingPull{basePulls: basePulls, next: next, eff: eff}
}

// take отдаёт сохранённый розыгрыш, если он сделан из того же состояния сессии
func (p *pendingPulls) take(sessionID string, basePulls int) (model.EliminationSession, elimination.Effects, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pp, ok := p.pulls[sessionID]
	if !ok {
		return model.EliminationSession{}, elimination.Effects{}, false
	}
	delete(p.pulls, sessionID)
	if pp.basePulls != basePulls {
		return model.EliminationSession{}, elimination.Effects{}, false
	}
	return pp.next, pp.eff, true
}

func (p *pendingPulls) drop(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.pulls, sessionID)
}
