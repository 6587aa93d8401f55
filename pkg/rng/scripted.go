package rng

import "sync"

// Scripted отдаёт заранее заданные значения по кругу. Нужен для воспроизведения раундов в тестах
type Scripted struct {
	mu     sync.Mutex
	values []int
	pos    int
	calls  int
}

func NewScripted(values ...int) *Scripted {
	return &Scripted{values: values}
}

// Intn возвращает следующее значение, приведённое в [0, n)
func (s *Scripted) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Calls - сколько раз запрашивали число
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
