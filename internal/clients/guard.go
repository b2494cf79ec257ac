package clients

import "sync"

// guardSet — ключи запросов, которые уже выполняются.
// Повторный запрос с тем же ключом отклоняется, а не ставится в очередь.
type guardSet struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func (g *guardSet) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inFlight == nil {
		g.inFlight = make(map[string]struct{})
	}
	if _, busy := g.inFlight[key]; busy {
		return false
	}

	g.inFlight[key] = struct{}{}
	return true
}

func (g *guardSet) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.inFlight, key)
}
