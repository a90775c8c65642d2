package postdetail

import "sync"

// Guard tracks keys with a remote operation in flight.
type Guard struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

// NewGuard creates an empty guard.
func NewGuard() *Guard {
	return &Guard{pending: make(map[string]struct{})}
}

// Acquire marks key as pending. It returns false if key is already pending.
func (g *Guard) Acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.pending[key]; ok {
		return false
	}
	g.pending[key] = struct{}{}
	return true
}

// Release clears key.
func (g *Guard) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.pending, key)
}

// Pending reports whether key has an operation in flight.
func (g *Guard) Pending(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.pending[key]
	return ok
}
