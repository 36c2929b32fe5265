package tracker

import "sync"

// Guarded serialises every call on a Tracker. HTTP and MCP handlers run on
// their own goroutines and share one Guarded.
type Guarded struct {
	mu sync.Mutex
	t  *Tracker
}

// NewGuarded wraps t. t must not be used directly afterwards.
func NewGuarded(t *Tracker) *Guarded {
	return &Guarded{t: t}
}

// Do runs fn with exclusive access to the tracker.
func (g *Guarded) Do(fn func(t *Tracker) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g.t)
}
